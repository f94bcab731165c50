package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/engine"
	"github.com/alexisbeaulieu97/gfctl/internal/logger"
	"github.com/alexisbeaulieu97/gfctl/internal/metrics"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// newRunner builds the asadmin runner. Tests swap it for a simulated server.
var newRunner = func(stream io.Writer) asadmin.Runner {
	return asadmin.ExecRunner{Stream: stream}
}

// session holds what one invocation shares across its tasks.
type session struct {
	cfg         *config.Config
	log         *logger.Logger
	metrics     *metrics.Metrics
	metricsFile string
	stream      io.Writer
}

// newSession finalises cfg with the flag overrides and prepares logging and
// metrics for the run.
func newSession(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) (*session, error) {
	applyOverrides(cmd, flags, cfg)
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.Settings.MaxAttempts < 1 {
		return nil, gferrors.NewValidationError("settings.max_attempts", "max attempts must be at least 1", nil)
	}

	level := "info"
	if cfg.Settings.Verbose {
		level = "debug"
	}

	errOut := cmd.ErrOrStderr()
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: isTerminal(errOut),
		Writer:        errOut,
		CorrelationID: logger.NewCorrelationID(),
	})
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:         cfg,
		log:         log.With("playbook", cfg.Name),
		metrics:     metrics.New(),
		metricsFile: flags.metricsFile,
	}
	if cfg.Settings.Verbose {
		s.stream = errOut
	}
	return s, nil
}

// executionContext wires the reconciler and runner for ctx.
func (s *session) executionContext(ctx context.Context) (*engine.ExecutionContext, error) {
	policy, err := reconcile.PolicyByName(s.cfg.Settings.Backoff, s.cfg.Settings.RetryDelay.Std(), s.cfg.Settings.MaxRetryDelay.Std())
	if err != nil {
		return nil, err
	}

	reconciler := reconcile.New(reconcile.Options{
		MaxAttempts: s.cfg.Settings.MaxAttempts,
		NewBackOff:  policy,
		Logger:      s.log,
		Metrics:     s.metrics,
	})

	return &engine.ExecutionContext{
		DryRun:          s.cfg.Settings.DryRun,
		ContinueOnError: s.cfg.Settings.ContinueOnError,
		Runner:          newRunner(s.stream),
		Reconciler:      reconciler,
		Results:         make(map[string]*model.TaskResult),
		Logger:          s.log,
		Metrics:         s.metrics,
		Context:         ctx,
	}, nil
}

// finish exports metrics when requested.
func (s *session) finish() error {
	if s.metricsFile == "" {
		return nil
	}
	if err := s.metrics.WriteTextfile(s.metricsFile); err != nil {
		s.log.Error(err, "failed to write metrics")
		return err
	}
	s.log.With("path", s.metricsFile).Debug("metrics written")
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM. Commands already running
// are left to finish; no further task or attempt starts.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
