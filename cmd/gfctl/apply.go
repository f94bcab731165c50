package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/engine"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
	"github.com/alexisbeaulieu97/gfctl/internal/tui"
)

type applyOptions struct {
	ConfigPath  string
	Interactive bool
}

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Reconcile every task of a playbook in order",
		Long: `Apply runs the tasks of a playbook one after another. Each task is queried
first and only acted on when it differs from its desired state. The run
stops at the first failing task unless continue_on_error is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePlaybookPath(opts.ConfigPath); err != nil {
				return configFailure("apply playbook", opts.ConfigPath, err)
			}
			opts.Interactive = !root.json && isTerminal(cmd.OutOrStdout())
			return runApply(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the playbook file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(cmd *cobra.Command, flags *rootFlags, opts applyOptions) error {
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return configFailure("parse playbook", opts.ConfigPath, err)
	}

	sess, plan, err := prepare(cmd, flags, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	execCtx, err := sess.executionContext(ctx)
	if err != nil {
		return configFailure("configure retries", opts.ConfigPath, err)
	}

	sess.log.WithFields(map[string]any{
		"config":  opts.ConfigPath,
		"tasks":   len(plan.Tasks),
		"dry_run": execCtx.DryRun,
	}).Info("starting apply")

	out := cmd.OutOrStdout()
	state := tui.NewModel(cfg.Name, plan, execCtx.DryRun)

	var run applyRun
	if opts.Interactive {
		run, err = runInteractive(execCtx, plan, state, cancel)
		if err != nil {
			return err
		}
	} else {
		execCtx.Observer = tui.Observer(func(msg tea.Msg) { state = tui.Apply(state, msg) })
		run.results, run.err = engine.Execute(execCtx, plan)
		state = tui.Apply(state, tui.DoneMsg{Err: run.err})
		if err := render(out, flags.json, state, run); err != nil {
			return err
		}
	}
	results, execErr := run.results, run.err

	summary := model.Summarize(results)
	sess.log.WithFields(map[string]any{
		"ok":           summary.OK,
		"changed":      summary.Changed,
		"would_change": summary.WouldChange,
		"failed":       summary.Failed,
		"skipped":      summary.Skipped,
	}).Info("apply complete")

	metricsErr := sess.finish()
	if execErr != nil {
		return &exitError{
			code: exitFailure,
			err:  newCommandError("apply playbook", opts.ConfigPath, execErr, suggestionFor(execErr)),
		}
	}
	return metricsErr
}

// applyRun is what the executor returned.
type applyRun struct {
	results []model.TaskResult
	err     error
}

// runInteractive drives the progress TUI while the plan executes. Quitting the
// TUI cancels the run once the current command returns.
func runInteractive(execCtx *engine.ExecutionContext, plan *engine.ExecutionPlan, state tui.Model, cancel context.CancelFunc) (applyRun, error) {
	program := tea.NewProgram(state)
	execCtx.Observer = tui.Observer(program.Send)

	var programErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		final, err := program.Run()
		programErr = err
		if m, ok := final.(tui.Model); ok && m.Cancelled() {
			cancel()
		}
	}()

	var run applyRun
	run.results, run.err = engine.Execute(execCtx, plan)
	program.Send(tui.DoneMsg{Err: run.err})
	<-done

	return run, programErr
}

func render(out io.Writer, asJSON bool, state tui.Model, run applyRun) error {
	if asJSON {
		return writeJSON(out, newRunReport(run.results, run.err))
	}
	_, err := fmt.Fprintln(out, state.View())
	return err
}
