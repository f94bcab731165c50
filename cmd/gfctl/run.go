package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/engine"
)

// commandVersion is the playbook version recorded for ad-hoc tasks.
const commandVersion = "1.0.0"

// prepare resolves cfg into a session and an execution plan.
func prepare(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) (*session, *engine.ExecutionPlan, error) {
	sess, err := newSession(cmd, flags, cfg)
	if err != nil {
		return nil, nil, configFailure("load configuration", cfg.Name, err)
	}

	plan, err := engine.GeneratePlan(cfg)
	if err != nil {
		return nil, nil, configFailure("plan tasks", cfg.Name, err)
	}
	sess.log.Debug("execution plan:\n" + plan.String())

	return sess, plan, nil
}

// runTask reconciles an ad-hoc single-task playbook and prints its result.
func runTask(cmd *cobra.Command, flags *rootFlags, cfg *config.Config) error {
	config.ApplyDefaults(cfg)

	sess, plan, err := prepare(cmd, flags, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	execCtx, err := sess.executionContext(ctx)
	if err != nil {
		return configFailure("configure retries", cfg.Name, err)
	}

	results, runErr := engine.Execute(execCtx, plan)
	metricsErr := sess.finish()

	out := cmd.OutOrStdout()
	if flags.json {
		if err := writeJSON(out, newRunReport(results, runErr)); err != nil {
			return err
		}
	} else {
		writeResultLines(out, results)
	}

	if runErr != nil {
		return &exitError{
			code: exitFailure,
			err:  newCommandError("reconcile", cfg.Tasks[0].DisplayName(), runErr, suggestionFor(runErr)),
		}
	}
	return metricsErr
}
