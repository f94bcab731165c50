package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/gfctl/internal/config"
	"github.com/alexisbeaulieu97/gfctl/internal/engine"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

func newVerifyCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <playbook.yaml>",
		Short: "Check whether the playbook targets are already in their desired state",
		Long: `Verify queries every enabled task without issuing any action.

Exit codes:
  0  every task is satisfied
  1  at least one task has drifted or is blocked by a missing precondition
  2  the playbook or a flag is invalid
  3  a query failed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, root, args[0])
		},
	}

	return cmd
}

func runVerify(cmd *cobra.Command, flags *rootFlags, path string) error {
	if err := validatePlaybookPath(path); err != nil {
		return configFailure("verify playbook", path, err)
	}

	cfg, err := config.ParseConfig(path)
	if err != nil {
		return configFailure("parse playbook", path, err)
	}

	sess, plan, err := prepare(cmd, flags, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	execCtx, err := sess.executionContext(ctx)
	if err != nil {
		return configFailure("configure retries", path, err)
	}

	sess.log.WithFields(map[string]any{
		"config": path,
		"tasks":  len(plan.Tasks),
	}).Info("starting verification")

	summary, err := engine.Verify(execCtx, plan)
	if err != nil {
		code := model.ExitRuntimeError
		if isConfigError(err) {
			code = model.ExitConfigError
		}
		return &exitError{code: code, err: newCommandError("verify playbook", path, err, suggestionFor(err))}
	}

	sess.log.WithFields(map[string]any{
		"total":     summary.TotalTasks,
		"satisfied": summary.Satisfied,
		"drifted":   summary.Drifted,
		"blocked":   summary.Blocked,
		"duration":  summary.Duration.String(),
	}).Info("verification complete")

	out := cmd.OutOrStdout()
	if flags.json {
		err = writeJSON(out, newVerifyReport(path, summary))
	} else {
		printVerifyTable(out, summary, cfg.Settings.Verbose)
	}
	if err != nil {
		return err
	}

	if err := sess.finish(); err != nil {
		return &exitError{code: model.ExitRuntimeError, err: err}
	}
	if code := summary.ExitCode(); code != model.ExitSatisfied {
		return &exitError{code: code}
	}
	return nil
}

type verifyResultReport struct {
	TaskID    string  `json:"task_id"`
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Pending   string  `json:"pending,omitempty"`
	Observed  string  `json:"observed,omitempty"`
	Details   string  `json:"details,omitempty"`
	Error     string  `json:"error,omitempty"`
	Duration  float64 `json:"duration_seconds"`
	Timestamp string  `json:"timestamp"`
}

type verifySummaryReport struct {
	TotalTasks int     `json:"total_tasks"`
	Satisfied  int     `json:"satisfied"`
	Drifted    int     `json:"drifted"`
	Blocked    int     `json:"blocked"`
	Duration   float64 `json:"duration_seconds"`
}

type verifyReport struct {
	ConfigFile string               `json:"config_file"`
	Changed    bool                 `json:"changed"`
	Summary    verifySummaryReport  `json:"summary"`
	Results    []verifyResultReport `json:"results"`
}

func newVerifyReport(path string, summary *model.VerificationSummary) verifyReport {
	report := verifyReport{
		ConfigFile: path,
		Summary: verifySummaryReport{
			TotalTasks: summary.TotalTasks,
			Satisfied:  summary.Satisfied,
			Drifted:    summary.Drifted,
			Blocked:    summary.Blocked,
			Duration:   summary.Duration.Seconds(),
		},
		Results: make([]verifyResultReport, len(summary.Results)),
	}

	for i, result := range summary.Results {
		r := verifyResultReport{
			TaskID:    result.TaskID,
			Status:    string(result.Status),
			Message:   result.Message,
			Pending:   result.Pending,
			Observed:  result.Observed,
			Details:   result.Details,
			Duration:  result.Duration.Seconds(),
			Timestamp: result.Timestamp.Format(time.RFC3339),
		}
		if result.Error != nil {
			r.Error = result.Error.Error()
		}
		report.Results[i] = r
	}

	return report
}

func printVerifyTable(w io.Writer, summary *model.VerificationSummary, verbose bool) {
	fmt.Fprintln(w, "\nVerification Results:")
	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "%-30s %-12s %-8s %s\n", "Task ID", "Status", "Duration", "Message")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, result := range summary.Results {
		message := result.Message
		if !verbose {
			message = truncateString(message, 50)
		}
		fmt.Fprintf(w, "%-30s %-12s %-8s %s\n",
			truncateString(result.TaskID, 30),
			fmt.Sprintf("%s %s", statusSymbol(result.Status), result.Status),
			fmt.Sprintf("%.2fs", result.Duration.Seconds()),
			message,
		)
	}

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintf(w, "\nSummary:\n")
	fmt.Fprintf(w, "  Total:     %d\n", summary.TotalTasks)
	fmt.Fprintf(w, "  ✔ Satisfied: %d\n", summary.Satisfied)
	fmt.Fprintf(w, "  ⚠ Drifted:   %d\n", summary.Drifted)
	fmt.Fprintf(w, "  🚫 Blocked:  %d\n", summary.Blocked)
	fmt.Fprintf(w, "  Duration:  %s\n", summary.Duration.String())

	if verbose {
		printVerifyDetails(w, summary)
	}

	if summary.AllSatisfied() {
		fmt.Fprintln(w, "\n✅ All tasks satisfied - no changes needed")
	} else {
		fmt.Fprintln(w, "\n❌ Changes needed - run 'gfctl apply' to fix")
	}
}

// printVerifyDetails prints the drift diff or the blocking error of every
// task that is not satisfied.
func printVerifyDetails(w io.Writer, summary *model.VerificationSummary) {
	header := false
	for _, result := range summary.Results {
		var body string
		switch {
		case result.Status == model.StatusDrifted && result.Details != "":
			body = result.Details
		case result.Status == model.StatusBlocked && result.Error != nil:
			body = fmt.Sprintf("Error: %v\n", result.Error)
		default:
			continue
		}
		if !header {
			fmt.Fprintln(w, "\nDetails:")
			fmt.Fprintln(w, strings.Repeat("=", 80))
			header = true
		}
		fmt.Fprintf(w, "\n--- Task: %s ---\n", result.TaskID)
		fmt.Fprint(w, body)
	}
}

func statusSymbol(status model.VerificationStatus) string {
	switch status {
	case model.StatusSatisfied:
		return "✔"
	case model.StatusDrifted:
		return "⚠"
	case model.StatusBlocked:
		return "🚫"
	default:
		return "?"
	}
}
