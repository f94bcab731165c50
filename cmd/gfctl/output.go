package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

// taskReport is the machine readable result of one task.
type taskReport struct {
	ID       string  `json:"id"`
	Type     string  `json:"type,omitempty"`
	Status   string  `json:"status"`
	Changed  bool    `json:"changed"`
	Failed   bool    `json:"failed,omitempty"`
	Msg      string  `json:"msg"`
	Attempts int     `json:"attempts,omitempty"`
	Duration float64 `json:"duration_seconds"`
}

// runReport follows the Ansible module result shape: changed and msg at the
// top level, failed when anything went wrong.
type runReport struct {
	Changed bool         `json:"changed"`
	Failed  bool         `json:"failed,omitempty"`
	Msg     string       `json:"msg"`
	Results []taskReport `json:"results"`
}

func newRunReport(results []model.TaskResult, runErr error) runReport {
	report := runReport{
		Changed: model.Summarize(results).AnyChanged(),
		Results: make([]taskReport, 0, len(results)),
	}

	for _, res := range results {
		report.Results = append(report.Results, taskReport{
			ID:       res.TaskID,
			Type:     res.Type,
			Status:   res.Status,
			Changed:  res.Changed,
			Failed:   res.Failed(),
			Msg:      res.Message,
			Attempts: res.Attempts,
			Duration: res.Duration.Seconds(),
		})
	}

	switch {
	case runErr != nil:
		report.Failed = true
		report.Msg = runErr.Error()
	case len(results) == 1:
		report.Msg = results[0].Message
	default:
		s := model.Summarize(results)
		report.Msg = fmt.Sprintf("ok=%d changed=%d would_change=%d failed=%d skipped=%d", s.OK, s.Changed, s.WouldChange, s.Failed, s.Skipped)
	}

	return report
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeResultLines prints one "status: message" line per task.
func writeResultLines(w io.Writer, results []model.TaskResult) {
	for _, res := range results {
		msg := res.Message
		if res.Attempts > 1 {
			msg = fmt.Sprintf("%s (%d attempts)", msg, res.Attempts)
		}
		fmt.Fprintf(w, "%s: [%s] %s\n", res.Status, res.TaskID, msg)
	}
}

func truncateString(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
