package components

import (
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

// SummaryData aggregates what the recap renders.
type SummaryData struct {
	Counts    model.RunSummary
	Completed int
	Finished  bool
	Cancelled bool
	DryRun    bool
}

// Summary renders the end-of-run recap.
type Summary struct {
	data SummaryData
}

// NewSummary creates a Summary.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the recap. Nothing is rendered until the run finished or was
// cancelled.
func (s Summary) View() string {
	c := s.data.Counts
	if c.Total == 0 || !(s.data.Finished || s.data.Cancelled) {
		return ""
	}

	var lines []string
	recap := fmt.Sprintf("ok=%d changed=%d failed=%d skipped=%d", c.OK, c.Changed, c.Failed, c.Skipped)
	if s.data.DryRun {
		recap = fmt.Sprintf("ok=%d would_change=%d failed=%d skipped=%d", c.OK, c.WouldChange, c.Failed, c.Skipped)
	}
	lines = append(lines, recap)

	switch {
	case s.data.Cancelled:
		lines = append(lines, "Run cancelled")
	case c.Failed > 0:
		lines = append(lines, "Run finished with failures")
	case s.data.Completed < c.Total:
		lines = append(lines, fmt.Sprintf("Run stopped after %d of %d tasks", s.data.Completed, c.Total))
	case s.data.DryRun && c.WouldChange > 0:
		lines = append(lines, "Check mode: changes pending")
	case c.Changed > 0:
		lines = append(lines, "Run finished with changes")
	default:
		lines = append(lines, "Everything already in the desired state")
	}

	return strings.Join(lines, "\n")
}
