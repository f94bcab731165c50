package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
	"github.com/alexisbeaulieu97/gfctl/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	title := m.title
	if strings.TrimSpace(title) == "" {
		title = "playbook"
	}
	if m.dryRun {
		title += " (check mode)"
	}
	sections = append(sections, titleStyle.Render("gfctl • "+title))

	sections = append(sections, sectionStyle.Render("Progress"), components.NewProgress(m.total).View(m.completed))

	entries := components.NewTaskList(m.order, m.labels, m.tasks).Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Tasks"), renderTaskEntries(entries))
	}

	counts := model.Summarize(m.Results())
	counts.Total = m.total
	summary := components.NewSummary(components.SummaryData{
		Counts:    counts,
		Completed: m.completed,
		Finished:  m.finished,
		Cancelled: m.cancelled,
		DryRun:    m.dryRun,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Recap"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderTaskEntries(entries []components.TaskEntry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		res := entry.Result
		line := fmt.Sprintf(" %s %s", StatusIcon(res.Status), entry.Label)
		if strings.TrimSpace(res.Message) != "" {
			line = fmt.Sprintf("%s: %s", line, res.Message)
		}
		if res.Attempts > 1 {
			line = fmt.Sprintf("%s [%d attempts]", line, res.Attempts)
		}
		if res.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, res.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// StatusIcon returns the glyph representing a task status.
func StatusIcon(status string) string {
	switch status {
	case model.StatusOK:
		return successStyle.Render("✓")
	case model.StatusChanged:
		return changedStyle.Render("●")
	case model.StatusRunning:
		return runningStyle.Render("⏳")
	case model.StatusFailed:
		return failureStyle.Render("✗")
	case model.StatusSkipped:
		return skippedStyle.Render("⊘")
	case model.StatusWouldChange:
		return changedStyle.Render("↻")
	default:
		return pendingStyle.Render("…")
	}
}
