package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// Progress renders how many tasks of a playbook have finished.
type Progress struct {
	bar   progress.Model
	total int
}

// NewProgress creates a progress bar for total tasks.
func NewProgress(total int) Progress {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 32
	return Progress{bar: bar, total: total}
}

// Ratio returns the completed fraction, clamped to [0, 1].
func (p Progress) Ratio(completed int) float64 {
	if p.total <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, float64(completed)/float64(p.total)))
}

// View renders the bar followed by "done/total tasks".
func (p Progress) View(completed int) string {
	label := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%d/%d tasks", completed, p.total))
	return lipgloss.JoinHorizontal(lipgloss.Left, p.bar.ViewAs(p.Ratio(completed)), " ", label)
}
