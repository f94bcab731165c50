// Package tui renders playbook progress with Bubbletea.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gfctl/internal/engine"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

// TaskStartMsg indicates a task has started reconciling.
type TaskStartMsg struct {
	ID   string
	Time time.Time
}

// TaskCompleteMsg reports that a task finished.
type TaskCompleteMsg struct {
	Result model.TaskResult
}

// DoneMsg reports that the executor returned.
type DoneMsg struct {
	Err error
}

type tickMsg struct{}

// Model contains the Bubbletea state of the apply TUI.
type Model struct {
	title     string
	dryRun    bool
	tasks     map[string]model.TaskResult
	labels    map[string]string
	order     []string
	total     int
	completed int
	finished  bool
	cancelled bool
	err       error
}

// NewModel constructs the model for a playbook title and its plan.
func NewModel(title string, plan *engine.ExecutionPlan, dryRun bool) Model {
	m := Model{
		title:  title,
		dryRun: dryRun,
		tasks:  make(map[string]model.TaskResult),
		labels: make(map[string]string),
		order:  make([]string, 0),
	}

	if plan != nil {
		for _, task := range plan.Tasks {
			m.ensureTask(task.ID)
			m.labels[task.ID] = task.Name
		}
	}

	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// TotalTasks returns the number of tasks tracked.
func (m Model) TotalTasks() int {
	return m.total
}

// CompletedTasks returns the number of finished tasks.
func (m Model) CompletedTasks() int {
	return m.completed
}

// IsFinished reports whether the run has ended.
func (m Model) IsFinished() bool {
	return m.finished
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Results returns the latest result of every task in plan order.
func (m Model) Results() []model.TaskResult {
	out := make([]model.TaskResult, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.tasks[id])
	}
	return out
}

func (m *Model) ensureTask(id string) {
	if id == "" {
		return
	}
	if _, exists := m.tasks[id]; !exists {
		m.tasks[id] = model.TaskResult{TaskID: id, Status: model.StatusPending}
		m.order = append(m.order, id)
		m.total++
	}
}

func isTerminal(status string) bool {
	switch status {
	case model.StatusOK, model.StatusChanged, model.StatusSkipped, model.StatusFailed, model.StatusWouldChange:
		return true
	}
	return false
}
