package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case TaskStartMsg:
		m.ensureTask(msg.ID)
		task := m.tasks[msg.ID]
		task.Status = model.StatusRunning
		m.tasks[msg.ID] = task
		return m, nil
	case TaskCompleteMsg:
		id := msg.Result.TaskID
		if id == "" {
			return m, nil
		}
		m.ensureTask(id)
		if !isTerminal(m.tasks[id].Status) {
			m.completed++
		}
		m.tasks[id] = msg.Result
		return m, nil
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
