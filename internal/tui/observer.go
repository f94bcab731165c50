package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/gfctl/internal/engine"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

// Observer forwards executor progress to send, usually (*tea.Program).Send.
func Observer(send func(tea.Msg)) engine.Observer {
	return engine.Observer{
		OnTaskStart: func(task engine.PlannedTask) {
			send(TaskStartMsg{ID: task.ID, Time: time.Now()})
		},
		OnTaskFinish: func(result model.TaskResult) {
			send(TaskCompleteMsg{Result: result})
		},
	}
}

// Apply feeds msg to m outside of a running program and returns the new state.
func Apply(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	if next, ok := updated.(Model); ok {
		return next
	}
	return m
}
