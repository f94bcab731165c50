package components

import (
	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

// TaskEntry is one row of the task list.
type TaskEntry struct {
	ID     string
	Label  string
	Result model.TaskResult
}

// TaskList holds the playbook tasks in execution order.
type TaskList struct {
	entries []TaskEntry
}

// NewTaskList builds the list from the execution order, the row labels and
// the latest result of every task.
func NewTaskList(order []string, labels map[string]string, results map[string]model.TaskResult) TaskList {
	entries := make([]TaskEntry, 0, len(order))
	for _, id := range order {
		label := labels[id]
		if label == "" {
			label = id
		}
		entries = append(entries, TaskEntry{ID: id, Label: label, Result: results[id]})
	}
	return TaskList{entries: entries}
}

// Entries returns a copy of the ordered entries.
func (l TaskList) Entries() []TaskEntry {
	clone := make([]TaskEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
