package model

import (
	"time"
)

const (
	// StatusPending indicates a task has not started yet.
	StatusPending = "pending"
	// StatusRunning indicates a task is actively reconciling.
	StatusRunning = "running"
	// StatusOK marks a task whose target already matched.
	StatusOK = "ok"
	// StatusChanged marks a task that issued at least one corrective command.
	StatusChanged = "changed"
	// StatusSkipped indicates the executor skipped the task.
	StatusSkipped = "skipped"
	// StatusFailed marks a failure during task execution.
	StatusFailed = "failed"
	// StatusWouldChange indicates check mode found drift.
	StatusWouldChange = "would_change"
)

// TaskResult captures the outcome of executing a single task.
type TaskResult struct {
	TaskID    string
	Type      string
	Status    string
	Changed   bool
	Message   string
	Attempts  int
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// Failed reports whether the task ended in error.
func (r TaskResult) Failed() bool {
	return r.Status == StatusFailed
}

// RunSummary counts task outcomes.
type RunSummary struct {
	Total       int
	OK          int
	Changed     int
	WouldChange int
	Skipped     int
	Failed      int
}

// Summarize tallies results by status.
func Summarize(results []TaskResult) RunSummary {
	s := RunSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusOK:
			s.OK++
		case StatusChanged:
			s.Changed++
		case StatusWouldChange:
			s.WouldChange++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

// AnyChanged reports whether any task changed, or would change in check mode.
func (s RunSummary) AnyChanged() bool {
	return s.Changed > 0 || s.WouldChange > 0
}
