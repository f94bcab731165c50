package model

import (
	"time"
)

// VerificationStatus is the read-only assessment of one task.
type VerificationStatus string

const (
	// StatusSatisfied means the target already matches.
	StatusSatisfied VerificationStatus = "satisfied"
	// StatusDrifted means applying the task would issue commands.
	StatusDrifted VerificationStatus = "drifted"
	// StatusBlocked means a precondition prevents the task from running.
	StatusBlocked VerificationStatus = "blocked"
)

// IsValid reports whether s is a known status.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case StatusSatisfied, StatusDrifted, StatusBlocked:
		return true
	}
	return false
}

// Exit codes reported by verify.
const (
	ExitSatisfied    = 0
	ExitDrift        = 1
	ExitConfigError  = 2
	ExitRuntimeError = 3
)

// VerificationResult is the assessment of a single task.
type VerificationResult struct {
	TaskID  string
	Status  VerificationStatus
	Message string
	// Pending names the first goal that does not hold.
	Pending string
	// Observed is the state that was found for Pending.
	Observed string
	// Details is a diff of the desired against the observed state.
	Details   string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// VerificationSummary aggregates verification results.
type VerificationSummary struct {
	TotalTasks int
	Satisfied  int
	Drifted    int
	Blocked    int
	Duration   time.Duration
	Results    []*VerificationResult
}

// Add appends a result and updates the counters.
func (s *VerificationSummary) Add(result *VerificationResult) {
	s.Results = append(s.Results, result)
	switch result.Status {
	case StatusSatisfied:
		s.Satisfied++
	case StatusDrifted:
		s.Drifted++
	case StatusBlocked:
		s.Blocked++
	}
}

// AllSatisfied reports whether every verified task is satisfied.
func (s *VerificationSummary) AllSatisfied() bool {
	return s.Satisfied == s.TotalTasks
}

// NeedsApply reports whether an apply would have work to do.
func (s *VerificationSummary) NeedsApply() bool {
	return !s.AllSatisfied()
}

// ExitCode maps the summary onto the verify exit codes.
func (s *VerificationSummary) ExitCode() int {
	if s.AllSatisfied() {
		return ExitSatisfied
	}
	return ExitDrift
}
