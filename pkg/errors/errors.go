package errors

import (
	"fmt"
	"strings"
)

// ParseError represents a YAML parsing failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a runtime failure while executing a task.
type ExecutionError struct {
	TaskID string
	Err    error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(taskID string, err error) error {
	return &ExecutionError{TaskID: taskID, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.TaskID != "" {
		return fmt.Sprintf("execution error on task %s: %v", e.TaskID, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PreconditionError reports a prerequisite path that is missing. It is always
// raised before any external command runs.
type PreconditionError struct {
	Path    string
	Message string
	Err     error
}

// NewPreconditionError constructs a PreconditionError for path.
func NewPreconditionError(path, message string, err error) error {
	return &PreconditionError{Path: path, Message: message, Err: err}
}

func (e *PreconditionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("precondition failed: %s: %s", e.Message, e.Path)
	}
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *PreconditionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExternalCommandError reports a subprocess that could not be spawned, exited
// non-zero, or produced output that could not be interpreted.
type ExternalCommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Output   string
	Message  string
	Err      error
}

// NewExternalCommandError constructs an ExternalCommandError.
func NewExternalCommandError(command string, args []string, exitCode int, output string, err error) error {
	return &ExternalCommandError{
		Command:  command,
		Args:     append([]string(nil), args...),
		ExitCode: exitCode,
		Output:   output,
		Err:      err,
	}
}

// NewUnexpectedOutputError reports output that matched none of the expected patterns.
func NewUnexpectedOutputError(command string, args []string, output, message string) error {
	return &ExternalCommandError{
		Command: command,
		Args:    append([]string(nil), args...),
		Output:  output,
		Message: message,
	}
}

func (e *ExternalCommandError) Error() string {
	if e == nil {
		return ""
	}

	invocation := strings.TrimSpace(e.Command + " " + strings.Join(e.Args, " "))
	var b strings.Builder
	fmt.Fprintf(&b, "external command error: %s", invocation)
	switch {
	case e.Message != "":
		fmt.Fprintf(&b, ": %s", e.Message)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, "\n%s", out)
	}
	return b.String()
}

// Unwrap exposes the underlying error.
func (e *ExternalCommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReconciliationTimeout reports that a goal did not reach its desired
// condition within the attempt bound.
type ReconciliationTimeout struct {
	Goal         string
	Desired      string
	Attempts     int
	LastObserved string
}

// NewReconciliationTimeout constructs a ReconciliationTimeout.
func NewReconciliationTimeout(goal, desired string, attempts int, lastObserved string) error {
	return &ReconciliationTimeout{Goal: goal, Desired: desired, Attempts: attempts, LastObserved: lastObserved}
}

func (e *ReconciliationTimeout) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("reconciliation timeout: %s did not become %s after %d attempts (last observed: %s)",
		e.Goal, e.Desired, e.Attempts, e.LastObserved)
}
