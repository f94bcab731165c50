package main

import (
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
	gferrors "github.com/alexisbeaulieu97/gfctl/pkg/errors"
)

// exitFailure is returned when a task failed to reach its desired state.
const exitFailure = 1

// exitError carries the process exit code. A nil err means the output was
// already written and nothing more needs printing.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}

// isConfigError reports whether err stems from a malformed playbook or
// invalid flags.
func isConfigError(err error) bool {
	var parseErr *gferrors.ParseError
	var validationErr *gferrors.ValidationError
	return errors.As(err, &parseErr) || errors.As(err, &validationErr)
}

// configFailure wraps a playbook or flag problem with the configuration exit code.
func configFailure(operation, context string, err error) error {
	return &exitError{
		code: model.ExitConfigError,
		err:  newCommandError(operation, context, err, "fix the reported field and run the command again"),
	}
}

// suggestionFor picks a hint matching the failure kind.
func suggestionFor(err error) string {
	var pre *gferrors.PreconditionError
	var timeout *gferrors.ReconciliationTimeout
	var external *gferrors.ExternalCommandError
	switch {
	case errors.As(err, &pre):
		return "check that the Glassfish home and the artifact path exist on this host"
	case errors.As(err, &timeout):
		return "raise --max-attempts or --retry-delay, or inspect the domain server.log"
	case errors.As(err, &external):
		return "run again with --verbose to see the asadmin output"
	default:
		return "run again with --verbose for details"
	}
}
