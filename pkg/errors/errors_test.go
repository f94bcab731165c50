package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("playbook.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "playbook.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "playbook.yaml:12")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("tasks[1].path", "path is required for state present", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "tasks[1].path", validationErr.Field)
	require.Contains(t, err.Error(), "validation error: tasks[1].path")
}

func TestExecutionErrorIncludesTaskContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("command failed")
	err := NewExecutionError("start_domain", underlying)

	var executionErr *ExecutionError
	require.ErrorAs(t, err, &executionErr)
	require.Equal(t, "start_domain", executionErr.TaskID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestPreconditionErrorNamesPath(t *testing.T) {
	t.Parallel()

	err := NewPreconditionError("/opt/glassfish/bin/asadmin", "asadmin binary does not exist", nil)

	var precondErr *PreconditionError
	require.ErrorAs(t, err, &precondErr)
	require.Equal(t, "/opt/glassfish/bin/asadmin", precondErr.Path)
	require.Contains(t, err.Error(), "asadmin binary does not exist")
}

func TestExternalCommandErrorRendersInvocation(t *testing.T) {
	t.Parallel()

	t.Run("wraps exit failure", func(t *testing.T) {
		t.Parallel()
		underlying := stdErrors.New("exit status 1")
		err := NewExternalCommandError("asadmin", []string{"start-domain", "domain1"}, 1, "CLI130 port in use", underlying)

		var cmdErr *ExternalCommandError
		require.ErrorAs(t, err, &cmdErr)
		require.Equal(t, 1, cmdErr.ExitCode)
		require.True(t, stdErrors.Is(err, underlying))
		require.Contains(t, err.Error(), "asadmin start-domain domain1")
		require.Contains(t, err.Error(), "CLI130 port in use")
	})

	t.Run("describes unexpected output", func(t *testing.T) {
		t.Parallel()
		err := NewUnexpectedOutputError("asadmin", []string{"list-domains"}, "garbage", "domain1 not listed")
		require.Contains(t, err.Error(), "domain1 not listed")
		require.Nil(t, stdErrors.Unwrap(err))
	})
}

func TestReconciliationTimeoutReportsLastObserved(t *testing.T) {
	t.Parallel()

	err := NewReconciliationTimeout("domain domain1", "running", 5, "stopped")

	var timeoutErr *ReconciliationTimeout
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 5, timeoutErr.Attempts)
	require.Equal(t, "stopped", timeoutErr.LastObserved)
	require.Contains(t, err.Error(), "after 5 attempts")
}
