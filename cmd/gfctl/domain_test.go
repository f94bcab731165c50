package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

func TestDomainCommandStartsStoppedDomain(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = false
	home := glassfishHome(t)

	out, err := executeCommand(t, "domain", "domain1", "--home", home, "--retry-delay", "1ms")
	require.NoError(t, err)
	require.Contains(t, out, "changed: [domain]")
	require.True(t, srv.Domains["domain1"])
	require.Equal(t, 1, srv.Count("start-domain"))
}

func TestDomainCommandIsIdempotent(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = true
	home := glassfishHome(t)

	out, err := executeCommand(t, "domain", "domain1", "--home", home)
	require.NoError(t, err)
	require.Contains(t, out, "ok: [domain]")
	require.Equal(t, []string{"list-domains"}, srv.Subcommands())
}

func TestDomainCommandJSONOutput(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = true
	home := glassfishHome(t)

	out, err := executeCommand(t, "domain", "domain1", "--state", "stopped", "--home", home, "--retry-delay", "1ms", "--json")
	require.NoError(t, err)

	var report runReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.True(t, report.Changed)
	require.False(t, report.Failed)
	require.NotEmpty(t, report.Msg)
	require.Len(t, report.Results, 1)
	require.Equal(t, model.StatusChanged, report.Results[0].Status)
	require.False(t, srv.Domains["domain1"])
}

func TestDomainCommandRestartClearsCache(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = true
	home := glassfishHome(t)
	generated := filepath.Join(home, "domains", "domain1", "generated")
	require.NoError(t, os.MkdirAll(filepath.Join(generated, "jsp"), 0o755))

	_, err := executeCommand(t, "domain", "domain1", "--state", "restarted", "--clear-cache", "--home", home, "--retry-delay", "1ms")
	require.NoError(t, err)

	entries, err := os.ReadDir(generated)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.True(t, srv.Domains["domain1"])
	require.Equal(t, 1, srv.Count("stop-domain"))
	require.Equal(t, 1, srv.Count("start-domain"))
}

func TestDomainCommandDryRunIssuesNoAction(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = false
	home := glassfishHome(t)

	out, err := executeCommand(t, "domain", "domain1", "--home", home, "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, model.StatusWouldChange)
	require.Zero(t, srv.Count("start-domain"))
	require.False(t, srv.Domains["domain1"])
}

func TestDomainCommandGivesUpAfterMaxAttempts(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = false
	srv.Lag["start-domain"] = -1
	home := glassfishHome(t)

	out, err := executeCommand(t, "domain", "domain1", "--home", home, "--retry-delay", "1ms", "--max-attempts", "2")
	exit := requireExitCode(t, err, exitFailure)
	require.Contains(t, exit.Error(), "raise --max-attempts")
	require.Contains(t, out, "failed: [domain] gave up after 2 attempts")
	require.Equal(t, 2, srv.Count("start-domain"))
}

func TestDomainCommandMissingBinaryRunsNothing(t *testing.T) {
	srv := useServer(t)

	_, err := executeCommand(t, "domain", "domain1", "--home", t.TempDir())
	exit := requireExitCode(t, err, exitFailure)
	require.Contains(t, exit.Error(), "asadmin binary does not exist")
	require.Empty(t, srv.Calls())
}

func TestDomainCommandRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown state", []string{"domain", "domain1", "--state", "paused"}},
		{"invalid domain name", []string{"domain", "../etc"}},
		{"unknown backoff", []string{"domain", "domain1", "--backoff", "random"}},
		{"zero attempts", []string{"domain", "domain1", "--max-attempts", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := useServer(t)
			_, err := executeCommand(t, append(tt.args, "--home", glassfishHome(t))...)
			requireExitCode(t, err, model.ExitConfigError)
			require.Empty(t, srv.Calls())
		})
	}
}

func TestDomainCommandWritesMetrics(t *testing.T) {
	srv := useServer(t)
	srv.Domains["domain1"] = false
	home := glassfishHome(t)
	metricsPath := filepath.Join(t.TempDir(), "gfctl.prom")

	_, err := executeCommand(t, "domain", "domain1", "--home", home, "--retry-delay", "1ms", "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "gfctl_tasks_total")
	require.Contains(t, string(data), "gfctl_reconcile_attempts_total")
}
