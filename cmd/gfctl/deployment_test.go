package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/asadmin/asadmintest"
	"github.com/alexisbeaulieu97/gfctl/internal/model"
)

func TestDeploymentCommandDeploysArtifact(t *testing.T) {
	srv := useServer(t)
	home := glassfishHome(t)
	artifact := writeFile(t, t.TempDir(), "hello.war", "war")

	out, err := executeCommand(t, "deployment", "hello", "--path", artifact, "--home", home, "--retry-delay", "1ms")
	require.NoError(t, err)
	require.Contains(t, out, "changed: [deployment]")
	require.Contains(t, srv.Apps, "hello")
	require.True(t, srv.Apps["hello"].Enabled)
	require.Equal(t, artifact, srv.Apps["hello"].Path)
}

func TestDeploymentCommandPassesPortToRemoteCommands(t *testing.T) {
	srv := asadmintest.NewServer()
	srv.Apps["hello"] = &asadmintest.App{Enabled: true}
	home := glassfishHome(t)

	var seen [][]string
	original := newRunner
	newRunner = func(io.Writer) asadmin.Runner { return recordingRunner{srv: srv, seen: &seen} }
	t.Cleanup(func() { newRunner = original })

	_, err := executeCommand(t, "deployment", "hello", "--state", "enabled", "-p", "4949", "--home", home)
	require.NoError(t, err)
	require.NotEmpty(t, seen)
	for _, args := range seen {
		require.Contains(t, args, "4949")
	}
}

func TestDeploymentCommandRemovesApplication(t *testing.T) {
	srv := useServer(t)
	srv.Apps["hello"] = &asadmintest.App{Enabled: true}
	home := glassfishHome(t)

	out, err := executeCommand(t, "deployment", "hello", "--state", "absent", "--home", home, "--retry-delay", "1ms")
	require.NoError(t, err)
	require.Contains(t, out, "changed: [deployment]")
	require.NotContains(t, srv.Apps, "hello")
}

func TestDeploymentCommandDisablesApplication(t *testing.T) {
	srv := useServer(t)
	srv.Apps["hello"] = &asadmintest.App{Enabled: true}
	home := glassfishHome(t)

	_, err := executeCommand(t, "deployment", "hello", "--state", "disabled", "--home", home, "--retry-delay", "1ms")
	require.NoError(t, err)
	require.False(t, srv.Apps["hello"].Enabled)
	require.Zero(t, srv.Count("deploy"))
}

func TestDeploymentCommandSetsDefaultContext(t *testing.T) {
	srv := useServer(t)
	srv.Properties[asadmin.DefaultWebModuleKey("server")] = ""
	home := glassfishHome(t)
	artifact := writeFile(t, t.TempDir(), "hello.war", "war")

	_, err := executeCommand(t, "deployment", "hello", "--path", artifact, "--context", "hello", "--home", home, "--retry-delay", "1ms")
	require.NoError(t, err)
	require.Equal(t, "hello", srv.Properties[asadmin.DefaultWebModuleKey("server")])
}

func TestDeploymentCommandMissingArtifactFailsFast(t *testing.T) {
	srv := useServer(t)
	home := glassfishHome(t)

	_, err := executeCommand(t, "deployment", "hello", "--path", "/does/not/exist.war", "--home", home)
	exit := requireExitCode(t, err, exitFailure)
	require.Contains(t, exit.Error(), "artifact")
	require.Contains(t, exit.Error(), "Glassfish home and the artifact path")
	require.Empty(t, srv.Calls())
}

func TestDeploymentCommandRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"present without path", []string{"deployment", "hello"}},
		{"unknown state", []string{"deployment", "hello", "--state", "paused"}},
		{"invalid port", []string{"deployment", "hello", "--state", "absent", "--port", "http"}},
		{"name with spaces", []string{"deployment", "hello world", "--state", "absent"}},
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

type recordingRunner struct {
	srv  *asadmintest.Server
	seen *[][]string
}

func (r recordingRunner) Run(ctx context.Context, binary string, args ...string) (asadmin.Output, error) {
	*r.seen = append(*r.seen, args)
	return r.srv.Run(ctx, binary, args...)
}
