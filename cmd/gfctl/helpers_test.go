package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/asadmin/asadmintest"
)

// useServer routes every asadmin invocation to a simulated installation for
// the duration of the test.
func useServer(t *testing.T) *asadmintest.Server {
	t.Helper()

	srv := asadmintest.NewServer()
	original := newRunner
	newRunner = func(io.Writer) asadmin.Runner { return srv }
	t.Cleanup(func() { newRunner = original })
	return srv
}

// glassfishHome creates a home directory holding an asadmin file.
func glassfishHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "bin", "asadmin"), []byte("#!/bin/sh\n"), 0o755))
	return home
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCommand runs the root command with args and returns stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *exitError {
	t.Helper()

	require.Error(t, err)
	var exit *exitError
	require.ErrorAs(t, err, &exit)
	require.Equal(t, code, exit.code)
	return exit
}
