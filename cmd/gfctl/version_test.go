package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})

	version = "1.2.3"
	commit = "abcdef1"
	date = "2026-10-18"

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "gfctl 1.2.3")
	require.Contains(t, out, "abcdef1")
	require.Contains(t, out, "2026-10-18")
}
