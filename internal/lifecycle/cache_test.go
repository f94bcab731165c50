package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
)

func TestWorkspaceCleaner(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cleaner := NewWorkspaceCleaner(home, "domain1")
	require.Equal(t, filepath.Join(home, "domains", "domain1"), cleaner.DomainDir)

	state, err := cleaner.Query(context.Background())
	require.NoError(t, err)
	require.Equal(t, reconcile.ConditionCleared, state.Condition)

	generated := filepath.Join(cleaner.DomainDir, "generated", "jsp", "hello")
	require.NoError(t, os.MkdirAll(generated, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(generated, "index_jsp.class"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(cleaner.DomainDir, "osgi-cache"), 0o755))

	state, err = cleaner.Query(context.Background())
	require.NoError(t, err)
	require.Equal(t, reconcile.ConditionDirty, state.Condition)
	require.Contains(t, state.Detail, "generated")

	require.NoError(t, cleaner.Clear(context.Background()))

	entries, err := os.ReadDir(filepath.Join(cleaner.DomainDir, "generated"))
	require.NoError(t, err)
	require.Empty(t, entries)
	require.DirExists(t, filepath.Join(cleaner.DomainDir, "osgi-cache"))

	state, err = cleaner.Query(context.Background())
	require.NoError(t, err)
	require.Equal(t, reconcile.ConditionCleared, state.Condition)
}

func TestWorkspaceCleanerGoal(t *testing.T) {
	t.Parallel()

	cleaner := NewWorkspaceCleaner(t.TempDir(), "domain1")
	goal := cleaner.Goal()
	require.Equal(t, reconcile.ConditionCleared, goal.Desired)
	require.NotNil(t, goal.Query)
	require.NotNil(t, goal.Apply)
}
