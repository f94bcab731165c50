package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/gfctl/internal/asadmin"
	"github.com/alexisbeaulieu97/gfctl/internal/asadmin/asadmintest"
	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
)

// fixture is a Glassfish home with an asadmin placeholder and a simulated server.
type fixture struct {
	home    string
	srv     *asadmintest.Server
	manager *Manager
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()

	home := t.TempDir()
	bin := filepath.Join(home, "bin", "asadmin")
	require.NoError(t, os.MkdirAll(filepath.Dir(bin), 0o755))
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))

	srv := asadmintest.NewServer()
	client := asadmin.NewClient(bin, asadmin.WithRunner(srv))
	rec := reconcile.New(reconcile.Options{
		MaxAttempts: maxAttempts,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	})
	return &fixture{home: home, srv: srv, manager: NewManager(client, rec, nil)}
}

func (f *fixture) withMissingBinary(t *testing.T) {
	t.Helper()
	require.NoError(t, os.Remove(filepath.Join(f.home, "bin", "asadmin")))
}

func (f *fixture) artifact(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.home, name)
	require.NoError(t, os.WriteFile(path, []byte("PK"), 0o644))
	return path
}

func (f *fixture) populateCache(t *testing.T, domain string) {
	t.Helper()
	for _, dir := range CacheDirs {
		path := filepath.Join(f.home, "domains", domain, dir, "entry")
		require.NoError(t, os.MkdirAll(path, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(path, "file"), []byte("x"), 0o644))
	}
}
