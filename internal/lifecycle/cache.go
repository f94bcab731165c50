package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/gfctl/internal/reconcile"
)

// CacheDirs are the domain subdirectories holding generated artefacts that a
// cache clear empties.
var CacheDirs = []string{"applications", "osgi-cache", "generated"}

// WorkspaceCleaner empties the cache directories of one domain.
type WorkspaceCleaner struct {
	// DomainDir is <home>/domains/<domain>.
	DomainDir string
}

// NewWorkspaceCleaner returns a cleaner for domain under home.
func NewWorkspaceCleaner(home, domain string) WorkspaceCleaner {
	return WorkspaceCleaner{DomainDir: filepath.Join(home, "domains", domain)}
}

// Query reports cleared when every cache directory is absent or empty.
func (w WorkspaceCleaner) Query(_ context.Context) (reconcile.ObservedState, error) {
	for _, name := range CacheDirs {
		dir := filepath.Join(w.DomainDir, name)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return reconcile.ObservedState{}, fmt.Errorf("inspect %s: %w", dir, err)
		}
		if len(entries) > 0 {
			return reconcile.ObservedState{
				Subject:   w.DomainDir,
				Condition: reconcile.ConditionDirty,
				Detail:    fmt.Sprintf("%s holds %d entries", dir, len(entries)),
			}, nil
		}
	}
	return reconcile.ObservedState{Subject: w.DomainDir, Condition: reconcile.ConditionCleared}, nil
}

// Clear removes every entry inside the cache directories. The directories
// themselves are kept; missing ones are skipped.
func (w WorkspaceCleaner) Clear(_ context.Context) error {
	for _, name := range CacheDirs {
		dir := filepath.Join(w.DomainDir, name)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("list %s: %w", dir, err)
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("remove %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}

// Goal returns the cache-clear goal.
func (w WorkspaceCleaner) Goal() reconcile.Goal {
	return reconcile.Goal{
		Name:    "cache cleared in " + w.DomainDir,
		Desired: reconcile.ConditionCleared,
		Query:   w.Query,
		Apply:   w.Clear,
	}
}
