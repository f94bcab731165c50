package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func validatePlaybookPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("playbook file is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve playbook path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("playbook file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("playbook path %s is a directory", abs)
	}

	return nil
}
