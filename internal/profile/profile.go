// Package profile performs the idempotent shell-profile mutation: append a
// fixed initialization block to a startup file if and only if a marker
// substring is absent. The marker therefore appears at most once no matter
// how many times provisioning runs.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureBlock makes sure block is present in the file at path, keyed on
// marker. If the file does not exist it is created with the block as its
// content; if it exists without the marker the block is appended; if the
// marker is already there the file is left untouched. Returns whether the
// block was added.
func EnsureBlock(path, marker, block string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if strings.Contains(string(existing), marker) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create profile directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, fmt.Errorf("failed to open profile %s for appending: %w", path, err)
	}
	defer f.Close()

	// Keep the appended block on its own lines even when the existing file
	// does not end with a newline.
	content := block
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		content = "\n" + content
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	if _, err := f.WriteString(content); err != nil {
		return false, fmt.Errorf("failed to append to profile %s: %w", path, err)
	}
	return true, nil
}
