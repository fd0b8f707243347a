// SPDX-License-Identifier: Apache-2.0

// Package index maintains the aggregate schema index file: a barrel module
// that must reference every generated schema unit exactly once.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReferenceLine is the canonical index line for a schema unit.
func ReferenceLine(unitName string) string {
	return fmt.Sprintf("export * from \"./%s\";", unitName)
}

// EnsureReferenced makes sure the index file contains the canonical
// reference line for unitName exactly once, preserving all existing lines
// and their order. A missing index file is treated as an empty index.
// Calling this N times with the same unit yields byte-identical content to
// calling it once. The returned bool reports whether the file changed.
func EnsureReferenced(indexPath, unitName string) (bool, error) {
	content, err := os.ReadFile(indexPath)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("error reading index file: %w", err)
	}

	line := ReferenceLine(unitName)
	for _, existing := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(existing) == line {
			return false, nil
		}
	}

	updated := string(content)
	if updated != "" && !strings.HasSuffix(updated, "\n") {
		updated += "\n"
	}
	updated += line + "\n"

	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return false, fmt.Errorf("error creating index directory: %w", err)
	}

	if err := os.WriteFile(indexPath, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("error writing index file: %w", err)
	}

	return true, nil
}
