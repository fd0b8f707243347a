// SPDX-License-Identifier: Apache-2.0

package fsops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/masonworks/mason/internal/core/models"
)

// Mutator applies create/update/delete operations to project-relative
// paths, resolving them against one fixed root per run and ensuring parent
// directories exist before any write.
type Mutator struct {
	root    string
	backups *BackupManager

	// onBackup, when set, receives every captured backup record. The
	// record is a write-only audit trail; nothing in the mutator reads
	// it back.
	onBackup func(models.BackupRecord)
}

// NewMutator creates a mutator rooted at root, using backups for the
// backup-before-write discipline.
func NewMutator(root string, backups *BackupManager) *Mutator {
	return &Mutator{root: root, backups: backups}
}

// OnBackup registers a hook invoked for every captured backup record.
func (m *Mutator) OnBackup(fn func(models.BackupRecord)) {
	m.onBackup = fn
}

// Resolve maps a project-relative path to an absolute one.
func (m *Mutator) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.root, rel)
}

// Exists reports whether the project-relative path currently exists.
func (m *Mutator) Exists(rel string) bool {
	_, err := os.Stat(m.Resolve(rel))
	return err == nil
}

// Read returns the content of the project-relative path.
func (m *Mutator) Read(rel string) ([]byte, error) {
	data, err := os.ReadFile(m.Resolve(rel))
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", rel, err)
	}
	return data, nil
}

// WriteFile writes content to the project-relative path, creating parent
// directories as needed. With backup enabled, an existing target is copied
// aside first and a failed backup aborts the write; with backup disabled no
// copy is attempted at all.
func (m *Mutator) WriteFile(rel string, content []byte, backup bool) error {
	target := m.Resolve(rel)

	if backup {
		record, err := m.backups.Backup(target)
		if err != nil {
			return fmt.Errorf("error backing up %s: %w", rel, err)
		}
		if record != nil && m.onBackup != nil {
			m.onBackup(*record)
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("error creating directories for %s: %w", rel, err)
	}

	if err := os.WriteFile(target, content, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", rel, err)
	}

	return nil
}

// Delete removes the project-relative path, backing it up first when
// requested.
func (m *Mutator) Delete(rel string, backup bool) error {
	target := m.Resolve(rel)

	if backup {
		record, err := m.backups.Backup(target)
		if err != nil {
			return fmt.Errorf("error backing up %s: %w", rel, err)
		}
		if record != nil && m.onBackup != nil {
			m.onBackup(*record)
		}
	}

	if err := os.Remove(target); err != nil {
		return fmt.Errorf("error deleting %s: %w", rel, err)
	}

	return nil
}
