// SPDX-License-Identifier: Apache-2.0

// Package fsops implements the backup-before-write discipline for file
// mutation. Every write to an already-existing file captures a timestamped
// copy first; brand-new files need no backup.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/masonworks/mason/internal/core/models"
)

// BackupManager captures pre-mutation copies of files into a backup
// directory. Backup paths combine a millisecond timestamp with the original
// base name; collisions within the same millisecond get a counter infix so
// two backups of one path are always distinct.
type BackupManager struct {
	backupDir string
}

// NewBackupManager creates a backup manager rooted at backupDir. The
// directory is created lazily on first backup.
func NewBackupManager(backupDir string) *BackupManager {
	return &BackupManager{backupDir: backupDir}
}

// Backup captures a copy of path if it currently exists. A missing source
// returns (nil, nil): new-file creation needs no backup.
func (m *BackupManager) Backup(path string) (*models.BackupRecord, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading file for backup: %w", err)
	}

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating backup directory: %w", err)
	}

	now := time.Now().UnixMilli()
	base := filepath.Base(path)

	backupPath := filepath.Join(m.backupDir, fmt.Sprintf("%d-%s", now, base))
	for n := 1; ; n++ {
		if _, err := os.Stat(backupPath); os.IsNotExist(err) {
			break
		}
		backupPath = filepath.Join(m.backupDir, fmt.Sprintf("%d-%d-%s", now, n, base))
	}

	if err := os.WriteFile(backupPath, content, 0644); err != nil {
		return nil, fmt.Errorf("error writing backup file: %w", err)
	}

	return &models.BackupRecord{
		SourcePath: path,
		BackupPath: backupPath,
		CapturedAt: now,
	}, nil
}
