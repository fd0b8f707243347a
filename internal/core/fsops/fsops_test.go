// SPDX-License-Identifier: Apache-2.0

package fsops_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonworks/mason/internal/core/fsops"
	"github.com/masonworks/mason/internal/core/models"
)

func TestBackupMissingSourceIsNoOp(t *testing.T) {
	tempDir := t.TempDir()
	manager := fsops.NewBackupManager(filepath.Join(tempDir, "backups"))

	record, err := manager.Backup(filepath.Join(tempDir, "does-not-exist.ts"))
	require.NoError(t, err)
	assert.Nil(t, record)

	// No backup directory should appear for a no-op.
	_, err = os.Stat(filepath.Join(tempDir, "backups"))
	assert.True(t, os.IsNotExist(err))
}

func TestBackupCapturesPreMutationContent(t *testing.T) {
	tempDir := t.TempDir()
	backupsDir := filepath.Join(tempDir, "backups")
	manager := fsops.NewBackupManager(backupsDir)

	source := filepath.Join(tempDir, "orders.ts")
	require.NoError(t, os.WriteFile(source, []byte("original"), 0644))

	record, err := manager.Backup(source)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, source, record.SourcePath)
	assert.Greater(t, record.CapturedAt, int64(0))

	content, err := os.ReadFile(record.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))
}

func TestBackupPathsAreDistinctForRepeatedBackups(t *testing.T) {
	tempDir := t.TempDir()
	manager := fsops.NewBackupManager(filepath.Join(tempDir, "backups"))

	source := filepath.Join(tempDir, "orders.ts")
	require.NoError(t, os.WriteFile(source, []byte("v1"), 0644))

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		record, err := manager.Backup(source)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.False(t, seen[record.BackupPath], "backup path %s reused", record.BackupPath)
		seen[record.BackupPath] = true
	}
}

func TestMutatorWriteBacksUpExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	manager := fsops.NewBackupManager(filepath.Join(tempDir, ".mason", "backups"))
	mutator := fsops.NewMutator(tempDir, manager)

	var records []models.BackupRecord
	mutator.OnBackup(func(r models.BackupRecord) {
		records = append(records, r)
	})

	require.NoError(t, os.MkdirAll(filepath.Join(tempDir, "schemas"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "schemas", "orders.ts"), []byte("before"), 0644))

	err := mutator.WriteFile("schemas/orders.ts", []byte("after"), true)
	require.NoError(t, err)

	require.Len(t, records, 1)
	backup, err := os.ReadFile(records[0].BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "before", string(backup))

	current, err := os.ReadFile(filepath.Join(tempDir, "schemas", "orders.ts"))
	require.NoError(t, err)
	assert.Equal(t, "after", string(current))
}

func TestMutatorWriteNewFileSkipsBackup(t *testing.T) {
	tempDir := t.TempDir()
	manager := fsops.NewBackupManager(filepath.Join(tempDir, ".mason", "backups"))
	mutator := fsops.NewMutator(tempDir, manager)

	var records []models.BackupRecord
	mutator.OnBackup(func(r models.BackupRecord) {
		records = append(records, r)
	})

	// Parent directories are created on demand.
	err := mutator.WriteFile("api/orders/route.ts", []byte("content"), true)
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.True(t, mutator.Exists("api/orders/route.ts"))
}

func TestMutatorWriteWithBackupDisabled(t *testing.T) {
	tempDir := t.TempDir()
	manager := fsops.NewBackupManager(filepath.Join(tempDir, "backups"))
	mutator := fsops.NewMutator(tempDir, manager)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.ts"), []byte("before"), 0644))

	var records []models.BackupRecord
	mutator.OnBackup(func(r models.BackupRecord) {
		records = append(records, r)
	})

	require.NoError(t, mutator.WriteFile("notes.ts", []byte("after"), false))
	assert.Empty(t, records)
}

func TestMutatorRead(t *testing.T) {
	tempDir := t.TempDir()
	mutator := fsops.NewMutator(tempDir, fsops.NewBackupManager(filepath.Join(tempDir, "backups")))

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "a.ts"), []byte("hello"), 0644))

	data, err := mutator.Read("a.ts")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = mutator.Read("missing.ts")
	assert.Error(t, err)
}

func TestMutatorDeleteWithBackup(t *testing.T) {
	tempDir := t.TempDir()
	manager := fsops.NewBackupManager(filepath.Join(tempDir, "backups"))
	mutator := fsops.NewMutator(tempDir, manager)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "old.ts"), []byte("bye"), 0644))

	var records []models.BackupRecord
	mutator.OnBackup(func(r models.BackupRecord) {
		records = append(records, r)
	})

	require.NoError(t, mutator.Delete("old.ts", true))
	assert.False(t, mutator.Exists("old.ts"))
	require.Len(t, records, 1)

	backup, err := os.ReadFile(records[0].BackupPath)
	require.NoError(t, err)
	assert.Equal(t, "bye", string(backup))
}
