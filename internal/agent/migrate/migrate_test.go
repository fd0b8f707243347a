// SPDX-License-Identifier: Apache-2.0

package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonworks/mason/internal/agent/migrate"
	"github.com/masonworks/mason/internal/core/config"
)

func TestCommandTriggerRunsInWorkingDir(t *testing.T) {
	workDir := t.TempDir()

	trigger := migrate.NewCommandTrigger(config.MigrationConfig{
		Command: "sh",
		Args:    []string{"-c", "pwd > ran.txt"},
	}, workDir)

	require.NoError(t, trigger.Run(context.Background()))

	out, err := os.ReadFile(filepath.Join(workDir, "ran.txt"))
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCommandTriggerSurfacesStderr(t *testing.T) {
	trigger := migrate.NewCommandTrigger(config.MigrationConfig{
		Command: "sh",
		Args:    []string{"-c", "echo 'relation already exists' >&2; exit 1"},
	}, t.TempDir())

	err := trigger.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration command failed")
	assert.Contains(t, err.Error(), "relation already exists")
}

func TestCommandTriggerEmptyCommand(t *testing.T) {
	trigger := migrate.NewCommandTrigger(config.MigrationConfig{}, t.TempDir())

	err := trigger.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no migration command configured")
}

func TestCommandTriggerRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trigger := migrate.NewCommandTrigger(config.MigrationConfig{
		Command: "sh",
		Args:    []string{"-c", "sleep 5"},
	}, t.TempDir())

	assert.Error(t, trigger.Run(ctx))
}
