// SPDX-License-Identifier: Apache-2.0

// Package migrate invokes the external schema-migration tool. The trigger
// is idempotent to call and the orchestrator calls it at most once per run.
package migrate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/masonworks/mason/internal/core/config"
)

// Trigger runs the migration procedure against the live data store.
type Trigger interface {
	Run(ctx context.Context) error
}

// CommandTrigger shells out to the configured migration command in the
// project directory.
type CommandTrigger struct {
	command    string
	args       []string
	workingDir string
	verbose    bool
}

// NewCommandTrigger creates a trigger from the migration config, rooted at
// workingDir.
func NewCommandTrigger(cfg config.MigrationConfig, workingDir string) *CommandTrigger {
	return &CommandTrigger{
		command:    cfg.Command,
		args:       cfg.Args,
		workingDir: workingDir,
	}
}

// WithVerbose enables command echo before execution.
func (t *CommandTrigger) WithVerbose(verbose bool) *CommandTrigger {
	t.verbose = verbose
	return t
}

// Run executes the migration command, wrapping its stderr into the error.
func (t *CommandTrigger) Run(ctx context.Context) error {
	if t.command == "" {
		return fmt.Errorf("no migration command configured")
	}

	if t.verbose {
		fmt.Printf("Running migration: %s %s\n", t.command, strings.Join(t.args, " "))
	}

	cmd := exec.CommandContext(ctx, t.command, t.args...)
	cmd.Dir = t.workingDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("migration command failed: %w: %s", err, msg)
		}
		return fmt.Errorf("migration command failed: %w", err)
	}

	return nil
}
