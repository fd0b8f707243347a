// SPDX-License-Identifier: Apache-2.0

// Package agent wires the snapshot probe, the plan source, and the plan
// executor into one run. Run is the sole public entry point of the core:
// fatal pre-step failures short-circuit with a minimal result, step-level
// failures are accumulated, and no error escapes past the returned
// AgentResult.
package agent

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/masonworks/mason/internal/agent/executor"
	"github.com/masonworks/mason/internal/agent/migrate"
	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/agent/snapshot"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/fsops"
	"github.com/masonworks/mason/internal/core/logging"
	"github.com/masonworks/mason/internal/core/models"
)

// Agent orchestrates one run at a time against one project root.
type Agent struct {
	cfg        *config.Config
	workingDir string
	source     planner.PlanSource
	trigger    migrate.Trigger
	observer   executor.RunObserver
	audit      *logging.AuditLogger
}

// New creates an agent for the project at workingDir.
func New(cfg *config.Config, workingDir string, source planner.PlanSource, trigger migrate.Trigger) *Agent {
	return &Agent{
		cfg:        cfg,
		workingDir: workingDir,
		source:     source,
		trigger:    trigger,
		observer:   executor.NopObserver{},
	}
}

// WithObserver sets the progress observer for subsequent runs.
func (a *Agent) WithObserver(obs executor.RunObserver) *Agent {
	if obs != nil {
		a.observer = obs
	}
	return a
}

// WithAudit sets the audit logger for subsequent runs.
func (a *Agent) WithAudit(audit *logging.AuditLogger) *Agent {
	a.audit = audit
	return a
}

// Analyze builds a fresh context snapshot of the project.
func (a *Agent) Analyze() (*models.ContextSnapshot, error) {
	return snapshot.Build(a.workingDir, snapshot.Options{
		SchemasDir: a.cfg.SchemasDir,
		APIDir:     a.cfg.APIDir,
	})
}

// Plan asks the plan source for an execution plan, with or without a
// project snapshot.
func (a *Agent) Plan(ctx context.Context, query string, snap *models.ContextSnapshot) (*models.ExecutionPlan, error) {
	return a.source.GeneratePlan(ctx, query, snap)
}

// Run executes one agent request end to end.
func (a *Agent) Run(ctx context.Context, request models.AgentRequest, options models.ExecutionOptions) *models.AgentResult {
	options.SkipMigration = options.SkipMigration || request.SkipMigration
	if options.WorkingDir == "" {
		options.WorkingDir = a.workingDir
	}

	var snap *models.ContextSnapshot
	if !request.SkipAnalysis {
		var err error
		snap, err = a.Analyze()
		if err != nil {
			return fatalResult(fmt.Sprintf("project analysis failed: %v", err))
		}
	}

	plan, err := a.Plan(ctx, request.Query, snap)
	if err != nil {
		result := fatalResult(err.Error())
		result.Snapshot = snap
		return result
	}

	result := a.RunPlan(ctx, plan, options)
	result.Snapshot = snap
	return result
}

// RunPlan executes an already-validated plan against the project.
func (a *Agent) RunPlan(ctx context.Context, plan *models.ExecutionPlan, options models.ExecutionOptions) *models.AgentResult {
	if options.WorkingDir == "" {
		options.WorkingDir = a.workingDir
	}

	backups := fsops.NewBackupManager(filepath.Join(options.WorkingDir, a.cfg.BackupsDir))
	mutator := fsops.NewMutator(options.WorkingDir, backups)
	mutator.OnBackup(func(record models.BackupRecord) {
		a.audit.Event("backup", map[string]any{
			"source": record.SourcePath,
			"backup": record.BackupPath,
			"at_ms":  record.CapturedAt,
		})
	})

	stepExecutor := executor.NewStepExecutor(mutator, a.cfg.SchemasDir, a.cfg.APIDir, options)

	planExecutor := executor.NewPlanExecutor(stepExecutor, a.trigger, options,
		a.cfg.SchemasDir, a.cfg.APIDir, a.cfg.Migration.Condition).
		WithObserver(a.observer).
		WithAudit(a.audit).
		WithAnalyzer(a.Analyze)

	result := planExecutor.ExecutePlan(ctx, plan)
	a.observer.RunCompleted(result)
	return result
}

// fatalResult is the minimal result shape of a fatal pre-step failure.
func fatalResult(message string) *models.AgentResult {
	return &models.AgentResult{
		Success:      false,
		TouchedFiles: []string{},
		Errors:       []string{message},
	}
}
