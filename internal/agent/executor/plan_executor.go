// SPDX-License-Identifier: Apache-2.0

// Package executor runs execution plans: a heterogeneous sequence of
// mutating steps with best-effort continuation on failure, deterministic
// path derivation per step kind, and a migration follow-up gated by an
// aggregate condition across the whole run.
package executor

import (
	"context"
	"fmt"

	"github.com/masonworks/mason/internal/agent/condition"
	"github.com/masonworks/mason/internal/agent/migrate"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/logging"
	"github.com/masonworks/mason/internal/core/models"
)

// PlanExecutor executes an execution plan step by step. One executor
// instance serves one run.
type PlanExecutor struct {
	stepExecutor *StepExecutor
	trigger      migrate.Trigger
	observer     RunObserver
	audit        *logging.AuditLogger
	options      models.ExecutionOptions

	schemasDir         string
	apiDir             string
	migrationCondition string

	// at-most-once migration guard, shared between run_migration steps and
	// the end-of-run follow-up.
	migrationDone bool
	migrationOK   bool
}

// NewPlanExecutor creates a plan executor. The observer may be nil.
func NewPlanExecutor(stepExecutor *StepExecutor, trigger migrate.Trigger, options models.ExecutionOptions,
	schemasDir, apiDir, migrationCondition string) *PlanExecutor {

	if migrationCondition == "" {
		migrationCondition = config.DefaultMigrationCondition
	}

	e := &PlanExecutor{
		stepExecutor:       stepExecutor,
		trigger:            trigger,
		observer:           NopObserver{},
		options:            options,
		schemasDir:         schemasDir,
		apiDir:             apiDir,
		migrationCondition: migrationCondition,
	}
	stepExecutor.runMigration = e.invokeMigration
	return e
}

// WithObserver sets the progress observer.
func (e *PlanExecutor) WithObserver(obs RunObserver) *PlanExecutor {
	if obs != nil {
		e.observer = obs
	}
	return e
}

// WithAudit sets the audit logger.
func (e *PlanExecutor) WithAudit(audit *logging.AuditLogger) *PlanExecutor {
	e.audit = audit
	return e
}

// WithAnalyzer sets the snapshot re-probe used by analyze_project steps.
func (e *PlanExecutor) WithAnalyzer(fn func() (*models.ContextSnapshot, error)) *PlanExecutor {
	e.stepExecutor.reanalyze = fn
	return e
}

// ExecutePlan runs all steps in order and assembles the result. Step
// failures are recorded and execution continues; only the FailFast option
// changes that. In dry-run mode no mutation happens and the result carries
// the predicted touched files instead.
func (e *PlanExecutor) ExecutePlan(ctx context.Context, plan *models.ExecutionPlan) *models.AgentResult {
	result := &models.AgentResult{
		ExecutedSteps: plan.Steps,
		TouchedFiles:  []string{},
		Errors:        []string{},
	}

	e.observer.RunStarted(plan)

	if e.options.DryRun {
		for _, step := range plan.Steps {
			paths, err := DerivePaths(step, e.schemasDir, e.apiDir)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("step %s: %v", step.Kind, err))
				continue
			}
			result.TouchedFiles = append(result.TouchedFiles, paths...)
		}
		result.Success = len(result.Errors) == 0
		return result
	}

	var kinds []string
	total := len(plan.Steps)

	for i, step := range plan.Steps {
		e.observer.StepStarted(i, total, step)

		touched, warnings, err := e.stepExecutor.ExecuteStep(ctx, step)
		for _, w := range warnings {
			e.observer.StepWarning(i, total, step, w)
		}
		result.TouchedFiles = append(result.TouchedFiles, touched...)

		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			e.observer.StepFailed(i, total, step, err)
			e.audit.Event("step_error", map[string]any{
				"step":  i + 1,
				"kind":  string(step.Kind),
				"error": err.Error(),
			})
			if e.options.FailFast {
				break
			}
			continue
		}

		kinds = append(kinds, string(step.Kind))
		e.observer.StepCompleted(i, total, step, touched)
	}

	if !e.options.SkipMigration && !e.migrationDone {
		needed, err := e.migrationNeeded(kinds, len(result.Errors))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error evaluating migration condition: %v", err))
		} else if needed {
			if err := e.invokeMigration(ctx); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("migration failed: %v", err))
			}
		}
	}

	result.MigrationCompleted = e.migrationOK
	result.Success = len(result.Errors) == 0

	e.audit.Event("run_completed", map[string]any{
		"steps":     total,
		"touched":   len(result.TouchedFiles),
		"errors":    len(result.Errors),
		"migration": result.MigrationCompleted,
	})

	return result
}

// migrationNeeded evaluates the aggregate condition over the kinds of the
// successfully executed steps.
func (e *PlanExecutor) migrationNeeded(kinds []string, errorCount int) (bool, error) {
	evaluator, err := condition.NewEvaluator()
	if err != nil {
		return false, err
	}
	if kinds == nil {
		kinds = []string{}
	}
	return evaluator.Evaluate(e.migrationCondition, kinds, errorCount)
}

// invokeMigration runs the migration trigger at most once per run. With
// SkipMigration set it is a no-op regardless of step kinds.
func (e *PlanExecutor) invokeMigration(ctx context.Context) error {
	if e.options.SkipMigration {
		return nil
	}
	if e.migrationDone {
		return nil
	}
	e.migrationDone = true

	if err := e.trigger.Run(ctx); err != nil {
		return err
	}

	e.migrationOK = true
	return nil
}
