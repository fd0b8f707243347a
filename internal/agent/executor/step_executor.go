// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"fmt"

	"github.com/masonworks/mason/internal/core/diffview"
	"github.com/masonworks/mason/internal/core/fsops"
	"github.com/masonworks/mason/internal/core/generate"
	"github.com/masonworks/mason/internal/core/index"
	"github.com/masonworks/mason/internal/core/models"
)

// StepError is a step-scoped failure. It never aborts the run on its own;
// the plan executor records it and continues.
type StepError struct {
	Kind    models.StepKind
	Message string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %s", e.Kind, e.Message)
}

func stepErrorf(kind models.StepKind, format string, args ...any) *StepError {
	return &StepError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StepExecutor dispatches one step to its generation and mutation routine.
type StepExecutor struct {
	mutator    *fsops.Mutator
	schemasDir string
	apiDir     string
	options    models.ExecutionOptions

	// runMigration enforces the at-most-once migration guard for the run;
	// supplied by the plan executor.
	runMigration func(ctx context.Context) error

	// reanalyze re-runs the context snapshot probe for analyze_project.
	reanalyze func() (*models.ContextSnapshot, error)
}

// NewStepExecutor creates a step executor writing through mutator.
func NewStepExecutor(mutator *fsops.Mutator, schemasDir, apiDir string, options models.ExecutionOptions) *StepExecutor {
	return &StepExecutor{
		mutator:    mutator,
		schemasDir: schemasDir,
		apiDir:     apiDir,
		options:    options,
	}
}

// ExecuteStep runs a single step and returns the paths it touched plus any
// non-fatal per-path warnings. The returned error is always a *StepError.
func (e *StepExecutor) ExecuteStep(ctx context.Context, step models.ExecutionStep) ([]string, []string, error) {
	switch step.Kind {
	case models.StepCreateSchema:
		return e.createSchema(step)
	case models.StepCreateAPI:
		return e.createAPI(step)
	case models.StepCreateComponent:
		return e.createComponent(step)
	case models.StepUpdateComponent:
		return e.updateComponent(step)
	case models.StepRunMigration:
		if e.runMigration == nil {
			return nil, nil, stepErrorf(step.Kind, "no migration trigger available")
		}
		if err := e.runMigration(ctx); err != nil {
			return nil, nil, stepErrorf(step.Kind, "%v", err)
		}
		return nil, nil, nil
	case models.StepAnalyzeProject:
		if e.reanalyze == nil {
			return nil, nil, stepErrorf(step.Kind, "no analyzer available")
		}
		if _, err := e.reanalyze(); err != nil {
			return nil, nil, stepErrorf(step.Kind, "%v", err)
		}
		return nil, nil, nil
	}

	return nil, nil, stepErrorf(step.Kind, "unknown step kind")
}

// createSchema writes the table definition and merges the aggregate index.
func (e *StepExecutor) createSchema(step models.ExecutionStep) ([]string, []string, error) {
	d, err := step.SchemaDetails()
	if err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	target := SchemaPath(e.schemasDir, d.TableName)
	content := generate.Schema(d)

	if err := e.mutator.WriteFile(target, []byte(content), true); err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	indexPath := e.mutator.Resolve(IndexPath(e.schemasDir))
	if _, err := index.EnsureReferenced(indexPath, generate.Identifier(d.TableName)); err != nil {
		return []string{target}, nil, stepErrorf(step.Kind, "error updating schema index: %v", err)
	}

	return []string{target}, nil, nil
}

func (e *StepExecutor) createAPI(step models.ExecutionStep) ([]string, []string, error) {
	d, err := step.APIDetails()
	if err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	content, err := generate.APIRoute(d)
	if err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	target := APIPath(e.apiDir, d.Endpoint)
	if err := e.mutator.WriteFile(target, []byte(content), true); err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	return []string{target}, nil, nil
}

// createComponent writes brand-new view modules. A target that already
// exists is a fatal step error: the contract guarantees new components are
// never clobbered, so all paths are checked before any write.
func (e *StepExecutor) createComponent(step models.ExecutionStep) ([]string, []string, error) {
	d, err := step.ComponentDetails()
	if err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	for _, target := range d.ComponentPaths {
		if e.mutator.Exists(target) {
			return nil, nil, stepErrorf(step.Kind, "component path %s already exists", target)
		}
	}

	var touched []string
	for _, target := range d.ComponentPaths {
		content, err := generate.Component(target, d)
		if err != nil {
			return touched, nil, stepErrorf(step.Kind, "%v", err)
		}
		// Brand-new files need no pre-mutation copy.
		if err := e.mutator.WriteFile(target, []byte(content), false); err != nil {
			return touched, nil, stepErrorf(step.Kind, "%v", err)
		}
		touched = append(touched, target)
	}

	return touched, nil, nil
}

// updateComponent edits existing view modules best-effort per path: a
// single path's failure among several is a warning, but a step where no
// path could be updated at all fails.
func (e *StepExecutor) updateComponent(step models.ExecutionStep) ([]string, []string, error) {
	d, err := step.ComponentDetails()
	if err != nil {
		return nil, nil, stepErrorf(step.Kind, "%v", err)
	}

	var touched []string
	var warnings []string
	failed := 0

	for _, target := range d.ComponentPaths {
		content, err := e.mutator.Read(target)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", target, err))
			failed++
			continue
		}

		res := generate.ApplyComponentUpdate(string(content), d.Endpoint)
		if !res.Anchored {
			warnings = append(warnings, fmt.Sprintf("no import or component entry marker found in %s, left unmodified", target))
			continue
		}
		if !res.ImportAdded && !res.FetchAdded {
			warnings = append(warnings, fmt.Sprintf("%s already up to date", target))
			continue
		}

		if e.options.Verbose {
			fmt.Printf("Changes for %s:\n%s", target, diffview.Render(string(content), res.Content))
		}

		if err := e.mutator.WriteFile(target, []byte(res.Content), true); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", target, err))
			failed++
			continue
		}
		touched = append(touched, target)
	}

	if len(touched) == 0 && failed > 0 {
		return nil, warnings, stepErrorf(step.Kind, "no component paths could be updated: %s", warnings[0])
	}

	return touched, warnings, nil
}
