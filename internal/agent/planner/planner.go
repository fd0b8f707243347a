// SPDX-License-Identifier: Apache-2.0

// Package planner implements the plan source boundary: it turns a free-text
// request plus a project snapshot into a validated execution plan by asking
// a model-backed planning service. The core builds no retry logic on top of
// this boundary; a failure here is fatal to the run.
package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/format"
	"github.com/masonworks/mason/internal/core/models"
)

// PlanSource produces an execution plan for a query, or fails.
type PlanSource interface {
	GeneratePlan(ctx context.Context, query string, snap *models.ContextSnapshot) (*models.ExecutionPlan, error)
}

// PlanError is the structured failure of the plan source boundary.
type PlanError struct {
	Reason string
}

func (e *PlanError) Error() string {
	return "failed to parse plan: " + e.Reason
}

// completer is the provider-facing seam: one blocking chat completion.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
}

// Source wires a chat provider to the parse/validate pipeline.
type Source struct {
	provider completer
}

// NewFromConfig builds a plan source for the configured provider.
func NewFromConfig(cfg config.PlannerConfig) (*Source, error) {
	switch cfg.Provider {
	case "openai", "":
		return &Source{provider: newOpenAIProvider(cfg)}, nil
	case "ollama":
		return &Source{provider: newOllamaProvider(cfg)}, nil
	}
	return nil, fmt.Errorf("unknown planner provider: %s", cfg.Provider)
}

const systemPrompt = `You are a planning service for a code-mutation agent working on a JS/TS web project.
Given a user request and an optional project context, respond with a single JSON object and nothing else:
{"description": "...", "steps": [{"kind": "...", "description": "...", "details": {...}}]}
Allowed step kinds and their details:
- create_schema: {"table_name": string, "columns": [{"name": string, "type": string, "constraints": [string]}], "relationships": [{"table": string, "column": string}]}
- create_api: {"endpoint": string, "table_name": string, "methods": ["GET"|"POST"|"PUT"|"DELETE"]}
- create_component: {"component_paths": [string], "endpoint": string, "table_name": string}
- update_component: {"component_paths": [string], "endpoint": string, "table_name": string}
- run_migration: {}
- analyze_project: {}
Every step must carry a details object, even when empty. Do not invent other kinds.`

// GeneratePlan asks the provider for a plan and validates the reply.
func (s *Source) GeneratePlan(ctx context.Context, query string, snap *models.ContextSnapshot) (*models.ExecutionPlan, error) {
	user := "Request: " + query
	if snap != nil {
		contextJSON, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("error encoding project context: %w", err)
		}
		user += "\n\nProject context:\n" + string(contextJSON)
	}

	reply, err := s.provider.complete(ctx, systemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("plan service call failed: %w", err)
	}

	return ParsePlanResponse(reply)
}

// ParsePlanResponse extracts, validates, and decodes a plan from raw model
// output. Any structural fault yields a PlanError.
func ParsePlanResponse(response string) (*models.ExecutionPlan, error) {
	payload, err := ExtractJSON(response)
	if err != nil {
		return nil, &PlanError{Reason: err.Error()}
	}

	if err := validatePlanPayload([]byte(payload)); err != nil {
		return nil, &PlanError{Reason: err.Error()}
	}

	var plan models.ExecutionPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, &PlanError{Reason: err.Error()}
	}

	if err := ValidatePlan(&plan); err != nil {
		return nil, &PlanError{Reason: err.Error()}
	}

	return &plan, nil
}

// ValidatePlan checks the structural invariants of a decoded plan. Unknown
// step kinds are deliberately not rejected here: they surface as per-step
// execution errors rather than aborting the whole run.
func ValidatePlan(plan *models.ExecutionPlan) error {
	if plan.Description == "" {
		return fmt.Errorf("plan is missing a description")
	}
	if len(plan.Steps) == 0 {
		return fmt.Errorf("plan contains no steps")
	}
	for i, step := range plan.Steps {
		if step.Kind == "" {
			return fmt.Errorf("step %d is missing its kind", i+1)
		}
		if step.Details == nil {
			return fmt.Errorf("step %d (%s) is missing its details", i+1, step.Kind)
		}
	}
	return nil
}

// LoadPlanFile loads a previously saved plan (YAML or JSON).
func LoadPlanFile(filePath string) (*models.ExecutionPlan, error) {
	var plan models.ExecutionPlan
	if err := format.ParseFile(filePath, &plan); err != nil {
		return nil, fmt.Errorf("error parsing plan file: %w", err)
	}

	if err := ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	return &plan, nil
}

// SavePlanToFile writes a plan to a file, format chosen by extension.
func SavePlanToFile(plan *models.ExecutionPlan, filePath string) error {
	if err := ValidatePlan(plan); err != nil {
		return fmt.Errorf("invalid plan: %w", err)
	}

	if err := format.WriteFile(filePath, plan); err != nil {
		return fmt.Errorf("error writing plan to file: %w", err)
	}

	return nil
}
