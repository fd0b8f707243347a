// SPDX-License-Identifier: Apache-2.0

package planner_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/core/models"
)

const validPlanJSON = `{
  "description": "add an orders feature",
  "steps": [
    {
      "kind": "create_schema",
      "description": "create the orders table",
      "details": {
        "table_name": "orders",
        "columns": [{"name": "total", "type": "decimal"}]
      }
    },
    {
      "kind": "create_api",
      "description": "expose orders",
      "details": {"endpoint": "orders", "table_name": "orders", "methods": ["GET", "POST"]}
    }
  ]
}`

func TestParsePlanResponseBareJSON(t *testing.T) {
	plan, err := planner.ParsePlanResponse(validPlanJSON)
	require.NoError(t, err)

	assert.Equal(t, "add an orders feature", plan.Description)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, models.StepCreateSchema, plan.Steps[0].Kind)
	assert.Equal(t, models.StepCreateAPI, plan.Steps[1].Kind)
}

func TestParsePlanResponseFencedJSON(t *testing.T) {
	response := "Here is the plan:\n```json\n" + validPlanJSON + "\n```\nLet me know."

	plan, err := planner.ParsePlanResponse(response)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 2)
}

func TestParsePlanResponseSurroundingProse(t *testing.T) {
	response := "Sure! " + validPlanJSON + " Hope that helps."

	plan, err := planner.ParsePlanResponse(response)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, 2)
}

func TestParsePlanResponseNoJSON(t *testing.T) {
	_, err := planner.ParsePlanResponse("I could not come up with a plan.")
	require.Error(t, err)

	var planErr *planner.PlanError
	require.True(t, errors.As(err, &planErr))
	assert.Contains(t, err.Error(), "failed to parse plan")
}

func TestParsePlanResponseRejectsMissingDescription(t *testing.T) {
	_, err := planner.ParsePlanResponse(`{"steps": [{"kind": "run_migration", "details": {}}]}`)
	require.Error(t, err)

	var planErr *planner.PlanError
	assert.True(t, errors.As(err, &planErr))
}

func TestParsePlanResponseRejectsEmptySteps(t *testing.T) {
	_, err := planner.ParsePlanResponse(`{"description": "do nothing", "steps": []}`)
	require.Error(t, err)

	var planErr *planner.PlanError
	assert.True(t, errors.As(err, &planErr))
}

func TestParsePlanResponseRejectsStepWithoutDetails(t *testing.T) {
	_, err := planner.ParsePlanResponse(`{"description": "x", "steps": [{"kind": "run_migration"}]}`)
	require.Error(t, err)
}

func TestParsePlanResponseKeepsUnknownKinds(t *testing.T) {
	// Unknown kinds pass parsing; they fail per step at execution time
	// instead of discarding the whole plan.
	plan, err := planner.ParsePlanResponse(`{"description": "x", "steps": [{"kind": "made_up", "details": {}}]}`)
	require.NoError(t, err)
	assert.Equal(t, models.StepKind("made_up"), plan.Steps[0].Kind)
}

func TestValidatePlan(t *testing.T) {
	valid := &models.ExecutionPlan{
		Description: "x",
		Steps: []models.ExecutionStep{
			{Kind: models.StepRunMigration, Details: map[string]any{}},
		},
	}
	assert.NoError(t, planner.ValidatePlan(valid))

	missingKind := &models.ExecutionPlan{
		Description: "x",
		Steps:       []models.ExecutionStep{{Details: map[string]any{}}},
	}
	assert.Error(t, planner.ValidatePlan(missingKind))
}

func TestExtractJSONPrefersFencedBlock(t *testing.T) {
	response := "ignore {\"wrong\": true} this\n```json\n{\"right\": true}\n```"

	payload, err := planner.ExtractJSON(response)
	require.NoError(t, err)
	assert.Equal(t, `{"right": true}`, payload)
}

func TestSaveAndLoadPlanFile(t *testing.T) {
	tempDir := t.TempDir()

	plan, err := planner.ParsePlanResponse(validPlanJSON)
	require.NoError(t, err)

	for _, name := range []string{"plan.yaml", "plan.json"} {
		path := filepath.Join(tempDir, name)
		require.NoError(t, planner.SavePlanToFile(plan, path))

		loaded, err := planner.LoadPlanFile(path)
		require.NoError(t, err)
		assert.Equal(t, plan.Description, loaded.Description)
		require.Len(t, loaded.Steps, 2)
		assert.Equal(t, plan.Steps[0].Kind, loaded.Steps[0].Kind)
	}
}

func TestLoadPlanFileRejectsInvalidPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")

	// A structurally valid YAML file that is not a valid plan.
	require.NoError(t, os.WriteFile(path, []byte("description: empty plan\nsteps: []\n"), 0644))

	_, err := planner.LoadPlanFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid plan")
}
