// +build integration

// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/masonworks/mason/internal/agent"
	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/models"
	"github.com/masonworks/mason/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBasicWorkflow tests the basic mason workflow end-to-end
func TestBasicWorkflow(t *testing.T) {
	tempDir := t.TempDir()

	// 1. Test configuration loading
	t.Run("ConfigurationLoad", func(t *testing.T) {
		cfg, err := config.LoadConfig(tempDir, "")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, "schemas", cfg.SchemasDir)
		assert.Equal(t, "api", cfg.APIDir)
		assert.Equal(t, "openai", cfg.Planner.Provider)
		assert.Equal(t, "npx", cfg.Migration.Command)

		fmt.Printf("✓ Configuration loaded successfully\n")
		fmt.Printf("  Schemas Dir: %s\n", cfg.SchemasDir)
		fmt.Printf("  API Dir: %s\n", cfg.APIDir)
	})

	// 2. Test plan parsing and validation
	t.Run("PlanParsing", func(t *testing.T) {
		response := `{
			"description": "add an orders feature",
			"steps": [
				{"kind": "create_schema", "description": "orders table", "details": {"table_name": "orders", "columns": [{"name": "total", "type": "decimal"}]}},
				{"kind": "create_api", "description": "orders endpoint", "details": {"endpoint": "orders", "table_name": "orders", "methods": ["GET", "POST"]}}
			]
		}`

		plan, err := planner.ParsePlanResponse(response)
		require.NoError(t, err)
		require.NotNil(t, plan)
		assert.Len(t, plan.Steps, 2)

		fmt.Printf("✓ Plan parsed successfully\n")
		fmt.Printf("  Description: %s\n", plan.Description)
		fmt.Printf("  Steps: %d\n", len(plan.Steps))
	})

	// 3. Test plan file operations
	t.Run("PlanFileOperations", func(t *testing.T) {
		plan := &models.ExecutionPlan{
			Description: "orders schema",
			Steps: []models.ExecutionStep{
				{
					Kind:        models.StepCreateSchema,
					Description: "create the orders table",
					Details: map[string]any{
						"table_name": "orders",
						"columns":    []any{map[string]any{"name": "total", "type": "decimal"}},
					},
				},
			},
		}

		planFile := filepath.Join(tempDir, "test-plan.json")
		err := planner.SavePlanToFile(plan, planFile)
		require.NoError(t, err)

		loadedPlan, err := planner.LoadPlanFile(planFile)
		require.NoError(t, err)
		require.NotNil(t, loadedPlan)

		assert.Equal(t, plan.Description, loadedPlan.Description)
		assert.Len(t, loadedPlan.Steps, 1)
		assert.Equal(t, plan.Steps[0].Kind, loadedPlan.Steps[0].Kind)

		fmt.Printf("✓ Plan file operations successful\n")
		fmt.Printf("  Plan saved to: %s\n", planFile)
	})

	// 4. Test a full run against a scratch project
	t.Run("FullRun", func(t *testing.T) {
		projectDir := filepath.Join(tempDir, "project")
		require.NoError(t, os.MkdirAll(projectDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, "package.json"),
			[]byte(`{"dependencies": {"next": "14.0.0", "pg": "8.0.0"}}`), 0644))

		cfg := config.NewDefaultConfig()
		plan := &models.ExecutionPlan{
			Description: "orders schema",
			Steps: []models.ExecutionStep{
				{
					Kind: models.StepCreateSchema,
					Details: map[string]any{
						"table_name": "orders",
						"columns":    []any{map[string]any{"name": "total", "type": "decimal"}},
					},
				},
			},
		}

		ag := agent.New(cfg, projectDir, nil, &testutil.MockTrigger{})
		result := ag.RunPlan(context.Background(), plan, models.ExecutionOptions{})

		require.True(t, result.Success)
		assert.FileExists(t, filepath.Join(projectDir, "schemas", "orders.ts"))
		assert.FileExists(t, filepath.Join(projectDir, "schemas", "index.ts"))
		assert.True(t, result.MigrationCompleted)

		fmt.Printf("✓ Full run successful\n")
		fmt.Printf("  Touched files: %d\n", len(result.TouchedFiles))
	})

	// 5. Test path expansion
	t.Run("PathExpansion", func(t *testing.T) {
		homeDir, err := os.UserHomeDir()
		require.NoError(t, err)

		expanded := config.ExpandPathWithTilde("~/test/path")
		expected := filepath.Join(homeDir, "test/path")
		assert.Equal(t, expected, expanded)

		absolutePath := "/absolute/path"
		assert.Equal(t, absolutePath, config.ExpandPathWithTilde(absolutePath))

		fmt.Printf("✓ Path expansion working correctly\n")
	})

	fmt.Printf("\n✅ All integration tests passed successfully!\n")
}
