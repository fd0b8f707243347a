// SPDX-License-Identifier: Apache-2.0

package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/masonworks/mason/internal/agent"
	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/models"
	"github.com/masonworks/mason/internal/testutil"
)

func newProject(t *testing.T) string {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"),
		[]byte(`{"dependencies": {"next": "14.0.0", "pg": "8.0.0"}}`), 0644))
	return root
}

func ordersPlan() *models.ExecutionPlan {
	return &models.ExecutionPlan{
		Description: "add an orders feature",
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
}

func TestRunEndToEnd(t *testing.T) {
	root := newProject(t)
	cfg := config.NewDefaultConfig()

	source := &testutil.MockPlanSource{}
	source.On("GeneratePlan", mock.Anything, "add orders", mock.Anything).Return(ordersPlan(), nil)
	trigger := &testutil.MockTrigger{}

	ag := agent.New(cfg, root, source, trigger)
	result := ag.Run(context.Background(), models.AgentRequest{Query: "add orders"}, models.ExecutionOptions{})

	assert.True(t, result.Success)
	assert.Equal(t, []string{"schemas/orders.ts"}, result.TouchedFiles)
	assert.True(t, result.MigrationCompleted)
	assert.Equal(t, 1, trigger.Calls)

	// The snapshot taken before planning rides along on the result.
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, "next", result.Snapshot.Framework)

	assert.FileExists(t, filepath.Join(root, "schemas", "orders.ts"))
	assert.FileExists(t, filepath.Join(root, "schemas", "index.ts"))

	source.AssertExpectations(t)
}

func TestRunSkipAnalysis(t *testing.T) {
	root := newProject(t)
	cfg := config.NewDefaultConfig()

	source := &testutil.MockPlanSource{}
	source.On("GeneratePlan", mock.Anything, "add orders", (*models.ContextSnapshot)(nil)).Return(ordersPlan(), nil)

	ag := agent.New(cfg, root, source, &testutil.MockTrigger{})
	result := ag.Run(context.Background(),
		models.AgentRequest{Query: "add orders", SkipAnalysis: true},
		models.ExecutionOptions{})

	assert.True(t, result.Success)
	assert.Nil(t, result.Snapshot)
	source.AssertExpectations(t)
}

func TestRunPlanningFailureIsFatal(t *testing.T) {
	root := newProject(t)
	cfg := config.NewDefaultConfig()

	source := &testutil.MockPlanSource{}
	source.On("GeneratePlan", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &planner.PlanError{Reason: "no JSON object found in response"})

	ag := agent.New(cfg, root, source, &testutil.MockTrigger{})
	result := ag.Run(context.Background(), models.AgentRequest{Query: "add orders"}, models.ExecutionOptions{})

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to parse plan")
	assert.Empty(t, result.TouchedFiles)
	assert.Empty(t, result.ExecutedSteps)

	// Planning failed, so nothing in the project moved.
	assert.NoFileExists(t, filepath.Join(root, "schemas", "orders.ts"))
}

func TestRunAnalysisFailureIsFatal(t *testing.T) {
	cfg := config.NewDefaultConfig()
	missingRoot := filepath.Join(t.TempDir(), "gone")

	source := &testutil.MockPlanSource{}
	ag := agent.New(cfg, missingRoot, source, &testutil.MockTrigger{})
	result := ag.Run(context.Background(), models.AgentRequest{Query: "add orders"}, models.ExecutionOptions{})

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "project analysis failed")

	// The plan source is never consulted after a failed analysis.
	source.AssertNotCalled(t, "GeneratePlan", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunRequestSkipMigration(t *testing.T) {
	root := newProject(t)
	cfg := config.NewDefaultConfig()

	source := &testutil.MockPlanSource{}
	source.On("GeneratePlan", mock.Anything, mock.Anything, mock.Anything).Return(ordersPlan(), nil)
	trigger := &testutil.MockTrigger{}

	ag := agent.New(cfg, root, source, trigger)
	result := ag.Run(context.Background(),
		models.AgentRequest{Query: "add orders", SkipMigration: true},
		models.ExecutionOptions{})

	assert.True(t, result.Success)
	assert.Equal(t, 0, trigger.Calls)
	assert.False(t, result.MigrationCompleted)
}

func TestRunPlanDirectly(t *testing.T) {
	root := newProject(t)
	cfg := config.NewDefaultConfig()
	observer := &testutil.RecordingObserver{}

	ag := agent.New(cfg, root, nil, &testutil.MockTrigger{}).WithObserver(observer)
	result := ag.RunPlan(context.Background(), ordersPlan(), models.ExecutionOptions{})

	assert.True(t, result.Success)
	assert.True(t, observer.RunDone)
	assert.Len(t, observer.Completed, 1)
}
