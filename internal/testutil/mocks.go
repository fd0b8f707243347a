// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/masonworks/mason/internal/core/models"
)

// MockPlanSource is a testify mock of the plan source boundary.
type MockPlanSource struct {
	mock.Mock
}

func (m *MockPlanSource) GeneratePlan(ctx context.Context, query string, snap *models.ContextSnapshot) (*models.ExecutionPlan, error) {
	args := m.Called(ctx, query, snap)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ExecutionPlan), args.Error(1)
}

// MockTrigger is a testify mock of the migration trigger. Calls counts how
// many times the trigger was invoked.
type MockTrigger struct {
	mock.Mock
	Calls int
}

func (m *MockTrigger) Run(ctx context.Context) error {
	m.Calls++
	if m.Mock.ExpectedCalls != nil && len(m.Mock.ExpectedCalls) > 0 {
		args := m.Called(ctx)
		return args.Error(0)
	}
	return nil
}

// RecordingObserver captures observer callbacks for assertions.
type RecordingObserver struct {
	Started   []models.ExecutionStep
	Completed []models.ExecutionStep
	Failed    []models.ExecutionStep
	Warnings  []string
	RunDone   bool
}

func (r *RecordingObserver) RunStarted(*models.ExecutionPlan) {}

func (r *RecordingObserver) StepStarted(_, _ int, step models.ExecutionStep) {
	r.Started = append(r.Started, step)
}

func (r *RecordingObserver) StepCompleted(_, _ int, step models.ExecutionStep, _ []string) {
	r.Completed = append(r.Completed, step)
}

func (r *RecordingObserver) StepFailed(_, _ int, step models.ExecutionStep, _ error) {
	r.Failed = append(r.Failed, step)
}

func (r *RecordingObserver) StepWarning(_, _ int, _ models.ExecutionStep, message string) {
	r.Warnings = append(r.Warnings, message)
}

func (r *RecordingObserver) RunCompleted(*models.AgentResult) {
	r.RunDone = true
}
