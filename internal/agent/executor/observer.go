// SPDX-License-Identifier: Apache-2.0

package executor

import "github.com/masonworks/mason/internal/core/models"

// RunObserver receives progress callbacks at well-defined points of a run.
// The presentation layer supplies one; the executor never prints progress
// on its own.
type RunObserver interface {
	RunStarted(plan *models.ExecutionPlan)
	StepStarted(index, total int, step models.ExecutionStep)
	StepCompleted(index, total int, step models.ExecutionStep, touched []string)
	StepFailed(index, total int, step models.ExecutionStep, err error)
	StepWarning(index, total int, step models.ExecutionStep, message string)
	RunCompleted(result *models.AgentResult)
}

// NopObserver ignores all callbacks.
type NopObserver struct{}

func (NopObserver) RunStarted(*models.ExecutionPlan)                       {}
func (NopObserver) StepStarted(int, int, models.ExecutionStep)             {}
func (NopObserver) StepCompleted(int, int, models.ExecutionStep, []string) {}
func (NopObserver) StepFailed(int, int, models.ExecutionStep, error)       {}
func (NopObserver) StepWarning(int, int, models.ExecutionStep, string)     {}
func (NopObserver) RunCompleted(*models.AgentResult)                       {}
