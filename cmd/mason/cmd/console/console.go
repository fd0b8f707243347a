// SPDX-License-Identifier: Apache-2.0

// Package console is the CLI presentation layer: progress lines during a
// run and the final result summary. The core never prints progress itself.
package console

import (
	"fmt"

	"github.com/masonworks/mason/internal/core/models"
)

// Observer prints run progress to stdout.
type Observer struct {
	Verbose bool
}

func (o *Observer) RunStarted(plan *models.ExecutionPlan) {
	fmt.Printf("Executing plan: %s (%d steps)\n", plan.Description, len(plan.Steps))
}

func (o *Observer) StepStarted(index, total int, step models.ExecutionStep) {
	if o.Verbose {
		fmt.Printf("Executing step %d/%d: %s (%s)\n", index+1, total, step.Description, step.Kind)
	} else {
		fmt.Printf("Executing step %d/%d: %s\n", index+1, total, step.Kind)
	}
}

func (o *Observer) StepCompleted(index, total int, step models.ExecutionStep, touched []string) {
	for _, path := range touched {
		fmt.Printf("  Wrote %s\n", path)
	}
}

func (o *Observer) StepFailed(index, total int, step models.ExecutionStep, err error) {
	fmt.Printf("  Error: %v\n", err)
}

func (o *Observer) StepWarning(index, total int, step models.ExecutionStep, message string) {
	fmt.Printf("  Warning: %s\n", message)
}

func (o *Observer) RunCompleted(result *models.AgentResult) {}

// PrintResult prints the final run summary.
func PrintResult(result *models.AgentResult) {
	succeeded := len(result.ExecutedSteps) - len(result.Errors)
	if succeeded < 0 {
		succeeded = 0
	}

	fmt.Printf("\nExecution summary: %d successful, %d failed (out of %d total steps)\n",
		succeeded, len(result.Errors), len(result.ExecutedSteps))

	if len(result.TouchedFiles) > 0 {
		fmt.Println("Touched files:")
		for _, path := range result.TouchedFiles {
			fmt.Printf("  %s\n", path)
		}
	}

	for _, msg := range result.Errors {
		fmt.Printf("Error: %s\n", msg)
	}

	if result.MigrationCompleted {
		fmt.Println("Migration completed.")
	}
}
