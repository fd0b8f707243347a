// SPDX-License-Identifier: Apache-2.0

// Package condition evaluates the migration follow-up condition: a CEL
// expression over aggregate facts of a whole run, not any single step.
package condition

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// Evaluator handles evaluation of CEL expressions against run facts.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator exposing the run facts: `kinds`, the
// kinds of the successfully executed steps in order, and `errors`, the
// number of step errors accumulated.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("kinds", cel.ListType(cel.StringType)),
		cel.Variable("errors", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	return &Evaluator{env: env}, nil
}

// Evaluate compiles and runs expression against the given run facts.
func (e *Evaluator) Evaluate(expression string, kinds []string, errorCount int) (bool, error) {
	ast, issues := e.env.Parse(expression)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error parsing expression: %w", issues.Err())
	}

	checked, issues := e.env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("error type-checking expression: %w", issues.Err())
	}

	program, err := e.env.Program(checked)
	if err != nil {
		return false, fmt.Errorf("error compiling expression: %w", err)
	}

	result, _, err := program.Eval(map[string]any{
		"kinds":  kinds,
		"errors": errorCount,
	})
	if err != nil {
		return false, fmt.Errorf("error evaluating expression: %w", err)
	}

	if result.Type() != types.BoolType {
		return false, fmt.Errorf("expression did not evaluate to a boolean")
	}

	return result.Value().(bool), nil
}
