// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"fmt"
	"path"
	"strings"

	"github.com/masonworks/mason/internal/core/generate"
	"github.com/masonworks/mason/internal/core/models"
)

// DerivePaths maps a step's kind and parameters to the project-relative
// paths it will touch. Pure, no I/O; the dry-run mode and the executor both
// rely on it producing identical results.
func DerivePaths(step models.ExecutionStep, schemasDir, apiDir string) ([]string, error) {
	switch step.Kind {
	case models.StepCreateSchema:
		d, err := step.SchemaDetails()
		if err != nil {
			return nil, err
		}
		return []string{SchemaPath(schemasDir, d.TableName)}, nil

	case models.StepCreateAPI:
		d, err := step.APIDetails()
		if err != nil {
			return nil, err
		}
		return []string{APIPath(apiDir, d.Endpoint)}, nil

	case models.StepCreateComponent, models.StepUpdateComponent:
		d, err := step.ComponentDetails()
		if err != nil {
			return nil, err
		}
		return append([]string(nil), d.ComponentPaths...), nil

	case models.StepRunMigration, models.StepAnalyzeProject:
		return nil, nil
	}

	return nil, fmt.Errorf("unknown step kind: %s", step.Kind)
}

// DerivePlanPaths predicts the touched files of a whole plan, in execution
// order. Steps whose parameters cannot be derived contribute nothing.
func DerivePlanPaths(plan *models.ExecutionPlan, schemasDir, apiDir string) []string {
	var all []string
	for _, step := range plan.Steps {
		paths, err := DerivePaths(step, schemasDir, apiDir)
		if err != nil {
			continue
		}
		all = append(all, paths...)
	}
	return all
}

// SchemaPath is the definition file for a table.
func SchemaPath(schemasDir, tableName string) string {
	return path.Join(schemasDir, generate.Identifier(tableName)+".ts")
}

// IndexPath is the aggregate schema index file.
func IndexPath(schemasDir string) string {
	return path.Join(schemasDir, "index.ts")
}

// APIPath is the route handler file for an endpoint.
func APIPath(apiDir, endpoint string) string {
	endpoint = strings.Trim(endpoint, "/")
	return path.Join(apiDir, endpoint, "route.ts")
}
