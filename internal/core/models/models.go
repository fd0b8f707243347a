// SPDX-License-Identifier: Apache-2.0

package models

import (
	"encoding/json"
	"fmt"
)

// StepKind identifies one of the closed set of plan step kinds.
type StepKind string

const (
	StepCreateSchema    StepKind = "create_schema"
	StepCreateAPI       StepKind = "create_api"
	StepUpdateComponent StepKind = "update_component"
	StepCreateComponent StepKind = "create_component"
	StepRunMigration    StepKind = "run_migration"
	StepAnalyzeProject  StepKind = "analyze_project"
)

// KnownKind reports whether k is a recognized step kind. Unrecognized kinds
// are a step-level error, never a silent fallback.
func KnownKind(k StepKind) bool {
	switch k {
	case StepCreateSchema, StepCreateAPI, StepUpdateComponent,
		StepCreateComponent, StepRunMigration, StepAnalyzeProject:
		return true
	}
	return false
}

// AgentRequest is the immutable input to one agent run.
type AgentRequest struct {
	Query         string `json:"query"`
	SkipAnalysis  bool   `json:"skip_analysis,omitempty"`
	SkipMigration bool   `json:"skip_migration,omitempty"`
}

// Column describes one column of a schema to be created.
type Column struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Constraints []string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
}

// Relationship describes a reference from the new table to an existing one.
type Relationship struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
}

// SchemaDetails are the parameters of a create_schema step.
type SchemaDetails struct {
	TableName     string         `json:"table_name" yaml:"table_name"`
	Columns       []Column       `json:"columns" yaml:"columns"`
	Relationships []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

// APIDetails are the parameters of a create_api step.
type APIDetails struct {
	Endpoint  string   `json:"endpoint" yaml:"endpoint"`
	TableName string   `json:"table_name" yaml:"table_name"`
	Methods   []string `json:"methods" yaml:"methods"`
}

// ComponentDetails are the parameters of create_component and
// update_component steps.
type ComponentDetails struct {
	ComponentPaths []string `json:"component_paths" yaml:"component_paths"`
	Endpoint       string   `json:"endpoint" yaml:"endpoint"`
	TableName      string   `json:"table_name" yaml:"table_name"`
}

// ExecutionStep is one unit of mutation in a plan. Details carries the
// kind-specific parameters as decoded from the plan payload; the typed
// accessors below are the only way execution code reads them.
type ExecutionStep struct {
	Kind         StepKind       `json:"kind" yaml:"kind"`
	Description  string         `json:"description" yaml:"description"`
	Details      map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	DerivedFiles []string       `json:"derived_files,omitempty" yaml:"derived_files,omitempty"`
}

// decodeDetails round-trips the untyped details map through JSON into the
// kind-specific struct.
func (s *ExecutionStep) decodeDetails(out any) error {
	data, err := json.Marshal(s.Details)
	if err != nil {
		return fmt.Errorf("error encoding step details: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding step details: %w", err)
	}
	return nil
}

// SchemaDetails decodes the details of a create_schema step.
func (s *ExecutionStep) SchemaDetails() (*SchemaDetails, error) {
	var d SchemaDetails
	if err := s.decodeDetails(&d); err != nil {
		return nil, err
	}
	if d.TableName == "" {
		return nil, fmt.Errorf("create_schema step is missing table_name")
	}
	return &d, nil
}

// APIDetails decodes the details of a create_api step.
func (s *ExecutionStep) APIDetails() (*APIDetails, error) {
	var d APIDetails
	if err := s.decodeDetails(&d); err != nil {
		return nil, err
	}
	if d.Endpoint == "" {
		return nil, fmt.Errorf("create_api step is missing endpoint")
	}
	return &d, nil
}

// ComponentDetails decodes the details of a create_component or
// update_component step.
func (s *ExecutionStep) ComponentDetails() (*ComponentDetails, error) {
	var d ComponentDetails
	if err := s.decodeDetails(&d); err != nil {
		return nil, err
	}
	if len(d.ComponentPaths) == 0 {
		return nil, fmt.Errorf("component step is missing component_paths")
	}
	return &d, nil
}

// ExecutionPlan is the ordered change plan produced by the plan source.
// The executor treats it as read-only.
type ExecutionPlan struct {
	Description string          `json:"description" yaml:"description"`
	Steps       []ExecutionStep `json:"steps" yaml:"steps"`
}

// DatabaseInfo describes the detected database tooling of the project.
type DatabaseInfo struct {
	Provider    string   `json:"provider"`
	SchemaFiles []string `json:"schema_files,omitempty"`
}

// SchemaInfo describes one schema unit already present in the project.
type SchemaInfo struct {
	Name   string   `json:"name"`
	Tables []string `json:"tables,omitempty"`
	Path   string   `json:"path"`
}

// ContextSnapshot is an immutable structural description of the target
// project, built fresh per run and never mutated after construction.
type ContextSnapshot struct {
	Framework       string              `json:"framework"`
	HasTypedSource  bool                `json:"has_typed_source"`
	Structure       map[string][]string `json:"structure,omitempty"`
	Database        *DatabaseInfo       `json:"database,omitempty"`
	ExistingSchemas []SchemaInfo        `json:"existing_schemas,omitempty"`
	EndpointPaths   []string            `json:"endpoint_paths,omitempty"`
	UIModulePaths   []string            `json:"ui_module_paths,omitempty"`
	Dependencies    map[string]string   `json:"dependencies,omitempty"`
}

// AgentResult is the authoritative summary of one run. Success is true iff
// Errors is empty, independent of MigrationCompleted.
type AgentResult struct {
	Success            bool             `json:"success"`
	ExecutedSteps      []ExecutionStep  `json:"executed_steps"`
	TouchedFiles       []string         `json:"touched_files"`
	Errors             []string         `json:"errors"`
	MigrationCompleted bool             `json:"migration_completed"`
	Snapshot           *ContextSnapshot `json:"context,omitempty"`
}

// BackupRecord is the write-only audit record of one pre-mutation copy.
type BackupRecord struct {
	SourcePath string `json:"source_path"`
	BackupPath string `json:"backup_path"`
	CapturedAt int64  `json:"captured_at_ms"` // epoch milliseconds
}

// ExecutionOptions contains options for plan execution.
type ExecutionOptions struct {
	DryRun        bool
	Verbose       bool
	FailFast      bool
	SkipMigration bool
	WorkingDir    string
}
