// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Constants for default paths
const (
	DefaultConfigDir      = ".mason"
	DefaultConfigFileName = "config.yaml"
)

// DefaultMigrationCondition is the CEL expression that gates the migration
// follow-up when the config does not override it: any schema creation or an
// explicit migration step in the run warrants a migration.
const DefaultMigrationCondition = `kinds.exists(k, k == "create_schema" || k == "run_migration")`

// PlannerConfig configures the plan source boundary.
type PlannerConfig struct {
	Provider       string `yaml:"provider"` // "openai" or "ollama"
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MigrationConfig configures the external migration trigger.
type MigrationConfig struct {
	Command   string   `yaml:"command"`
	Args      []string `yaml:"args,omitempty"`
	Condition string   `yaml:"condition,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	SchemasDir string `yaml:"schemas_dir"`
	APIDir     string `yaml:"api_dir"`
	BackupsDir string `yaml:"backups_dir"`
	LogFile    string `yaml:"log_file"`

	Planner   PlannerConfig   `yaml:"planner"`
	Migration MigrationConfig `yaml:"migration"`
}

// NewDefaultConfig creates a default configuration.
func NewDefaultConfig() *Config {
	return &Config{
		SchemasDir: "schemas",
		APIDir:     "api",
		BackupsDir: filepath.Join(DefaultConfigDir, "backups"),
		LogFile:    filepath.Join(DefaultConfigDir, "mason.log"),
		Planner: PlannerConfig{
			Provider:       "openai",
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 120,
		},
		Migration: MigrationConfig{
			Command:   "npx",
			Args:      []string{"drizzle-kit", "push"},
			Condition: DefaultMigrationCondition,
		},
	}
}

// ExpandPathWithTilde expands ~ to the user home directory.
func ExpandPathWithTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// LoadConfig loads the configuration for a project directory. An explicit
// configPath wins over the project-local config file; a missing file is not
// an error and yields the defaults.
func LoadConfig(projectDir, configPath string) (*Config, error) {
	cfg := NewDefaultConfig()

	if configPath == "" {
		configPath = filepath.Join(projectDir, DefaultConfigDir, DefaultConfigFileName)
		if _, err := os.Stat(configPath); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(ExpandPathWithTilde(configPath))
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if cfg.Migration.Condition == "" {
		cfg.Migration.Condition = DefaultMigrationCondition
	}

	return cfg, nil
}

// Save writes the configuration to the project-local config file, creating
// the config directory if needed.
func (c *Config) Save(projectDir string) error {
	dir := filepath.Join(projectDir, DefaultConfigDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	return os.WriteFile(filepath.Join(dir, DefaultConfigFileName), data, 0644)
}
