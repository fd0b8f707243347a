// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/masonworks/mason/cmd/mason/cmd/analyze"
	"github.com/masonworks/mason/cmd/mason/cmd/plan"
	"github.com/masonworks/mason/cmd/mason/cmd/run"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mason",
	Short: "Mason - natural-language code-mutation agent",
	Long: `Mason turns free-text change requests into executed change plans:
it analyzes the target project, asks a planning service for an ordered list
of steps, and applies them to the filesystem with backup-before-write safety
and a conditional schema-migration follow-up.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(run.GetRunCmd())
	rootCmd.AddCommand(plan.GetPlanCmd())
	rootCmd.AddCommand(analyze.GetAnalyzeCmd())
}
