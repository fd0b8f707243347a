// SPDX-License-Identifier: Apache-2.0

package analyze

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonworks/mason/internal/agent/snapshot"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/format"
)

// GetAnalyzeCmd builds the `mason analyze` command: print the project
// snapshot the planner would see.
func GetAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the project and print its structural snapshot",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			workdir, _ := cmd.Flags().GetString("workdir")
			configPath, _ := cmd.Flags().GetString("config")
			asJSON, _ := cmd.Flags().GetBool("json")

			if workdir == "" {
				var err error
				workdir, err = os.Getwd()
				if err != nil {
					fmt.Printf("Error getting working directory: %v\n", err)
					os.Exit(1)
				}
			}

			cfg, err := config.LoadConfig(workdir, configPath)
			if err != nil {
				fmt.Printf("Error loading configuration: %v\n", err)
				os.Exit(1)
			}

			snap, err := snapshot.Build(workdir, snapshot.Options{
				SchemasDir: cfg.SchemasDir,
				APIDir:     cfg.APIDir,
			})
			if err != nil {
				fmt.Printf("Error analyzing project: %v\n", err)
				os.Exit(1)
			}

			output, err := format.FormatData(snap, !asJSON)
			if err != nil {
				fmt.Printf("Error formatting snapshot: %v\n", err)
				os.Exit(1)
			}
			fmt.Print(output)
		},
	}

	analyzeCmd.Flags().StringP("workdir", "w", "", "Project root to analyze (default: current directory)")
	analyzeCmd.Flags().StringP("config", "c", "", "Path to config file")
	analyzeCmd.Flags().Bool("json", false, "Print the snapshot as JSON instead of YAML")

	return analyzeCmd
}
