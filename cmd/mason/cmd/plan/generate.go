// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonworks/mason/internal/agent"
	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/format"
	"github.com/masonworks/mason/internal/core/models"
)

func getGenerateCmd() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate [query]",
		Short: "Generate a change plan from a free-text request",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			workdir, _ := cmd.Flags().GetString("workdir")
			configPath, _ := cmd.Flags().GetString("config")
			outputFile, _ := cmd.Flags().GetString("output")
			skipAnalysis, _ := cmd.Flags().GetBool("skip-analysis")
			verbose, _ := cmd.Flags().GetBool("verbose")

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

			source, err := planner.NewFromConfig(cfg.Planner)
			if err != nil {
				fmt.Printf("Error creating plan source: %v\n", err)
				os.Exit(1)
			}

			ag := agent.New(cfg, workdir, source, nil)

			var snap *models.ContextSnapshot
			if !skipAnalysis {
				if verbose {
					fmt.Printf("Analyzing project: %s\n", workdir)
				}
				snap, err = ag.Analyze()
				if err != nil {
					fmt.Printf("Error analyzing project: %v\n", err)
					os.Exit(1)
				}
			}

			plan, err := ag.Plan(cmd.Context(), args[0], snap)
			if err != nil {
				fmt.Printf("Error generating plan: %v\n", err)
				os.Exit(1)
			}

			if outputFile == "" {
				planOutput, err := format.FormatData(plan, true)
				if err != nil {
					fmt.Printf("Error formatting plan: %v\n", err)
					os.Exit(1)
				}
				fmt.Print(planOutput)
				return
			}

			if err := planner.SavePlanToFile(plan, outputFile); err != nil {
				fmt.Printf("Error saving plan: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Plan saved to %s\n", outputFile)
		},
	}

	generateCmd.Flags().StringP("workdir", "w", "", "Project root to analyze (default: current directory)")
	generateCmd.Flags().StringP("config", "c", "", "Path to config file")
	generateCmd.Flags().StringP("output", "o", "", "Save the plan to a file (format from extension)")
	generateCmd.Flags().Bool("skip-analysis", false, "Skip the project analysis phase")
	generateCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")

	return generateCmd
}
