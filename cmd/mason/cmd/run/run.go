// SPDX-License-Identifier: Apache-2.0

package run

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/masonworks/mason/cmd/mason/cmd/console"
	"github.com/masonworks/mason/internal/agent"
	"github.com/masonworks/mason/internal/agent/migrate"
	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/format"
	"github.com/masonworks/mason/internal/core/logging"
	"github.com/masonworks/mason/internal/core/models"
)

// GetRunCmd builds the `mason run` command: the full pipeline from query to
// executed plan.
func GetRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run [query]",
		Short: "Execute a change request against the project",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			workdir, _ := cmd.Flags().GetString("workdir")
			configPath, _ := cmd.Flags().GetString("config")
			planFile, _ := cmd.Flags().GetString("plan-file")
			outputFile, _ := cmd.Flags().GetString("output")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			verbose, _ := cmd.Flags().GetBool("verbose")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			skipAnalysis, _ := cmd.Flags().GetBool("skip-analysis")
			skipMigration, _ := cmd.Flags().GetBool("skip-migration")

			if planFile == "" && len(args) == 0 {
				fmt.Println("Error: a query argument or --plan-file is required")
				os.Exit(1)
			}

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

			logFile := config.ExpandPathWithTilde(cfg.LogFile)
			if !filepath.IsAbs(logFile) {
				logFile = filepath.Join(workdir, logFile)
			}
			audit := logging.NewAuditLogger(logFile)
			defer audit.Close()

			var source planner.PlanSource
			if planFile == "" {
				source, err = planner.NewFromConfig(cfg.Planner)
				if err != nil {
					fmt.Printf("Error creating plan source: %v\n", err)
					os.Exit(1)
				}
			}

			trigger := migrate.NewCommandTrigger(cfg.Migration, workdir).WithVerbose(verbose)

			ag := agent.New(cfg, workdir, source, trigger).
				WithObserver(&console.Observer{Verbose: verbose}).
				WithAudit(audit)

			options := models.ExecutionOptions{
				DryRun:        dryRun,
				Verbose:       verbose,
				FailFast:      failFast,
				SkipMigration: skipMigration,
				WorkingDir:    workdir,
			}

			if dryRun {
				fmt.Println("Running in dry-run mode - no files will be written")
			}

			var result *models.AgentResult
			if planFile != "" {
				plan, err := planner.LoadPlanFile(planFile)
				if err != nil {
					fmt.Printf("Error loading plan: %v\n", err)
					os.Exit(1)
				}
				result = ag.RunPlan(cmd.Context(), plan, options)
			} else {
				request := models.AgentRequest{
					Query:         args[0],
					SkipAnalysis:  skipAnalysis,
					SkipMigration: skipMigration,
				}
				result = ag.Run(cmd.Context(), request, options)
			}

			console.PrintResult(result)

			if outputFile != "" {
				if err := format.WriteFile(outputFile, result); err != nil {
					fmt.Printf("Error writing result file: %v\n", err)
					os.Exit(1)
				}
			}

			if !result.Success {
				os.Exit(1)
			}
		},
	}

	runCmd.Flags().StringP("workdir", "w", "", "Project root to operate on (default: current directory)")
	runCmd.Flags().StringP("config", "c", "", "Path to config file")
	runCmd.Flags().String("plan-file", "", "Execute a saved plan instead of asking the planning service")
	runCmd.Flags().StringP("output", "o", "", "Write the run result to a file (format from extension)")
	runCmd.Flags().BoolP("dry-run", "d", false, "Predict touched files without executing any mutation")
	runCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	runCmd.Flags().Bool("fail-fast", false, "Stop at the first failed step instead of continuing")
	runCmd.Flags().Bool("skip-analysis", false, "Skip the project analysis phase")
	runCmd.Flags().Bool("skip-migration", false, "Never invoke the migration tool")

	return runCmd
}
