// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masonworks/mason/cmd/mason/cmd/console"
	"github.com/masonworks/mason/internal/agent"
	"github.com/masonworks/mason/internal/agent/migrate"
	"github.com/masonworks/mason/internal/agent/planner"
	"github.com/masonworks/mason/internal/core/config"
	"github.com/masonworks/mason/internal/core/logging"
	"github.com/masonworks/mason/internal/core/models"
)

func getExecuteCmd() *cobra.Command {
	executeCmd := &cobra.Command{
		Use:   "execute [plan-file]",
		Short: "Execute a previously saved change plan",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			planFile := args[0]
			workdir, _ := cmd.Flags().GetString("workdir")
			configPath, _ := cmd.Flags().GetString("config")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			verbose, _ := cmd.Flags().GetBool("verbose")
			failFast, _ := cmd.Flags().GetBool("fail-fast")
			skipMigration, _ := cmd.Flags().GetBool("skip-migration")

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

			if verbose {
				fmt.Printf("Loading plan from: %s\n", planFile)
			}
			plan, err := planner.LoadPlanFile(planFile)
			if err != nil {
				fmt.Printf("Error loading plan: %v\n", err)
				os.Exit(1)
			}

			audit := logging.NewAuditLogger(cfg.LogFile)
			defer audit.Close()

			trigger := migrate.NewCommandTrigger(cfg.Migration, workdir).WithVerbose(verbose)

			ag := agent.New(cfg, workdir, nil, trigger).
				WithObserver(&console.Observer{Verbose: verbose}).
				WithAudit(audit)

			if dryRun {
				fmt.Println("Running in dry-run mode - no files will be written")
			}

			result := ag.RunPlan(cmd.Context(), plan, models.ExecutionOptions{
				DryRun:        dryRun,
				Verbose:       verbose,
				FailFast:      failFast,
				SkipMigration: skipMigration,
				WorkingDir:    workdir,
			})

			console.PrintResult(result)

			if !result.Success {
				os.Exit(1)
			}
		},
	}

	executeCmd.Flags().StringP("workdir", "w", "", "Project root to operate on (default: current directory)")
	executeCmd.Flags().StringP("config", "c", "", "Path to config file")
	executeCmd.Flags().BoolP("dry-run", "d", false, "Predict touched files without executing any mutation")
	executeCmd.Flags().BoolP("verbose", "v", false, "Enable verbose output")
	executeCmd.Flags().Bool("fail-fast", false, "Stop at the first failed step instead of continuing")
	executeCmd.Flags().Bool("skip-migration", false, "Never invoke the migration tool")

	return executeCmd
}
