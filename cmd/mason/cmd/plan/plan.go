// SPDX-License-Identifier: Apache-2.0

package plan

import (
	"github.com/spf13/cobra"
)

// GetPlanCmd builds the `mason plan` command group.
func GetPlanCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and execute change plans",
	}

	planCmd.AddCommand(getGenerateCmd())
	planCmd.AddCommand(getExecuteCmd())

	return planCmd
}
