package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/placement/internal/flow"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the teacher dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, flow.StateDashboard)
	},
}
