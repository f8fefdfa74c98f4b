package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/wire"
)

var hazardCmd = &cobra.Command{
	Use:   "hazard",
	Short: "Manage the hazard library",
	Long:  "The hazard library holds the hazard names offered for placement. It is shared by all assessments.",
}

var hazardAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a hazard name to the library",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.HazardAdapter().Add(cmd.Context(), strings.Join(args, " "))
	},
}

var hazardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the hazard library",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.HazardAdapter().List(cmd.Context())
	},
}

func init() {
	// Register subcommands
	hazardCmd.AddCommand(hazardAddCmd)
	hazardCmd.AddCommand(hazardListCmd)
}

// HazardCmd returns the hazard command
func HazardCmd() *cobra.Command {
	return hazardCmd
}
