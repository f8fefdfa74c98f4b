package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/cli"
	"github.com/example/riskmap/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "riskmap",
		Short:   "riskmap - machine hazard risk assessment (EN 12100)",
		Version: version.String(),
		Long: `riskmap builds machine risk assessments: hazard markers placed on a photo
of the machine, each linked to a row of the risk table scored as
severity x probability before and after risk reduction measures.`,
		SilenceUsage:      true,
		PersistentPreRunE: cli.Setup,
	}

	rootCmd.PersistentFlags().StringP("file", "f", "", "Assessment file (defaults to the current one)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Document commands
	rootCmd.AddCommand(cli.NewCmd())
	rootCmd.AddCommand(cli.OpenCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.RenameCmd())
	rootCmd.AddCommand(cli.ThresholdsCmd())
	rootCmd.AddCommand(cli.ExportCmd())
	rootCmd.AddCommand(cli.SummaryCmd())

	// Marker and row commands
	rootCmd.AddCommand(cli.PlaceCmd())
	rootCmd.AddCommand(cli.MoveCmd())
	rootCmd.AddCommand(cli.MarkerCmd())
	rootCmd.AddCommand(cli.RowCmd())
	rootCmd.AddCommand(cli.ImageCmd())

	// Hazard library
	rootCmd.AddCommand(cli.HazardCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
