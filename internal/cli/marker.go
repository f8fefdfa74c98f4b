package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/wire"
)

var placeCmd = &cobra.Command{
	Use:   "place [hazard-type]",
	Short: "Place a hazard marker and create its risk row",
	Long: `Place a hazard marker and create its linked risk row.

With --x and --y the marker is anchored on the image at relative coordinates
in [0,1] (values outside are clamped). With --pointer, --x/--y are pixels in
the displayed image (650 px high). Without coordinates the marker is placed
beside the image.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		pointer, _ := cmd.Flags().GetBool("pointer")

		x := changedFloat(cmd, "x")
		y := changedFloat(cmd, "y")

		hazardType := strings.Join(args, " ")
		return wire.AssessmentAdapter().Place(cmd.Context(), path, hazardType, x, y, pointer)
	},
}

var moveCmd = &cobra.Command{
	Use:   "move [marker-id]",
	Short: "Move a marker on the image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")

		return wire.AssessmentAdapter().Move(cmd.Context(), path, args[0], x, y)
	},
}

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Manage hazard markers",
}

var markerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List markers",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		return wire.AssessmentAdapter().ListMarkers(cmd.Context(), path)
	},
}

var markerDeleteCmd = &cobra.Command{
	Use:   "delete [marker-id]",
	Short: "Delete a marker",
	Long: `Delete a marker. If risk rows are linked to it you are asked whether to
delete them too, unless --cascade or --keep-rows is given. Kept rows remain
in the table as unlinked rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		cascade, _ := cmd.Flags().GetBool("cascade")
		keepRows, _ := cmd.Flags().GetBool("keep-rows")

		adapter := wire.AssessmentAdapter()
		linked := 0
		if !cascade && !keepRows {
			linked, err = adapter.LinkedRowCount(cmd.Context(), path, args[0])
			if err != nil {
				return fmt.Errorf("failed to check linked rows: %w", err)
			}
		}

		decision, err := cascadeDecision(cascade, keepRows, linked, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		return adapter.DeleteMarker(cmd.Context(), path, args[0], decision)
	},
}

func init() {
	// place flags
	placeCmd.Flags().Float64("x", 0, "Horizontal position")
	placeCmd.Flags().Float64("y", 0, "Vertical position")
	placeCmd.Flags().Bool("pointer", false, "Interpret --x/--y as display pixels")

	// move flags
	moveCmd.Flags().Float64("x", 0, "Horizontal position in [0,1]")
	moveCmd.Flags().Float64("y", 0, "Vertical position in [0,1]")
	_ = moveCmd.MarkFlagRequired("x")
	_ = moveCmd.MarkFlagRequired("y")

	// marker delete flags
	markerDeleteCmd.Flags().Bool("cascade", false, "Also delete linked rows")
	markerDeleteCmd.Flags().Bool("keep-rows", false, "Keep linked rows as unlinked rows")
	markerDeleteCmd.MarkFlagsMutuallyExclusive("cascade", "keep-rows")

	// Register subcommands
	markerCmd.AddCommand(markerListCmd)
	markerCmd.AddCommand(markerDeleteCmd)
}

// PlaceCmd returns the place command
func PlaceCmd() *cobra.Command {
	return placeCmd
}

// MoveCmd returns the move command
func MoveCmd() *cobra.Command {
	return moveCmd
}

// MarkerCmd returns the marker command
func MarkerCmd() *cobra.Command {
	return markerCmd
}
