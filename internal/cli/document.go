package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/wire"
)

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create a new risk assessment",
	Long:  "Create an empty assessment. Scoring settings are carried over from the last saved assessment.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		force, _ := cmd.Flags().GetBool("force")

		if err := wire.AssessmentAdapter().New(cmd.Context(), args[0], title, force); err != nil {
			return err
		}
		return rememberDocument(args[0])
	},
}

var openCmd = &cobra.Command{
	Use:   "open [path]...",
	Short: "Open an assessment file and make it current",
	Long:  "Open an assessment file, repairing missing or malformed sections. When several paths are given the first one is used.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := wire.AssessmentAdapter().Open(cmd.Context(), args)
		if err != nil {
			return err
		}
		return rememberDocument(path)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		return wire.AssessmentAdapter().Show(cmd.Context(), path)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [title]",
	Short: "Change the assessment title",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		return wire.AssessmentAdapter().Rename(cmd.Context(), path, args[0])
	},
}

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Set the risk band thresholds",
	Long: `Set the thresholds that split risk values into bands:
  value <= low     -> low
  value <= medium  -> moderate
  value >  medium  -> high

Only the thresholds given are changed; the others keep their current value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		low := changedFloat(cmd, "low")
		medium := changedFloat(cmd, "medium")
		high := changedFloat(cmd, "high")
		if low == nil && medium == nil && high == nil {
			return fmt.Errorf("at least one of --low, --medium or --high is required")
		}

		return wire.AssessmentAdapter().Thresholds(cmd.Context(), path, low, medium, high)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the risk rows as delimited text",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")

		if output == "" || output == "-" {
			return wire.AssessmentAdapter().Export(cmd.Context(), path, cmd.OutOrStdout(), "")
		}

		return writeFileAtomic(output, func(w io.Writer) error {
			return wire.AssessmentAdapter().Export(cmd.Context(), path, w, output)
		})
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize risk bands and values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		return wire.AssessmentAdapter().Summary(cmd.Context(), path)
	},
}

func init() {
	// new flags
	newCmd.Flags().StringP("title", "t", "", "Assessment title")
	newCmd.Flags().Bool("force", false, "Overwrite an existing file")

	// thresholds flags
	thresholdsCmd.Flags().Float64("low", 0, "Upper bound of the low band")
	thresholdsCmd.Flags().Float64("medium", 0, "Upper bound of the moderate band")
	thresholdsCmd.Flags().Float64("high", 0, "High threshold (informational)")

	// export flags
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}

// NewCmd returns the new command
func NewCmd() *cobra.Command {
	return newCmd
}

// OpenCmd returns the open command
func OpenCmd() *cobra.Command {
	return openCmd
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return showCmd
}

// RenameCmd returns the rename command
func RenameCmd() *cobra.Command {
	return renameCmd
}

// ThresholdsCmd returns the thresholds command
func ThresholdsCmd() *cobra.Command {
	return thresholdsCmd
}

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	return exportCmd
}

// SummaryCmd returns the summary command
func SummaryCmd() *cobra.Command {
	return summaryCmd
}
