package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/ports/primary"
	"github.com/example/riskmap/internal/wire"
)

var rowCmd = &cobra.Command{
	Use:   "row",
	Short: "Manage risk rows",
}

var rowListCmd = &cobra.Command{
	Use:   "list",
	Short: "List risk rows with their derived risk",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		return wire.AssessmentAdapter().ListRows(cmd.Context(), path)
	},
}

// rowFields maps flag names to the request field they fill.
var rowFields = []struct {
	flag  string
	usage string
	set   func(req *primary.UpdateRowRequest, v *string)
}{
	{"hazard", "Hazard type", func(r *primary.UpdateRowRequest, v *string) { r.HazardType = v }},
	{"scenario", "Hazardous scenario", func(r *primary.UpdateRowRequest, v *string) { r.Scenario = v }},
	{"s", "Severity before measures", func(r *primary.UpdateRowRequest, v *string) { r.SeverityBefore = v }},
	{"p", "Probability before measures", func(r *primary.UpdateRowRequest, v *string) { r.ProbabilityBefore = v }},
	{"measures", "Risk reduction measures", func(r *primary.UpdateRowRequest, v *string) { r.Measures = v }},
	{"sr", "Residual severity", func(r *primary.UpdateRowRequest, v *string) { r.SeverityAfter = v }},
	{"pr", "Residual probability", func(r *primary.UpdateRowRequest, v *string) { r.ProbabilityAfter = v }},
	{"comments", "Comments", func(r *primary.UpdateRowRequest, v *string) { r.Comments = v }},
}

var rowUpdateCmd = &cobra.Command{
	Use:   "update [row-id]",
	Short: "Edit a risk row",
	Long: `Edit the fields of a risk row. Only the flags given are changed; pass an
empty value (e.g. --s "") to clear a score.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}

		req := primary.UpdateRowRequest{Path: path, RowID: args[0]}
		for _, f := range rowFields {
			if !cmd.Flags().Changed(f.flag) {
				continue
			}
			v, _ := cmd.Flags().GetString(f.flag)
			f.set(&req, &v)
		}
		return wire.AssessmentAdapter().UpdateRow(cmd.Context(), req)
	},
}

var rowDeleteCmd = &cobra.Command{
	Use:   "delete [row-id]",
	Short: "Delete a risk row (its marker is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		return wire.AssessmentAdapter().DeleteRow(cmd.Context(), path, args[0])
	},
}

func init() {
	// row update flags
	for _, f := range rowFields {
		rowUpdateCmd.Flags().String(f.flag, "", f.usage)
	}

	// Register subcommands
	rowCmd.AddCommand(rowListCmd)
	rowCmd.AddCommand(rowUpdateCmd)
	rowCmd.AddCommand(rowDeleteCmd)
}

// RowCmd returns the row command
func RowCmd() *cobra.Command {
	return rowCmd
}
