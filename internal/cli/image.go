package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/riskmap/internal/wire"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage the machine image",
}

var imageSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the machine image from a file or a URL",
	Long: `Set the machine image. The image bytes are embedded in the assessment.
PNG, JPEG, GIF, BMP, TIFF and WebP are accepted. A failed import leaves the
assessment unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := documentPath(cmd)
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("image")
		url, _ := cmd.Flags().GetString("url")

		return wire.AssessmentAdapter().SetImage(cmd.Context(), path, file, url)
	},
}

func init() {
	// image set flags
	imageSetCmd.Flags().String("image", "", "Local image file")
	imageSetCmd.Flags().String("url", "", "Remote image URL")
	imageSetCmd.MarkFlagsMutuallyExclusive("image", "url")
	imageSetCmd.MarkFlagsOneRequired("image", "url")

	// Register subcommands
	imageCmd.AddCommand(imageSetCmd)
}

// ImageCmd returns the image command
func ImageCmd() *cobra.Command {
	return imageCmd
}
