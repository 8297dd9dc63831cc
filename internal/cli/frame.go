package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/video"
)

func (c *CLI) frameCommand() *cobra.Command {
	var (
		output string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "frame INPUT",
		Short: "Save the first frame of a video as an image",
		Long: `Save the first frame of a video as an image. The format follows the output
extension (png, jpg, gif, tif, bmp). --width scales the frame proportionally,
which is handy for README thumbnails.`,
		Example: `  splitviz frame demo.mp4 -o thumb.png --width 480`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = stem(args[0]) + ".png"
			}
			prog := newProgress(c.Logger)
			if err := video.ExtractFirstFrame(cmd.Context(), args[0], output, width); err != nil {
				return err
			}
			prog.done("Extracted first frame")
			printSuccess("Saved")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output image (default INPUT.png)")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "scale to this width in pixels (0 keeps the source size)")
	completeFiles(cmd, videoExts, imageExts)
	return cmd
}
