package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/pipeline"
)

func (c *CLI) highlightCommand() *cobra.Command {
	var (
		output string
		scene  string
		hf     highlightFlags
		of     outputFlags
	)

	cmd := &cobra.Command{
		Use:   "highlight INPUT",
		Short: "Render a pane-split highlight video from one multi-pane clip",
		Long: `Render a pane-split highlight video from one multi-pane clip.

Each input frame holds several panes side by side. The output is one pane
wide: the left half shows the baseline pane, the right half cycles through
the feature panes, each with its label, and the scene label sits bottom left.`,
		Example: `  splitviz highlight renders/cube.mp4 -o cube_highlight.mp4
  splitviz highlight cube.mp4 --feature 1:Material --feature 3:Density --repeat 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if err := hf.apply(cmd, &c.cfg.Highlight); err != nil {
				return err
			}
			of.apply(cmd, &c.cfg.Output)
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			if scene == "" {
				scene = sceneLabel(input)
			}
			if output == "" {
				output = defaultOutput(input, "highlight")
			}

			h := c.cfg.Highlight
			opts := pipeline.HighlightOptions{
				Input:    input,
				Output:   output,
				Scene:    scene,
				Repeat:   h.Repeat,
				Rederive: h.Rederive,
				Panes:    panes(h),
				Encoding: encoding(c.cfg.Output),
			}

			r, err := c.newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			prog := newProgress(c.Logger)
			res, err := c.runJob(cmd.Context(), r, "Highlight "+scene, func(ctx context.Context) (*pipeline.Result, error) {
				return r.Highlight(ctx, opts)
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %s", scene))
			printResult("Rendered", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output video (default INPUT_highlight.mp4)")
	cmd.Flags().StringVar(&scene, "scene", "", "scene label drawn bottom left (default from the file name)")
	hf.bind(cmd, true)
	of.bind(cmd)
	completeFiles(cmd, videoExts, videoExts)

	return cmd
}
