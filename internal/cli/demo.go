package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/config"
	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/pipeline"
)

func (c *CLI) demoCommand() *cobra.Command {
	var (
		output  string
		repeats map[string]int
		hf      highlightFlags
		of      outputFlags
	)

	cmd := &cobra.Command{
		Use:   "demo [NAME=PATH | PATH]...",
		Short: "Render several scenes back to back into one highlight video",
		Long: `Render several scenes back to back into one highlight video.

Scenes come from the arguments, or from the [[scenes]] tables of the config
file when no arguments are given. Every scene re-derives its segment length
from its own frame count; the output size and frame rate follow the first
scene, and scenes of other sizes are resampled.`,
		Example: `  splitviz demo -o demo.mp4 cube=renders/cube.mp4 sphere=renders/sphere.mp4
  splitviz demo -o demo.mp4 --scene-repeat cube=2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := hf.apply(cmd, &c.cfg.Highlight); err != nil {
				return err
			}
			of.apply(cmd, &c.cfg.Output)
			if len(args) > 0 {
				c.cfg.Scenes = make([]config.Scene, len(args))
				for i, a := range args {
					c.cfg.Scenes[i] = parseSceneArg(a)
				}
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			scenes, err := demoScenes(c.cfg.Scenes, repeats, c.cfg.Highlight.Repeat)
			if err != nil {
				return err
			}
			opts := pipeline.DemoOptions{
				Scenes:   scenes,
				Output:   output,
				Panes:    panes(c.cfg.Highlight),
				Encoding: encoding(c.cfg.Output),
			}

			r, err := c.newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			prog := newProgress(c.Logger)
			res, err := c.runJob(cmd.Context(), r, fmt.Sprintf("Demo (%d scenes)", len(scenes)), func(ctx context.Context) (*pipeline.Result, error) {
				return r.Demo(ctx, opts)
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %d scenes", len(scenes)))
			printResult("Rendered", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "demo.mp4", "output video")
	cmd.Flags().StringToIntVar(&repeats, "scene-repeat", nil, "per-scene repeat as NAME=N")
	hf.bind(cmd, false)
	of.bind(cmd)
	completeFiles(cmd, videoExts, videoExts)

	return cmd
}

// demoScenes converts configured scenes for the pipeline. Repeats named in
// overrides win; a zero repeat inherits def.
func demoScenes(scenes []config.Scene, overrides map[string]int, def int) ([]pipeline.Scene, error) {
	if len(scenes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no scenes: pass NAME=PATH arguments or add [[scenes]] to the config")
	}
	known := make(map[string]bool, len(scenes))
	out := make([]pipeline.Scene, len(scenes))
	for i, s := range scenes {
		known[s.Name] = true
		repeat := s.Repeat
		if n, ok := overrides[s.Name]; ok {
			repeat = n
		}
		if repeat < 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "scene %q: repeat must not be negative", s.Name)
		}
		if repeat == 0 {
			repeat = def
		}
		out[i] = pipeline.Scene{Input: s.Input, Label: s.DisplayLabel(), Repeat: repeat}
	}
	for name := range overrides {
		if !known[name] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "--scene-repeat names unknown scene %q", name)
		}
	}
	return out, nil
}
