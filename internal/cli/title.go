package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/config"
	"github.com/matzehuels/splitviz/pkg/pipeline"
)

// titleFlags override [config.Title].
type titleFlags struct {
	word         string
	subtitle     string
	font         string
	wordSize     float64
	subtitleSize float64
	duration     float64
	fade         float64
	period       float64
	stops        []string
}

func (f *titleFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.word, "word", "", "title word drawn with the moving gradient")
	fs.StringVar(&f.subtitle, "subtitle", "", "white subtitle line (empty to omit)")
	fs.StringVar(&f.font, "font", "", "TrueType/OpenType font, .ttf .otf .ttc or .otc (default: embedded Go Bold)")
	fs.Float64Var(&f.wordSize, "word-size", 0, "title font size in pixels")
	fs.Float64Var(&f.subtitleSize, "subtitle-size", 0, "subtitle font size in pixels")
	fs.Float64Var(&f.duration, "duration", 0, "seconds the title is visible")
	fs.Float64Var(&f.fade, "fade", 0, "fade-in and fade-out seconds")
	fs.Float64Var(&f.period, "period", 0, "seconds for the gradient to scroll one full cycle")
	fs.StringSliceVar(&f.stops, "stops", nil, `gradient stops, e.g. "#ff6ec4,#7873f5,#ff6ec4"`)
}

func (f *titleFlags) apply(cmd *cobra.Command, t *config.Title) {
	fs := cmd.Flags()
	if fs.Changed("word") {
		t.Word = f.word
	}
	if fs.Changed("subtitle") {
		t.Subtitle = f.subtitle
	}
	if fs.Changed("font") {
		t.Font = f.font
	}
	if fs.Changed("word-size") {
		t.WordSize = f.wordSize
	}
	if fs.Changed("subtitle-size") {
		t.SubtitleSize = f.subtitleSize
	}
	if fs.Changed("duration") {
		t.Duration = f.duration
	}
	if fs.Changed("fade") {
		t.Fade = f.fade
	}
	if fs.Changed("period") {
		t.Period = f.period
	}
	if fs.Changed("stops") {
		t.Stops = f.stops
	}
}

func (c *CLI) titleCommand() *cobra.Command {
	var (
		output string
		tf     titleFlags
		of     outputFlags
	)

	cmd := &cobra.Command{
		Use:   "title INPUT",
		Short: "Overlay the animated gradient title on a video",
		Long: `Overlay the animated gradient title on a video.

The title word is filled with a horizontally scrolling color gradient and
the subtitle is drawn in white below it. The block fades in and out over
the configured duration; later frames pass through untouched. The output
keeps the source frame rate unless --fps is given.`,
		Example: `  splitviz title demo.mp4 -o demo_titled.mp4
  splitviz title demo.mp4 --word Pixie --subtitle "Physics from Pixels" --duration 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			tf.apply(cmd, &c.cfg.Title)
			of.apply(cmd, &c.cfg.Output)
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			if output == "" {
				output = defaultOutput(input, "titled")
			}

			opts, err := titleOptions(c.cfg.Title, input, output)
			if err != nil {
				return err
			}
			opts.Encoding = encoding(c.cfg.Output)
			if !cmd.Flags().Changed("fps") {
				opts.Encoding.FPS = 0
			}

			r, err := c.newRunner()
			if err != nil {
				return err
			}
			defer r.Close()

			prog := newProgress(c.Logger)
			res, err := c.runJob(cmd.Context(), r, "Title "+c.cfg.Title.Word, func(ctx context.Context) (*pipeline.Result, error) {
				return r.Title(ctx, opts)
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Titled %s", input))
			printResult("Rendered", res)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output video (default INPUT_titled.mp4)")
	tf.bind(cmd)
	of.bind(cmd)
	completeFiles(cmd, videoExts, videoExts)

	return cmd
}

func titleOptions(t config.Title, input, output string) (pipeline.TitleOptions, error) {
	stops, err := config.ParseStops(t.Stops)
	if err != nil {
		return pipeline.TitleOptions{}, err
	}
	return pipeline.TitleOptions{
		Input:        input,
		Output:       output,
		Word:         t.Word,
		Subtitle:     t.Subtitle,
		FontPath:     t.Font,
		WordSize:     t.WordSize,
		SubtitleSize: t.SubtitleSize,
		LineSpacing:  t.LineSpacing,
		Stops:        stops,
		Period:       t.Period,
		Duration:     t.Duration,
		Fade:         t.Fade,
	}, nil
}
