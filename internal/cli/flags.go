package cli

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitviz/pkg/config"
	"github.com/matzehuels/splitviz/pkg/errors"
)

// highlightFlags override [config.Highlight] when set on the command line.
type highlightFlags struct {
	panes         int
	baselineLabel string
	features      []string
	repeat        int
	crossfade     int
	rederive      bool
	font          string
}

func (f *highlightFlags) bind(cmd *cobra.Command, withRepeat bool) {
	fs := cmd.Flags()
	fs.IntVar(&f.panes, "panes", 0, "number of side-by-side panes in each input frame")
	fs.StringVar(&f.baselineLabel, "baseline-label", "", "label drawn over the left half")
	fs.StringArrayVar(&f.features, "feature", nil, `feature pane as "PANE:LABEL" (repeatable, replaces the configured list)`)
	fs.IntVar(&f.crossfade, "crossfade", 0, "crossfade frames at each side of a segment boundary")
	fs.StringVar(&f.font, "font", "", "TrueType font for labels, .ttf or .ttc (default: embedded Go Medium)")
	if withRepeat {
		fs.IntVar(&f.repeat, "repeat", 0, "number of passes over the feature list")
		fs.BoolVar(&f.rederive, "rederive", false, "segment length = source frames / features x repeat")
	}
}

func (f *highlightFlags) apply(cmd *cobra.Command, h *config.Highlight) error {
	fs := cmd.Flags()
	if fs.Changed("panes") {
		h.Panes = f.panes
	}
	if fs.Changed("baseline-label") {
		h.BaselineLabel = f.baselineLabel
	}
	if fs.Changed("feature") {
		features, err := parseFeatures(f.features)
		if err != nil {
			return err
		}
		h.Features = features
	}
	if fs.Changed("repeat") {
		h.Repeat = f.repeat
	}
	if fs.Changed("crossfade") {
		h.CrossfadeFrames = f.crossfade
	}
	if fs.Changed("rederive") {
		h.Rederive = f.rederive
	}
	if fs.Changed("font") {
		h.Font = f.font
	}
	return nil
}

// outputFlags override [config.Output].
type outputFlags struct {
	fps         float64
	fallbackFPS float64
	codec       string
	bitrate     string
	crf         int
	preset      string
}

func (f *outputFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.fps, "fps", 0, "output frame rate")
	fs.Float64Var(&f.fallbackFPS, "fallback-fps", 0, "frame rate assumed when the source rate is indeterminate")
	fs.StringVar(&f.codec, "codec", "", "ffmpeg video codec")
	fs.StringVar(&f.bitrate, "bitrate", "", `target bitrate, e.g. "8M"`)
	fs.IntVar(&f.crf, "crf", 0, "constant rate factor, used instead of the bitrate")
	fs.StringVar(&f.preset, "preset", "", "encoder preset")
}

func (f *outputFlags) apply(cmd *cobra.Command, o *config.Output) {
	fs := cmd.Flags()
	if fs.Changed("fps") {
		o.FPS = f.fps
	}
	if fs.Changed("fallback-fps") {
		o.FallbackFPS = f.fallbackFPS
	}
	if fs.Changed("codec") {
		o.Codec = f.codec
	}
	if fs.Changed("bitrate") {
		o.Bitrate = f.bitrate
	}
	if fs.Changed("crf") {
		o.CRF = f.crf
		if !fs.Changed("bitrate") {
			o.Bitrate = ""
		}
	}
	if fs.Changed("preset") {
		o.Preset = f.preset
	}
}

// parseFeatures parses "PANE:LABEL" values such as "1:Material".
func parseFeatures(values []string) ([]config.Feature, error) {
	out := make([]config.Feature, 0, len(values))
	for _, v := range values {
		idx, label, ok := strings.Cut(v, ":")
		if !ok || strings.TrimSpace(label) == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "feature %q: want PANE:LABEL", v)
		}
		pane, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "feature %q: bad pane index", v)
		}
		out = append(out, config.Feature{Pane: pane, Label: strings.TrimSpace(label)})
	}
	return out, nil
}

// parseSceneArg parses "NAME=PATH" or a bare PATH named after its file.
func parseSceneArg(arg string) config.Scene {
	if name, path, ok := strings.Cut(arg, "="); ok && name != "" && !strings.ContainsRune(name, filepath.Separator) {
		return config.Scene{Name: name, Input: path}
	}
	return config.Scene{Name: stem(arg), Input: arg}
}

// stem returns the file name of path without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sceneLabel derives a display label from an input path: "renders/cube.mp4"
// becomes "Cube".
func sceneLabel(path string) string {
	return config.Scene{Name: stem(path)}.DisplayLabel()
}

// defaultOutput names the output next to the input: "cube.mp4" with suffix
// "highlight" becomes "cube_highlight.mp4".
func defaultOutput(input, suffix string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		ext = ".mp4"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_" + suffix + ext
}
