// Package config holds the explicit configuration record for splitviz
// renders.
//
// A [Config] starts from [Default], which reproduces the original demo
// values, is optionally overlaid with a TOML file and environment
// variables, and is then checked by [Config.Validate]. The CLI applies its
// flags on top before handing the record to the pipeline.
//
//	cfg, err := config.Load("splitviz.toml")
//	if err != nil {
//	    return err
//	}
//	cfg.ApplyEnv(os.Getenv)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config

import (
	"image/color"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/schedule"
	"github.com/matzehuels/splitviz/pkg/title"
)

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = "splitviz.toml"

// Environment variables that override binary locations.
const (
	EnvFFmpeg  = "SPLITVIZ_FFMPEG"
	EnvFFprobe = "SPLITVIZ_FFPROBE"
)

// Config is the full render configuration.
type Config struct {
	Highlight Highlight `toml:"highlight"`
	Scenes    []Scene   `toml:"scenes"`
	Title     Title     `toml:"title"`
	Output    Output    `toml:"output"`
	Tools     Tools     `toml:"tools"`
}

// Highlight configures the pane-split compositor.
type Highlight struct {
	Panes           int       `toml:"panes"`
	BaselinePane    int       `toml:"baseline_pane"`
	BaselineLabel   string    `toml:"baseline_label"`
	Features        []Feature `toml:"features"`
	Repeat          int       `toml:"repeat"`
	CrossfadeFrames int       `toml:"crossfade_frames"`
	Rederive        bool      `toml:"rederive"`
	Font            string    `toml:"font"`
}

// Feature maps a pane index to its display label.
type Feature struct {
	Pane  int    `toml:"pane"`
	Label string `toml:"label"`
}

// Scene is one input of a multi-scene demo. A zero Repeat inherits
// Highlight.Repeat.
type Scene struct {
	Name   string `toml:"name"`
	Label  string `toml:"label"`
	Input  string `toml:"input"`
	Repeat int    `toml:"repeat"`
}

// DisplayLabel returns Label, or the name with its first letter upper-cased.
func (s Scene) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	if s.Name == "" {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// Title configures the gradient title overlay.
type Title struct {
	Word         string   `toml:"word"`
	Subtitle     string   `toml:"subtitle"`
	WordSize     float64  `toml:"word_size"`
	SubtitleSize float64  `toml:"subtitle_size"`
	LineSpacing  int      `toml:"line_spacing"`
	Duration     float64  `toml:"duration"`
	Fade         float64  `toml:"fade"`
	Period       float64  `toml:"period"`
	Stops        []string `toml:"stops"`
	Font         string   `toml:"font"`
}

// Output configures encoding and frame timing.
type Output struct {
	FPS         float64 `toml:"fps"`
	FallbackFPS float64 `toml:"fallback_fps"`
	Codec       string  `toml:"codec"`
	Bitrate     string  `toml:"bitrate"`
	CRF         int     `toml:"crf"`
	Preset      string  `toml:"preset"`
	Workers     int     `toml:"workers"`
}

// Tools locates the external binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Default returns the configuration of the original research demo.
func Default() Config {
	return Config{
		Highlight: Highlight{
			Panes:         5,
			BaselinePane:  0,
			BaselineLabel: "RGB",
			Features: []Feature{
				{Pane: 1, Label: "Material"},
				{Pane: 2, Label: "Young E"},
				{Pane: 3, Label: "Density"},
				{Pane: 4, Label: "Poisson"},
			},
			Repeat: 1,
		},
		Title: Title{
			Word:         "Pixie",
			Subtitle:     "Physics from Pixels",
			WordSize:     320,
			SubtitleSize: 144,
			LineSpacing:  20,
			Duration:     3.0,
			Fade:         0.5,
			Period:       title.DefaultPeriod,
			Stops:        []string{"#ff6ec4", "#7873f5", "#ff6ec4"},
		},
		Output: Output{
			FPS:     30,
			Codec:   "libx264",
			Bitrate: "8M",
			Workers: runtime.GOMAXPROCS(0),
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
	}
}

// Load decodes a TOML file over [Default]. An empty path reads FileName
// from the working directory if it exists and returns the defaults
// otherwise. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(FileName); err != nil {
			return cfg, nil
		}
		path = FileName
	}

	// Lists replace the defaults instead of merging into them.
	cfg.Highlight.Features = nil
	cfg.Title.Stops = nil

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown keys in %s: %s", path, strings.Join(names, ", "))
	}

	def := Default()
	if !md.IsDefined("highlight", "features") {
		cfg.Highlight.Features = def.Highlight.Features
	}
	if !md.IsDefined("title", "stops") {
		cfg.Title.Stops = def.Title.Stops
	}
	return cfg, nil
}

// ApplyEnv overrides tool paths from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvFFmpeg); v != "" {
		c.Tools.FFmpeg = v
	}
	if v := getenv(EnvFFprobe); v != "" {
		c.Tools.FFprobe = v
	}
}

// Validate checks every bound and reports the first violation as an
// INVALID_CONFIG error.
func (c Config) Validate() error {
	if err := c.Highlight.validate(); err != nil {
		return err
	}
	for i, s := range c.Scenes {
		if s.Name == "" || s.Input == "" {
			return invalid("scene %d needs a name and an input", i)
		}
		if s.Repeat < 0 {
			return invalid("scene %q: repeat must not be negative, got %d", s.Name, s.Repeat)
		}
	}
	if err := c.Title.validate(); err != nil {
		return err
	}
	return c.Output.validate()
}

func (h Highlight) validate() error {
	switch {
	case h.Panes < 2:
		return invalid("panes must be >= 2, got %d", h.Panes)
	case h.BaselinePane < 0 || h.BaselinePane >= h.Panes:
		return invalid("baseline pane %d outside [0, %d)", h.BaselinePane, h.Panes)
	case len(h.Features) == 0:
		return invalid("at least one feature is required")
	case h.Repeat < 1:
		return invalid("repeat must be >= 1, got %d", h.Repeat)
	case h.CrossfadeFrames < 0:
		return invalid("crossfade frames must be >= 0, got %d", h.CrossfadeFrames)
	}
	for _, f := range h.Features {
		if f.Pane < 0 || f.Pane >= h.Panes {
			return invalid("feature %q: pane %d outside [0, %d)", f.Label, f.Pane, h.Panes)
		}
	}
	return nil
}

func (t Title) validate() error {
	switch {
	case t.Word == "":
		return invalid("title word is empty")
	case t.WordSize <= 0:
		return invalid("title word size must be positive")
	case t.Subtitle != "" && t.SubtitleSize <= 0:
		return invalid("title subtitle size must be positive")
	case t.LineSpacing < 0:
		return invalid("title line spacing must be >= 0")
	case t.Period <= 0:
		return invalid("gradient period must be positive")
	}
	if err := t.Envelope().Validate(); err != nil {
		return err
	}
	_, err := t.Gradient()
	return err
}

func (o Output) validate() error {
	switch {
	case o.FPS <= 0:
		return invalid("output fps must be positive, got %g", o.FPS)
	case o.FallbackFPS < 0:
		return invalid("fallback fps must be >= 0, got %g", o.FallbackFPS)
	case o.CRF < 0 || o.CRF > 51:
		return invalid("crf must be within [0, 51], got %d", o.CRF)
	case o.Workers < 0:
		return invalid("workers must be >= 0, got %d", o.Workers)
	}
	return nil
}

// ScheduleFeatures converts the feature list for the scheduler.
func (h Highlight) ScheduleFeatures() []schedule.Feature {
	out := make([]schedule.Feature, len(h.Features))
	for i, f := range h.Features {
		out[i] = schedule.Feature{Pane: f.Pane, Label: f.Label}
	}
	return out
}

// Envelope returns the title fade envelope.
func (t Title) Envelope() title.Envelope {
	return title.Envelope{Duration: t.Duration, Fade: t.Fade}
}

// Gradient parses the hex stops into a title gradient.
func (t Title) Gradient() (title.Gradient, error) {
	stops, err := ParseStops(t.Stops)
	if err != nil {
		return title.Gradient{}, err
	}
	return title.NewGradient(stops, t.Period)
}

// ParseStops parses "#rrggbb" color strings.
func ParseStops(hex []string) ([]color.RGBA, error) {
	out := make([]color.RGBA, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "gradient stop %q", h)
		}
		r, g, b := c.RGB255()
		out[i] = color.RGBA{r, g, b, 0xff}
	}
	return out, nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}
