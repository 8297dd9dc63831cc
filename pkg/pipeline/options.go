package pipeline

import (
	"image"
	"image/color"

	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/schedule"
	"github.com/matzehuels/splitviz/pkg/title"
	"github.com/matzehuels/splitviz/pkg/video"
)

// Encoding configures output timing and the encoder.
type Encoding struct {
	FPS         float64 `json:"fps"`          // 0 keeps the source rate
	FallbackFPS float64 `json:"fallback_fps"` // used when the source rate is indeterminate
	Codec       string  `json:"codec"`
	Bitrate     string  `json:"bitrate"`
	CRF         int     `json:"crf"`
	Preset      string  `json:"preset"`
}

// rate picks the output frame rate given the source's own rate.
func (e Encoding) rate(source func(fallback float64) (float64, error)) (float64, error) {
	if e.FPS > 0 {
		return e.FPS, nil
	}
	return source(e.FallbackFPS)
}

func (e Encoding) encoderOptions(size image.Point, fps float64) video.EncoderOptions {
	return video.EncoderOptions{
		Width:     size.X,
		Height:    size.Y,
		FrameRate: fps,
		Codec:     e.Codec,
		Bitrate:   e.Bitrate,
		CRF:       e.CRF,
		Preset:    e.Preset,
	}
}

func (e Encoding) validate() error {
	if e.FPS < 0 || e.FallbackFPS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "frame rates must not be negative")
	}
	return nil
}

// Panes describes how source frames are split and labelled.
type Panes struct {
	Count           int                `json:"count"`
	BaselinePane    int                `json:"baseline_pane"`
	BaselineLabel   string             `json:"baseline_label"`
	Features        []schedule.Feature `json:"features"`
	CrossfadeFrames int                `json:"crossfade_frames"`
	FontPath        string             `json:"font_path,omitempty"`
}

func (p Panes) validate() error {
	if p.Count < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "pane count must be >= 2, got %d", p.Count)
	}
	if len(p.Features) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no features configured")
	}
	if p.BaselinePane < 0 || p.BaselinePane >= p.Count {
		return errors.New(errors.ErrCodeInvalidConfig, "baseline pane %d outside %d panes", p.BaselinePane, p.Count)
	}
	for _, f := range p.Features {
		if f.Pane < 0 || f.Pane >= p.Count {
			return errors.New(errors.ErrCodeInvalidConfig, "feature %q: pane %d outside %d panes", f.Label, f.Pane, p.Count)
		}
	}
	if p.CrossfadeFrames < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "crossfade frames must be >= 0")
	}
	return nil
}

// HighlightOptions configures a single-clip highlight render.
type HighlightOptions struct {
	Input    string   `json:"input"`
	Output   string   `json:"output"`
	Scene    string   `json:"scene"` // bottom-left label
	Repeat   int      `json:"repeat"`
	Rederive bool     `json:"rederive"` // total = segment_length * features
	Panes    Panes    `json:"panes"`
	Encoding Encoding `json:"encoding"`
}

func (o *HighlightOptions) validate() error {
	if o.Input == "" || o.Output == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "input and output are required")
	}
	if o.Repeat == 0 {
		o.Repeat = 1
	}
	if err := o.Panes.validate(); err != nil {
		return err
	}
	return o.Encoding.validate()
}

// Scene is one input of a demo.
type Scene struct {
	Input  string `json:"input"`
	Label  string `json:"label"`
	Repeat int    `json:"repeat"`
}

// DemoOptions configures a multi-scene demo. Every scene uses re-derived
// segment plans; the output size is the first scene's pane size.
type DemoOptions struct {
	Scenes   []Scene  `json:"scenes"`
	Output   string   `json:"output"`
	Panes    Panes    `json:"panes"`
	Encoding Encoding `json:"encoding"`
}

func (o *DemoOptions) validate() error {
	if len(o.Scenes) == 0 || o.Output == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "demo needs scenes and an output")
	}
	for i := range o.Scenes {
		s := &o.Scenes[i]
		if s.Input == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "scene %d has no input", i)
		}
		if s.Repeat < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "scene %q: negative repeat", s.Label)
		}
		if s.Repeat == 0 {
			s.Repeat = 1
		}
	}
	if err := o.Panes.validate(); err != nil {
		return err
	}
	return o.Encoding.validate()
}

// TitleOptions configures the title overlay job.
type TitleOptions struct {
	Input        string       `json:"input"`
	Output       string       `json:"output"`
	Word         string       `json:"word"`
	Subtitle     string       `json:"subtitle"`
	FontPath     string       `json:"font_path,omitempty"`
	WordSize     float64      `json:"word_size"`
	SubtitleSize float64      `json:"subtitle_size"`
	LineSpacing  int          `json:"line_spacing"`
	Stops        []color.RGBA `json:"stops"`
	Period       float64      `json:"period"`
	Duration     float64      `json:"duration"`
	Fade         float64      `json:"fade"`
	Encoding     Encoding     `json:"encoding"`
}

func (o *TitleOptions) validate() error {
	if o.Input == "" || o.Output == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "input and output are required")
	}
	if o.Period == 0 {
		o.Period = title.DefaultPeriod
	}
	if err := (title.Envelope{Duration: o.Duration, Fade: o.Fade}).Validate(); err != nil {
		return err
	}
	return o.Encoding.validate()
}
