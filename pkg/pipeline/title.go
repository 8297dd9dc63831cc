package pipeline

import (
	"context"
	"image"

	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/fonts"
	"github.com/matzehuels/splitviz/pkg/title"
)

// Title overlays the animated title on the first Duration seconds of the
// input video. Frame times come from the source rate, falling back to
// Encoding.FallbackFPS when it is indeterminate.
func (r *Runner) Title(ctx context.Context, opts TitleOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return r.cached(ctx, "title", []string{opts.Input}, opts, opts.Output, func(string) (*Result, error) {
		comp, err := newTitleCompositor(opts)
		if err != nil {
			return nil, err
		}

		seq, err := r.open(ctx, opts.Input)
		if err != nil {
			return nil, err
		}
		if seq.Len() == 0 {
			return nil, errors.New(errors.ErrCodeSourceUnavailable, "%s has no frames", opts.Input)
		}
		timebase, err := seq.FrameRateOr(opts.Encoding.FallbackFPS)
		if err != nil {
			return nil, err
		}
		fps := timebase
		if opts.Encoding.FPS > 0 {
			fps = opts.Encoding.FPS
		}

		r.Logger.Debug("title layout",
			"canvas", comp.Size(),
			"position", comp.Position(seq.Frame(0).Bounds().Size()),
			"timebase", timebase)

		size := seq.Frame(0).Bounds().Size()
		render := func(i int) (*image.RGBA, error) {
			return comp.Compose(seq.Frame(i), float64(i)/timebase), nil
		}
		frames, err := r.encode(ctx, opts.Output, opts.Encoding.encoderOptions(size, fps), func(sink Sink) (int, error) {
			_, err := r.emit(ctx, sink, "title", seq.Len(), render)
			return seq.Len(), err
		})
		if err != nil {
			return nil, err
		}
		return &Result{Output: opts.Output, Frames: frames, FrameRate: fps, Size: size}, nil
	})
}

type titleCompositor struct {
	*title.Compositor
	renderer *title.Renderer
}

func (c titleCompositor) Size() image.Point { return c.renderer.Size() }

func newTitleCompositor(opts TitleOptions) (titleCompositor, error) {
	grad, err := title.NewGradient(opts.Stops, opts.Period)
	if err != nil {
		return titleCompositor{}, err
	}
	f, err := fonts.LoadOrDefault(opts.FontPath)
	if err != nil {
		return titleCompositor{}, err
	}
	rend, err := title.NewRenderer(title.Options{
		Word:         opts.Word,
		Subtitle:     opts.Subtitle,
		Font:         f,
		WordSize:     opts.WordSize,
		SubtitleSize: opts.SubtitleSize,
		LineSpacing:  opts.LineSpacing,
		Gradient:     grad,
	})
	if err != nil {
		return titleCompositor{}, err
	}
	comp, err := title.NewCompositor(rend, title.Envelope{Duration: opts.Duration, Fade: opts.Fade})
	if err != nil {
		return titleCompositor{}, err
	}
	return titleCompositor{Compositor: comp, renderer: rend}, nil
}
