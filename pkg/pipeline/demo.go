package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/splitviz/pkg/pane"
)

// Demo renders several scenes in order into one video. The output size is
// the pane size of the first scene; scenes of other sizes are resampled.
func (r *Runner) Demo(ctx context.Context, opts DemoOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	inputs := make([]string, len(opts.Scenes))
	for i, s := range opts.Scenes {
		inputs[i] = s.Input
	}

	return r.cached(ctx, "demo", inputs, opts, opts.Output, func(string) (*Result, error) {
		first, err := r.Source.Probe(ctx, opts.Scenes[0].Input)
		if err != nil {
			return nil, err
		}
		layout, err := pane.Resolve(first.Width, first.Height, opts.Panes.Count)
		if err != nil {
			return nil, err
		}
		fps, err := opts.Encoding.rate(first.FrameRateOr)
		if err != nil {
			return nil, err
		}
		size := layout.Size()
		r.Logger.Info("demo output", "size", fmt.Sprintf("%dx%d", size.X, size.Y), "fps", fps, "scenes", len(opts.Scenes))

		res := &Result{Output: opts.Output, FrameRate: fps, Size: size}
		_, err = r.encode(ctx, opts.Output, opts.Encoding.encoderOptions(size, fps), func(sink Sink) (int, error) {
			for _, s := range opts.Scenes {
				sr, err := r.demoScene(ctx, sink, s, opts.Panes)
				if err != nil {
					return res.Frames, fmt.Errorf("scene %s: %w", s.Label, err)
				}
				res.Scenes = append(res.Scenes, sr)
				res.Frames += sr.Frames
				res.Resampled += sr.Resampled
			}
			return res.Frames, nil
		})
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// demoScene decodes one scene, renders it into sink and releases its
// frames.
func (r *Runner) demoScene(ctx context.Context, sink Sink, s Scene, p Panes) (SceneResult, error) {
	seq, err := r.open(ctx, s.Input)
	if err != nil {
		return SceneResult{}, err
	}
	sc, err := newScene(seq, p, s.Label, s.Repeat, true)
	if err != nil {
		return SceneResult{}, err
	}
	r.logPlan(sc, s.Label)

	n := sc.sched.Len()
	resampled, err := r.emit(ctx, sink, "demo/"+s.Label, n, sc.render)
	if err != nil {
		return SceneResult{}, err
	}
	if resampled > 0 {
		r.Logger.Warn("scene size differs from output, frames resampled",
			"scene", s.Label, "resampled", resampled, "target", sink.Size())
	}
	return SceneResult{
		Label:         s.Label,
		Frames:        n,
		SegmentLength: sc.sched.Plan().SegmentLength,
		Resampled:     resampled,
	}, nil
}
