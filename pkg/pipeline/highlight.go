package pipeline

import (
	"context"
	"image"

	"github.com/matzehuels/splitviz/pkg/pane"
	"github.com/matzehuels/splitviz/pkg/schedule"
	"github.com/matzehuels/splitviz/pkg/split"
	"github.com/matzehuels/splitviz/pkg/video"
)

// Highlight renders one multi-pane clip into a pane-width highlight video.
func (r *Runner) Highlight(ctx context.Context, opts HighlightOptions) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return r.cached(ctx, "highlight", []string{opts.Input}, opts, opts.Output, func(string) (*Result, error) {
		seq, err := r.open(ctx, opts.Input)
		if err != nil {
			return nil, err
		}
		sc, err := newScene(seq, opts.Panes, opts.Scene, opts.Repeat, opts.Rederive)
		if err != nil {
			return nil, err
		}
		fps, err := opts.Encoding.rate(seq.FrameRateOr)
		if err != nil {
			return nil, err
		}
		size := sc.comp.Layout().Size()
		r.logPlan(sc, opts.Scene)

		var resampled int
		frames, err := r.encode(ctx, opts.Output, opts.Encoding.encoderOptions(size, fps), func(sink Sink) (int, error) {
			var err error
			resampled, err = r.emit(ctx, sink, "highlight", sc.sched.Len(), sc.render)
			return sc.sched.Len(), err
		})
		if err != nil {
			return nil, err
		}
		return &Result{
			Output:    opts.Output,
			Frames:    frames,
			Resampled: resampled,
			FrameRate: fps,
			Size:      size,
		}, nil
	})
}

// scene binds one decoded clip to its scheduler and compositor.
type scene struct {
	seq    *video.Sequence
	sched  *schedule.Scheduler
	comp   *split.Compositor
	labels split.Labels
}

func newScene(seq *video.Sequence, p Panes, label string, repeat int, rederive bool) (*scene, error) {
	layout, err := pane.Resolve(seq.Width, seq.Height, p.Count)
	if err != nil {
		return nil, err
	}

	newPlan := schedule.NewPlan
	if rederive {
		newPlan = schedule.NewRederivedPlan
	}
	plan, err := newPlan(seq.Len(), repeat, len(p.Features))
	if err != nil {
		return nil, err
	}
	sched, err := schedule.New(plan, p.Features, p.CrossfadeFrames)
	if err != nil {
		return nil, err
	}

	comp, err := split.New(layout, split.WithFontPath(p.FontPath), split.WithBaselinePane(p.BaselinePane))
	if err != nil {
		return nil, err
	}
	return &scene{
		seq:    seq,
		sched:  sched,
		comp:   comp,
		labels: split.Labels{Baseline: p.BaselineLabel, Scene: label},
	}, nil
}

func (s *scene) render(i int) (*image.RGBA, error) {
	step := s.sched.At(i)
	labels := s.labels
	labels.Feature = step.Label
	return s.comp.Compose(s.seq.Frame(step.SourceIndex), split.MixFor(step), labels)
}

func (r *Runner) logPlan(s *scene, label string) {
	p := s.sched.Plan()
	l := s.comp.Layout()
	r.Logger.Debug("segment plan",
		"scene", label,
		"source_frames", p.SourceFrames,
		"repeat", p.Repeat,
		"segment_length", p.SegmentLength,
		"frames", p.TotalFrames,
		"pane", l.Size(),
		"font_scale", s.comp.Scale())
}
