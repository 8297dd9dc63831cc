// Package schedule maps output frame indices of a highlight render onto
// source frames and feature panes.
//
// A render loops the source clip Repeat times and divides the resulting
// frame run into one equal segment per feature. Within a segment the
// feature pane is fixed; at segment boundaries an optional crossfade
// window blends the outgoing and incoming panes.
//
//	plan, err := schedule.NewPlan(150, 2, 4) // 300 frames, 75 per segment
//	s, err := schedule.New(plan, features, 0)
//	step := s.At(75) // first frame of segment 1
package schedule

import "github.com/matzehuels/splitviz/pkg/errors"

// Plan is the derived frame budget of one render.
type Plan struct {
	SourceFrames    int // decoded frames in the clip
	Repeat          int // how many times the clip is looped
	FeatureCount    int // number of segments
	EffectiveFrames int // SourceFrames * Repeat
	SegmentLength   int // frames per segment
	TotalFrames     int // output frames to emit
}

// NewPlan derives a plan where the looped clip is split evenly into one
// segment per feature. Every looped frame is emitted; when EffectiveFrames
// is not a multiple of FeatureCount the final segment absorbs the
// remainder.
func NewPlan(sourceFrames, repeat, featureCount int) (Plan, error) {
	if err := checkInputs(sourceFrames, repeat, featureCount); err != nil {
		return Plan{}, err
	}
	effective := sourceFrames * repeat
	if featureCount > effective {
		return Plan{}, errors.New(errors.ErrCodeDegenerateSegmentPlan,
			"%d features exceed %d effective frames", featureCount, effective)
	}
	return Plan{
		SourceFrames:    sourceFrames,
		Repeat:          repeat,
		FeatureCount:    featureCount,
		EffectiveFrames: effective,
		SegmentLength:   effective / featureCount,
		TotalFrames:     effective,
	}, nil
}

// NewRederivedPlan derives a plan the way the multi-scene demo does: the
// unlooped clip is split per feature first and each segment is then
// stretched by Repeat. The total is re-derived as SegmentLength *
// FeatureCount, so trailing remainder frames are dropped.
func NewRederivedPlan(sourceFrames, repeat, featureCount int) (Plan, error) {
	if err := checkInputs(sourceFrames, repeat, featureCount); err != nil {
		return Plan{}, err
	}
	base := sourceFrames / featureCount
	if base < 1 {
		return Plan{}, errors.New(errors.ErrCodeDegenerateSegmentPlan,
			"%d features exceed %d source frames", featureCount, sourceFrames)
	}
	seg := base * repeat
	return Plan{
		SourceFrames:    sourceFrames,
		Repeat:          repeat,
		FeatureCount:    featureCount,
		EffectiveFrames: sourceFrames * repeat,
		SegmentLength:   seg,
		TotalFrames:     seg * featureCount,
	}, nil
}

func checkInputs(sourceFrames, repeat, featureCount int) error {
	switch {
	case sourceFrames < 1:
		return errors.New(errors.ErrCodeDegenerateSegmentPlan, "source has no frames")
	case repeat < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "repeat must be >= 1, got %d", repeat)
	case featureCount < 1:
		return errors.New(errors.ErrCodeDegenerateSegmentPlan, "no features to schedule")
	}
	return nil
}
