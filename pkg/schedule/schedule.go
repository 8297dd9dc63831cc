package schedule

import "github.com/matzehuels/splitviz/pkg/errors"

// Feature is one pane shown on the right half, with its display label.
type Feature struct {
	Pane  int
	Label string
}

// Step is the schedule for a single output frame.
//
// Active is the feature owning the segment. Alpha is the weight of Active
// on the right half; Other receives 1-Alpha. Outside crossfade windows
// Alpha is 1 and Other equals Active.
type Step struct {
	Index       int     // output frame index
	SourceIndex int     // decoded frame to read, looped
	Segment     int     // segment index
	Active      Feature // feature of the current segment
	Other       Feature // blend partner (previous or next feature)
	Alpha       float64 // weight of Active in [0, 1]
	Label       string  // label to display for the right half
}

// Blending reports whether the step mixes two panes.
func (s Step) Blending() bool {
	return s.Alpha < 1 && s.Other.Pane != s.Active.Pane
}

// Scheduler resolves output frame indices against a plan.
// It holds no mutable state and is safe for concurrent use.
type Scheduler struct {
	plan     Plan
	features []Feature
	fade     int
}

// New creates a scheduler. fadeFrames is the crossfade window length at
// each segment edge; zero disables blending (hard cuts).
func New(plan Plan, features []Feature, fadeFrames int) (*Scheduler, error) {
	if len(features) != plan.FeatureCount {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"plan expects %d features, got %d", plan.FeatureCount, len(features))
	}
	if plan.SegmentLength < 1 {
		return nil, errors.New(errors.ErrCodeDegenerateSegmentPlan,
			"segment length %d is below one frame", plan.SegmentLength)
	}
	if fadeFrames < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "crossfade frames must be >= 0, got %d", fadeFrames)
	}
	if 2*fadeFrames > plan.SegmentLength {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"crossfade of %d frames does not fit twice into a %d frame segment", fadeFrames, plan.SegmentLength)
	}
	fs := make([]Feature, len(features))
	copy(fs, features)
	return &Scheduler{plan: plan, features: fs, fade: fadeFrames}, nil
}

// Plan returns the plan the scheduler was built from.
func (s *Scheduler) Plan() Plan { return s.plan }

// Len returns the number of output frames.
func (s *Scheduler) Len() int { return s.plan.TotalFrames }

// At returns the step for output frame i. Indices outside [0, Len()) are
// clamped into the first or last segment.
func (s *Scheduler) At(i int) Step {
	if i < 0 {
		i = 0
	}
	n := len(s.features)
	seg := min(i/s.plan.SegmentLength, n-1)
	inSeg := i - seg*s.plan.SegmentLength

	active := s.features[seg]
	step := Step{
		Index:       i,
		SourceIndex: i % s.plan.SourceFrames,
		Segment:     seg,
		Active:      active,
		Other:       active,
		Alpha:       1,
		Label:       active.Label,
	}
	if s.fade == 0 {
		return step
	}

	segLen := s.plan.SegmentLength
	switch {
	case seg > 0 && inSeg < s.fade:
		// Leading edge: fade in from the previous feature.
		step.Other = s.features[seg-1]
		step.Alpha = float64(inSeg) / float64(s.fade)
		if step.Alpha < 0.5 {
			step.Label = step.Other.Label
		}
	case seg < n-1 && inSeg > segLen-s.fade:
		// Trailing edge: fade out toward the next feature.
		step.Other = s.features[seg+1]
		step.Alpha = float64(segLen-inSeg) / float64(s.fade)
		if step.Alpha < 0.5 {
			step.Label = step.Other.Label
		}
	}
	return step
}
