package title

import "github.com/matzehuels/splitviz/pkg/errors"

// Envelope is the fade multiplier applied to the title's alpha: 0 at t=0,
// rising linearly to 1 over Fade seconds, holding, and falling back to 0
// at t=Duration.
type Envelope struct {
	Duration float64
	Fade     float64
}

// Validate checks Duration > 0 and 0 <= Fade <= Duration/2.
func (e Envelope) Validate() error {
	if e.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "title duration must be positive, got %g", e.Duration)
	}
	if e.Fade < 0 || e.Fade > e.Duration/2 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"fade duration %g must be within [0, %g]", e.Fade, e.Duration/2)
	}
	return nil
}

// At returns the envelope value at time t. Outside [0, Duration] it is 0.
func (e Envelope) At(t float64) float64 {
	if t < 0 || t > e.Duration {
		return 0
	}
	if e.Fade <= 0 {
		return 1
	}
	a := 1.0
	if t < e.Fade {
		a = t / e.Fade
	}
	if rem := e.Duration - t; rem < e.Fade {
		a = min(a, rem/e.Fade)
	}
	return a
}
