// Package title renders the animated two-line title and overlays it on
// video frames.
//
// The first line (the word) is filled with a horizontal multi-stop color
// gradient that scrolls with time; the second line (the subtitle) is solid
// white. [Renderer.Render] is a pure function of t, so any timestamp can
// be rendered on its own. [Compositor] multiplies the title's alpha by a
// fade-in/fade-out [Envelope] and blends it source-over onto the centre of
// each destination frame.
package title

import (
	"image/color"
	"math"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// DefaultPeriod is the time in seconds for the gradient to scroll through
// one full stop cycle.
const DefaultPeriod = 6.0

// Gradient is an ordered list of color stops animated over Period seconds.
type Gradient struct {
	Stops  []color.RGBA
	Period float64
}

// NewGradient validates and builds a gradient.
func NewGradient(stops []color.RGBA, period float64) (Gradient, error) {
	if len(stops) < 2 {
		return Gradient{}, errors.New(errors.ErrCodeInvalidConfig, "gradient needs at least 2 stops, got %d", len(stops))
	}
	if period <= 0 {
		return Gradient{}, errors.New(errors.ErrCodeInvalidConfig, "gradient period must be positive, got %g", period)
	}
	s := make([]color.RGBA, len(stops))
	copy(s, stops)
	return Gradient{Stops: s, Period: period}, nil
}

// phaseGrid is the resolution phases are snapped to. t/Period and
// (t+Period)/Period differ in their last bits, so without snapping a
// column can land one level apart a period later.
const phaseGrid = 1e6

// Phase returns the animation offset at time t, reduced to [0, 1) and
// snapped to 1/phaseGrid.
func (g Gradient) Phase(t float64) float64 {
	p := math.Mod(t/g.Period, 1)
	if p < 0 {
		p++
	}
	p = math.Round(p*phaseGrid) / phaseGrid
	if p >= 1 {
		p = 0
	}
	return p
}

// At returns the color at position s along the stops, where one unit of s
// spans the whole stop list and the pattern repeats every unit.
func (g Gradient) At(s float64) color.RGBA {
	n := len(g.Stops) - 1
	pos := s * float64(n)
	seg := math.Floor(pos)
	frac := pos - seg
	i := int(seg) % n
	if i < 0 {
		i += n
	}
	return lerp(g.Stops[i], g.Stops[i+1], frac)
}

// Colors maps every column of a word width pixels wide to its color at
// time t.
func (g Gradient) Colors(width int, t float64) []color.RGBA {
	out := make([]color.RGBA, width)
	phase := g.Phase(t)
	for x := range out {
		u := 0.0
		if width > 1 {
			u = float64(x) / float64(width-1)
		}
		out[x] = g.At(u + phase)
	}
	return out
}

// lerp interpolates two colors channel by channel, truncating toward zero.
func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8((1-t)*float64(x) + t*float64(y))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xff}
}
