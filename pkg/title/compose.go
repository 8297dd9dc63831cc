package title

import (
	"image"
	"image/draw"
)

// Overlay blends src onto dst with its top-left corner at `at`, using
// out = dst*(1-a) + src*a with a = src alpha * alpha. Only the
// intersection of the title box and dst is touched; an overall alpha of 0
// leaves dst bit-for-bit unchanged.
func Overlay(dst *image.RGBA, src *image.NRGBA, at image.Point, alpha float64) {
	if alpha <= 0 {
		return
	}
	alpha = min(alpha, 1)
	box := src.Bounds().Sub(src.Bounds().Min).Add(at).Intersect(dst.Bounds())
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			s := src.Pix[src.PixOffset(src.Rect.Min.X+x-at.X, src.Rect.Min.Y+y-at.Y):]
			if s[3] == 0 {
				continue
			}
			a := float64(s[3]) / 255 * alpha
			d := dst.Pix[dst.PixOffset(x, y):]
			for c := 0; c < 3; c++ {
				d[c] = uint8(float64(d[c])*(1-a) + float64(s[c])*a + 0.5)
			}
		}
	}
}

// Compositor overlays an enveloped title onto destination frames.
type Compositor struct {
	renderer *Renderer
	envelope Envelope
}

// NewCompositor pairs a renderer with a fade envelope.
func NewCompositor(r *Renderer, env Envelope) (*Compositor, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &Compositor{renderer: r, envelope: env}, nil
}

// Position returns the top-left corner that centres the title in a frame
// of the given size. It may be negative when the title is larger.
func (c *Compositor) Position(frame image.Point) image.Point {
	s := c.renderer.Size()
	return image.Pt((frame.X-s.X)/2, (frame.Y-s.Y)/2)
}

// Active reports whether a frame at time t receives the title.
func (c *Compositor) Active(t float64) bool {
	return t >= 0 && t < c.envelope.Duration
}

// Compose returns the frame at time t with the title applied. Frames
// outside [0, Duration) are returned as-is; otherwise dst is copied and
// left untouched.
func (c *Compositor) Compose(dst *image.RGBA, t float64) *image.RGBA {
	if !c.Active(t) {
		return dst
	}
	out := image.NewRGBA(dst.Bounds())
	draw.Draw(out, out.Bounds(), dst, dst.Bounds().Min, draw.Src)
	Overlay(out, c.renderer.Render(t), c.Position(dst.Bounds().Size()).Add(dst.Rect.Min), c.envelope.At(t))
	return out
}
