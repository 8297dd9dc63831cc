package split

import (
	"image"
	"image/draw"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/fonts"
	"github.com/matzehuels/splitviz/pkg/pane"
	"github.com/matzehuels/splitviz/pkg/schedule"
)

const (
	// ReferenceHeight is the output height at which labels use the base scale.
	ReferenceHeight = 540

	baseScale    = 0.9
	baseFontSize = 30.0 // label size in px at scale 1
	baseMargin   = 15.0
	shadowOffset = 2

	// DividerWidth is the width of the split line in pixels.
	DividerWidth = 4
)

// FontScale returns the label scale for an output of the given height.
func FontScale(height int) float64 {
	return float64(height) / ReferenceHeight * baseScale
}

// Labels are the texts burned into every frame.
type Labels struct {
	Baseline string // top-left
	Feature  string // top-right, right-aligned
	Scene    string // bottom-left
}

// Mix selects the right-half content: Active pane weighted by Alpha, Other
// pane by 1-Alpha.
type Mix struct {
	Active int
	Other  int
	Alpha  float64
}

// MixFor converts a schedule step into a Mix.
func MixFor(s schedule.Step) Mix {
	return Mix{Active: s.Active.Pane, Other: s.Other.Pane, Alpha: s.Alpha}
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithFontPath uses a TrueType label font instead of the embedded one.
func WithFontPath(path string) Option {
	return func(c *Compositor) { c.fontPath = path }
}

// WithBaselinePane selects the pane shown on the left half (default 0).
func WithBaselinePane(i int) Option {
	return func(c *Compositor) { c.baseline = i }
}

// Compositor builds highlight frames for one pane layout. It is safe for
// concurrent use; each call draws with its own pooled font face.
type Compositor struct {
	layout   pane.Layout
	baseline int
	fontPath string

	scale  float64
	margin float64
	textH  float64
	faces  sync.Pool
}

// New creates a compositor for frames laid out as described by layout.
func New(layout pane.Layout, opts ...Option) (*Compositor, error) {
	c := &Compositor{layout: layout}
	for _, opt := range opts {
		opt(c)
	}
	if !layout.Valid(c.baseline) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "baseline pane %d outside %d panes", c.baseline, layout.Count)
	}

	f, err := fonts.LoadLabelFont(c.fontPath)
	if err != nil {
		return nil, err
	}
	c.scale = FontScale(layout.Height)
	c.margin = float64(int(baseMargin * c.scale))
	size := baseFontSize * c.scale
	c.faces.New = func() any { return fonts.NewLabelFace(f, size) }

	face := c.face()
	defer c.faces.Put(face)
	b, _ := font.BoundString(face, "RGB")
	c.textH = float64((-b.Min.Y).Ceil())
	return c, nil
}

// Scale returns the label scale in use.
func (c *Compositor) Scale() float64 { return c.scale }

// Layout returns the pane layout the compositor was built for.
func (c *Compositor) Layout() pane.Layout { return c.layout }

func (c *Compositor) face() font.Face {
	return c.faces.Get().(font.Face)
}

// Compose renders one output frame from src. src is not modified.
func (c *Compositor) Compose(src *image.RGBA, mix Mix, labels Labels) (*image.RGBA, error) {
	l := c.layout
	sb := src.Bounds()
	if sb.Dy() != l.Height || sb.Dx() < l.Count*l.Width {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"source frame %dx%d does not match layout of %d panes of %dx%d", sb.Dx(), sb.Dy(), l.Count, l.Width, l.Height)
	}
	if !l.Valid(mix.Active) || !l.Valid(mix.Other) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "feature pane %d/%d outside %d panes", mix.Active, mix.Other, l.Count)
	}

	out := image.NewRGBA(image.Rect(0, 0, l.Width, l.Height))
	c.fill(out, src, mix)
	c.drawDivider(out)
	c.drawLabels(out, labels)
	return out, nil
}

// fill copies the baseline left half and the (blended) feature right half.
func (c *Compositor) fill(out, src *image.RGBA, mix Mix) {
	l := c.layout
	origin := src.Bounds().Min
	split := l.SplitX * 4
	rowLen := l.Width * 4

	alpha := mix.Alpha
	blend := alpha < 1 && mix.Other != mix.Active
	right := mix.Active
	if blend && alpha <= 0 {
		right, blend = mix.Other, false
	}

	for y := 0; y < l.Height; y++ {
		dst := out.Pix[y*out.Stride : y*out.Stride+rowLen]
		base := src.Pix[src.PixOffset(origin.X+c.baseline*l.Width, origin.Y+y):]
		copy(dst[:split], base[:split])

		act := src.Pix[src.PixOffset(origin.X+right*l.Width, origin.Y+y):]
		if !blend {
			copy(dst[split:], act[split:rowLen])
			continue
		}
		oth := src.Pix[src.PixOffset(origin.X+mix.Other*l.Width, origin.Y+y):]
		for i := split; i < rowLen; i++ {
			dst[i] = uint8(float64(oth[i])*(1-alpha) + float64(act[i])*alpha + 0.5)
		}
	}
}

func (c *Compositor) drawDivider(out *image.RGBA) {
	x0 := c.layout.SplitX - DividerWidth/2
	r := image.Rect(x0, 0, x0+DividerWidth, c.layout.Height).Intersect(out.Bounds())
	draw.Draw(out, r, image.White, image.Point{}, draw.Src)
}

func (c *Compositor) drawLabels(out *image.RGBA, labels Labels) {
	face := c.face()
	defer c.faces.Put(face)

	dc := gg.NewContextForRGBA(out)
	dc.SetFontFace(face)

	top := c.margin + c.textH
	w := float64(c.layout.Width)
	h := float64(c.layout.Height)
	drawShadowed(dc, labels.Baseline, c.margin, top, false)
	drawShadowed(dc, labels.Feature, w-c.margin, top, true)
	drawShadowed(dc, labels.Scene, c.margin, h-c.margin, false)
}

// drawShadowed draws s with its baseline at (x, y); alignRight makes x the
// right edge of the text.
func drawShadowed(dc *gg.Context, s string, x, y float64, alignRight bool) {
	if s == "" {
		return
	}
	if alignRight {
		tw, _ := dc.MeasureString(s)
		x -= tw
	}
	dc.SetRGB(0, 0, 0)
	dc.DrawString(s, x+shadowOffset, y+shadowOffset)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(s, x, y)
}
