package title

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/splitviz/pkg/errors"
	"github.com/matzehuels/splitviz/pkg/fonts"
)

// Options describe the title text and typography.
type Options struct {
	Word         string
	Subtitle     string
	Font         *opentype.Font // nil selects the embedded bold font
	WordSize     float64        // px
	SubtitleSize float64        // px
	LineSpacing  int            // px between the two lines
	Gradient     Gradient
}

// Renderer draws title frames. The glyph mask and subtitle layer are
// computed once; Render only paints the gradient, so a Renderer is safe
// for concurrent use.
type Renderer struct {
	gradient Gradient
	size     image.Point
	word     image.Rectangle // word box inside the canvas
	mask     *image.Alpha    // word coverage, word-box sized
	static   *image.NRGBA    // transparent canvas with the subtitle
}

// NewRenderer lays out the title and rasterizes its glyph coverage.
func NewRenderer(o Options) (*Renderer, error) {
	if o.Word == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "title word is empty")
	}
	if o.WordSize <= 0 || (o.Subtitle != "" && o.SubtitleSize <= 0) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font sizes must be positive")
	}
	if o.LineSpacing < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "line spacing must be >= 0, got %d", o.LineSpacing)
	}
	if len(o.Gradient.Stops) < 2 || o.Gradient.Period <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "title gradient is not configured")
	}

	f := o.Font
	if f == nil {
		var err error
		if f, err = fonts.LoadOrDefault(""); err != nil {
			return nil, err
		}
	}
	wordFace, err := fonts.Face(f, o.WordSize)
	if err != nil {
		return nil, err
	}
	defer wordFace.Close()

	wordBox, wordDot := inkBox(wordFace, o.Word)
	if wordBox.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidFont, "font has no visible glyphs for %q", o.Word)
	}
	width, height := wordBox.Dx(), wordBox.Dy()

	var subBox image.Rectangle
	var subDot fixed.Point26_6
	var subFace font.Face
	if o.Subtitle != "" {
		if subFace, err = fonts.Face(f, o.SubtitleSize); err != nil {
			return nil, err
		}
		defer subFace.Close()
		subBox, subDot = inkBox(subFace, o.Subtitle)
		width = max(width, subBox.Dx())
		height += o.LineSpacing + subBox.Dy()
	}

	r := &Renderer{
		gradient: o.Gradient,
		size:     image.Pt(width, height),
		mask:     image.NewAlpha(image.Rect(0, 0, wordBox.Dx(), wordBox.Dy())),
		static:   image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
	wx := (width - wordBox.Dx()) / 2
	r.word = image.Rect(wx, 0, wx+wordBox.Dx(), wordBox.Dy())

	d := font.Drawer{Dst: r.mask, Src: image.Opaque, Face: wordFace, Dot: wordDot}
	d.DrawString(o.Word)

	if subFace != nil {
		sx := (width - subBox.Dx()) / 2
		sy := wordBox.Dy() + o.LineSpacing
		d := font.Drawer{
			Dst:  r.static,
			Src:  image.NewUniform(color.White),
			Face: subFace,
			Dot:  subDot.Add(fixed.P(sx, sy)),
		}
		d.DrawString(o.Subtitle)
	}
	return r, nil
}

// inkBox returns the pixel bounds of s's glyph ink translated to the
// origin, and the dot that draws s inside that box.
func inkBox(face font.Face, s string) (image.Rectangle, fixed.Point26_6) {
	b, _ := font.BoundString(face, s)
	minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
	maxX, maxY := b.Max.X.Ceil(), b.Max.Y.Ceil()
	return image.Rect(0, 0, maxX-minX, maxY-minY), fixed.P(-minX, -minY)
}

// Size returns the title canvas size.
func (r *Renderer) Size() image.Point { return r.size }

// WordBounds returns the word's box inside the canvas.
func (r *Renderer) WordBounds() image.Rectangle { return r.word }

// Gradient returns the gradient in use.
func (r *Renderer) Gradient() Gradient { return r.gradient }

// Render returns a fresh title frame for time t. Pixels outside glyph
// coverage are fully transparent; word pixels carry their column's
// gradient color with the glyph coverage as alpha.
func (r *Renderer) Render(t float64) *image.NRGBA {
	out := image.NewNRGBA(r.static.Rect)
	copy(out.Pix, r.static.Pix)

	cols := r.gradient.Colors(r.word.Dx(), t)
	for y := 0; y < r.mask.Rect.Dy(); y++ {
		row := r.mask.Pix[y*r.mask.Stride : y*r.mask.Stride+r.mask.Rect.Dx()]
		for x, a := range row {
			if a == 0 {
				continue
			}
			c := cols[x]
			i := out.PixOffset(r.word.Min.X+x, r.word.Min.Y+y)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = a
		}
	}
	return out
}
