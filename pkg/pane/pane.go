// Package pane resolves the geometry of a wide source frame that is laid
// out as N equal-width vertical panes.
//
// Pane i occupies columns [i*Width, (i+1)*Width). Remainder columns on the
// right (frame width not divisible by the pane count) belong to no pane and
// are ignored. The split column used by the highlight compositor is
// Width/2, so the left half of every output frame comes from the baseline
// pane and the right half from a feature pane.
package pane

import (
	"image"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// Layout describes the pane grid of one source frame size.
type Layout struct {
	Count  int // number of panes
	Width  int // width of one pane in pixels
	Height int // full frame height
	SplitX int // split column inside a pane, Width/2
}

// Resolve computes the layout for a frame of the given size split into
// count panes.
func Resolve(frameWidth, frameHeight, count int) (Layout, error) {
	if count < 1 {
		return Layout{}, errors.New(errors.ErrCodeInvalidConfig, "pane count must be positive, got %d", count)
	}
	if frameHeight < 1 {
		return Layout{}, errors.New(errors.ErrCodeInvalidConfig, "frame height must be positive, got %d", frameHeight)
	}
	w := frameWidth / count
	if w < 1 {
		return Layout{}, errors.New(errors.ErrCodeInvalidConfig,
			"frame width %d is too narrow for %d panes", frameWidth, count)
	}
	return Layout{Count: count, Width: w, Height: frameHeight, SplitX: w / 2}, nil
}

// Region returns the rectangle pane i occupies in the source frame.
func (l Layout) Region(i int) image.Rectangle {
	return image.Rect(i*l.Width, 0, (i+1)*l.Width, l.Height)
}

// Right returns the part of pane i that lands on the right of the split.
func (l Layout) Right(i int) image.Rectangle {
	return image.Rect(i*l.Width+l.SplitX, 0, (i+1)*l.Width, l.Height)
}

// Size returns the output frame size: one pane.
func (l Layout) Size() image.Point {
	return image.Pt(l.Width, l.Height)
}

// Valid reports whether pane index i exists in the layout.
func (l Layout) Valid(i int) bool {
	return i >= 0 && i < l.Count
}
