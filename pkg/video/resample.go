package video

import (
	"context"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// Fit returns img resized to w x h with an area (box) filter. The second
// result reports whether a resample happened; matching frames are returned
// as-is.
func Fit(img *image.RGBA, w, h int) (*image.RGBA, bool) {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img, false
	}
	return opaque(imaging.Resize(img, w, h, imaging.Box)), true
}

// opaque converts an NRGBA produced from an opaque source into RGBA. The
// alpha channel is forced to 255 so premultiplied and straight layouts
// coincide.
func opaque(n *image.NRGBA) *image.RGBA {
	for i := 3; i < len(n.Pix); i += 4 {
		n.Pix[i] = 0xff
	}
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

// ExtractFirstFrame decodes frame 0 of in and saves it to out; the format
// follows out's extension. width > 0 scales the image proportionally.
func ExtractFirstFrame(ctx context.Context, in, out string, width int) error {
	info, err := Probe(ctx, in)
	if err != nil {
		return err
	}
	frames, err := decode(ctx, in, info.Width, info.Height, 1)
	if err != nil {
		return err
	}

	var img image.Image = frames[0]
	if width > 0 && width != info.Width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := imaging.Save(img, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "save %s", out)
	}
	return nil
}
