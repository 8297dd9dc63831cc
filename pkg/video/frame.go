package video

import (
	"image"
	"io"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// FrameRateEpsilon is the smallest frame rate treated as known.
const FrameRateEpsilon = 1e-2

// Sequence is a fully decoded clip. All frames share Width x Height and
// must not be modified once decoded.
type Sequence struct {
	Frames    []*image.RGBA
	Width     int
	Height    int
	FrameRate float64 // 0 when indeterminate
}

// Len returns the number of decoded frames.
func (s *Sequence) Len() int { return len(s.Frames) }

// Frame returns frame i.
func (s *Sequence) Frame(i int) *image.RGBA { return s.Frames[i] }

// Duration returns the clip length in seconds, or 0 when the frame rate is
// indeterminate.
func (s *Sequence) Duration() float64 {
	if s.FrameRate <= FrameRateEpsilon {
		return 0
	}
	return float64(len(s.Frames)) / s.FrameRate
}

// FrameRateOr returns the clip's frame rate, substituting fallback when
// the rate is indeterminate. Without a usable fallback it fails with
// FRAME_RATE_INDETERMINATE.
func (s *Sequence) FrameRateOr(fallback float64) (float64, error) {
	return resolveRate(s.FrameRate, fallback)
}

func resolveRate(rate, fallback float64) (float64, error) {
	if rate > FrameRateEpsilon {
		return rate, nil
	}
	if fallback > FrameRateEpsilon {
		return fallback, nil
	}
	return 0, errors.New(errors.ErrCodeFrameRateIndeterminate,
		"source reports frame rate %.3g and no fallback is configured", rate)
}

// readFrames decodes packed rgb24 frames of size w x h from r until EOF.
// A trailing partial frame is discarded.
func readFrames(r io.Reader, w, h int, limit int) ([]*image.RGBA, error) {
	size := w * h * 3
	buf := make([]byte, size)
	var frames []*image.RGBA
	for limit <= 0 || len(frames) < limit {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return frames, err
		}
		frames = append(frames, rgbToRGBA(buf, w, h))
	}
	return frames, nil
}

func rgbToRGBA(src []byte, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	dst := img.Pix
	for i, j := 0, 0; i < len(src); i, j = i+3, j+4 {
		dst[j] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xff
	}
	return img
}

// writeFrame writes img as packed rgb24 rows. buf is reused when large
// enough.
func writeFrame(w io.Writer, img *image.RGBA, buf []byte) ([]byte, error) {
	b := img.Bounds()
	size := b.Dx() * b.Dy() * 3
	if cap(buf) < size {
		buf = make([]byte, size)
	}
	buf = buf[:size]
	j := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			buf[j] = row[i]
			buf[j+1] = row[i+1]
			buf[j+2] = row[i+2]
			j += 3
		}
	}
	_, err := w.Write(buf)
	return buf, err
}
