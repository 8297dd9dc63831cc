// Package fonts provides the font faces used for burned-in labels and the
// animated title.
//
// The default faces come from the Go font family shipped with
// golang.org/x/image, so renders work without any font installed on the
// host. Caller-supplied font assets (.ttf, .otf, or the first face of a
// .ttc collection) are loaded with [Load].
package fonts

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/splitviz/pkg/errors"
)

// Parsed default fonts (computed once on first access).
var (
	labelFont     *truetype.Font
	labelFontErr  error
	labelFontOnce sync.Once

	titleFont     *opentype.Font
	titleFontErr  error
	titleFontOnce sync.Once
)

// LabelFont returns the embedded Go Medium font used for pane labels.
func LabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(gomedium.TTF)
	})
	return labelFont, labelFontErr
}

// LoadLabelFont reads a TrueType label font. An empty path selects the
// embedded font.
func LoadLabelFont(path string) (*truetype.Font, error) {
	if path == "" {
		f, err := LabelFont()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse embedded label font")
		}
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read label font %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse label font %s", path)
	}
	return f, nil
}

// NewLabelFace creates a face of f at the given pixel size. Faces cache
// glyphs and must not be shared between goroutines.
func NewLabelFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// TitleFont returns the embedded Go Bold font used when no title font
// asset is configured.
func TitleFont() (*opentype.Font, error) {
	titleFontOnce.Do(func() {
		titleFont, titleFontErr = opentype.Parse(gobold.TTF)
	})
	return titleFont, titleFontErr
}

// Load reads a font asset. Collections (.ttc/.otc) yield their first font.
func Load(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read font %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		c, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse font collection %s", path)
		}
		if c.NumFonts() == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFont, "font collection %s is empty", path)
		}
		f, err := c.Font(0)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "read first font of %s", path)
		}
		return f, nil
	default:
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse font %s", path)
		}
		return f, nil
	}
}

// LoadOrDefault loads path, or returns the embedded title font when path
// is empty.
func LoadOrDefault(path string) (*opentype.Font, error) {
	if path == "" {
		f, err := TitleFont()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "parse embedded title font")
		}
		return f, nil
	}
	return Load(path)
}

// Face creates a face of f at the given pixel size.
func Face(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFont, err, "create %.0fpx face", size)
	}
	return face, nil
}
