package layout

import (
	"fmt"
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontSet provides cached font faces for text measurement and rasterization.
// Faces are cached per (size, bold) the way the original layout engine cached
// PIL fonts; access is safe for concurrent use.
type FontSet struct {
	regular *truetype.Font
	bold    *truetype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

// LoadFontSet builds a font set. A non-empty path loads that TTF for both
// weights. Otherwise a system Arial is used when findfont can locate one,
// falling back to the embedded Go fonts so composition stays deterministic
// on bare machines and in tests.
func LoadFontSet(path string) (*FontSet, error) {
	if path == "" {
		if found, err := findfont.Find("arial.ttf"); err == nil {
			path = found
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		return newFontSet(f, f), nil
	}

	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse embedded bold font: %w", err)
	}
	return newFontSet(regular, bold), nil
}

// MustFontSet returns the embedded-font set and panics only if the compiled
// gofont data is unparsable.
func MustFontSet() *FontSet {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		panic(err)
	}
	return newFontSet(regular, bold)
}

func newFontSet(regular, bold *truetype.Font) *FontSet {
	return &FontSet{
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}
}

// Face returns a cached face at the given pixel size.
func (fs *FontSet) Face(size float64, bold bool) font.Face {
	key := faceKey{size: size, bold: bold}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if face, ok := fs.faces[key]; ok {
		return face
	}

	f := fs.regular
	if bold {
		f = fs.bold
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72})
	fs.faces[key] = face
	return face
}

// Measure returns the pixel width and height of text at the given size.
// Height is the face line height (ascent + descent) so stacked blocks do not
// collide regardless of glyph extents.
func (fs *FontSet) Measure(text string, size float64, bold bool) (w, h int) {
	face := fs.Face(size, bold)
	metrics := face.Metrics()
	return font.MeasureString(face, text).Ceil(), (metrics.Ascent + metrics.Descent).Ceil()
}

// Ascent returns the face ascent in pixels, used to convert a bounding-box
// top into a draw baseline.
func (fs *FontSet) Ascent(size float64, bold bool) int {
	return fs.Face(size, bold).Metrics().Ascent.Ceil()
}
