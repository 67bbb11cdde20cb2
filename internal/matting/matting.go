// Package matting defines the background-removal collaborator boundary and
// a local luminance-threshold implementation used as its fallback.
package matting

import (
	"context"
	"errors"
	"image"
	"image/color"
)

// ErrMattingFailed indicates the matter could not produce a mask. Callers
// fall back to the unaltered asset and log a warning; the pipeline never
// fails on it.
var ErrMattingFailed = errors.New("matting failed")

// Matter segments the subject of a packshot from its background. Real
// implementations call an external image-matting model; the pipeline only
// depends on this boundary.
type Matter interface {
	RemoveBackground(ctx context.Context, img image.Image) (image.Image, *image.Alpha, error)
}

// ThresholdMatter approximates matting by masking near-white pixels, the
// same fallback the external model path degrades to. Only suitable for
// packshots shot on light studio backgrounds.
type ThresholdMatter struct {
	threshold uint8
}

// NewThresholdMatter creates a matter masking pixels with gray value at or
// above 240.
func NewThresholdMatter() *ThresholdMatter {
	return &ThresholdMatter{threshold: 240}
}

// RemoveBackground returns a copy of img with near-white pixels made
// transparent, plus the alpha mask itself.
func (m *ThresholdMatter) RemoveBackground(ctx context.Context, img image.Image) (image.Image, *image.Alpha, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, nil, ErrMattingFailed
	}

	out := image.NewNRGBA(bounds)
	mask := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			gray := uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
			alpha := uint8(255)
			if gray >= m.threshold {
				alpha = 0
			}
			c.A = alpha
			out.SetNRGBA(x, y, c)
			mask.SetAlpha(x, y, color.Alpha{A: alpha})
		}
	}
	return out, mask, nil
}
