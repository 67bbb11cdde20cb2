// Package contrast implements WCAG-style perceptual contrast computation
// for text placed over flat colors or image regions.
package contrast

import (
	"image"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NearMissMargin is the band above the minimum ratio within which a passing
// contrast is still reported as a risk warning.
const NearMissMargin = 0.5

// RelativeLuminance converts a color to its sRGB relative luminance in [0,1]
// using the standard gamma expansion and perceptual channel weights.
func RelativeLuminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.2126*linearize(float64(r)/65535.0) +
		0.7152*linearize(float64(g)/65535.0) +
		0.0722*linearize(float64(b)/65535.0)
}

func linearize(cs float64) float64 {
	if cs <= 0.03928 {
		return cs / 12.92
	}
	return math.Pow((cs+0.055)/1.055, 2.4)
}

// Ratio returns the WCAG contrast ratio between two colors. The result is
// symmetric in its arguments and always >= 1; black on white yields 21.
func Ratio(a, b color.Color) float64 {
	return RatioFromLuminance(RelativeLuminance(a), RelativeLuminance(b))
}

// RatioFromLuminance computes the contrast ratio from two relative
// luminances, in either order.
func RatioFromLuminance(l1, l2 float64) float64 {
	lighter := math.Max(l1, l2)
	darker := math.Min(l1, l2)
	return (lighter + 0.05) / (darker + 0.05)
}

// Passes reports whether ratio meets the required minimum.
func Passes(ratio, minimum float64) bool {
	return ratio >= minimum
}

// NearMiss reports whether a passing ratio is within NearMissMargin of the
// minimum and should be surfaced as a warning.
func NearMiss(ratio, minimum float64) bool {
	return ratio >= minimum && ratio < minimum+NearMissMargin
}

// RegionAverage returns the mean color of img over rect. This is the
// effective-background approximation for text over non-uniform imagery: it
// is not per-pixel contrast and deliberately under-reports local extremes,
// so downstream risk interpretation must not over-trust it.
func RegionAverage(img image.Image, rect image.Rectangle) color.RGBA {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	n := rect.Dx() * rect.Dy()
	rs := make([]float64, 0, n)
	gs := make([]float64, 0, n)
	bs := make([]float64, 0, n)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rs = append(rs, float64(r)/257.0)
			gs = append(gs, float64(g)/257.0)
			bs = append(bs, float64(b)/257.0)
		}
	}
	return color.RGBA{
		R: uint8(math.Round(stat.Mean(rs, nil))),
		G: uint8(math.Round(stat.Mean(gs, nil))),
		B: uint8(math.Round(stat.Mean(bs, nil))),
		A: 255,
	}
}

// RegionLuminanceBounds returns the 10th and 90th percentile relative
// luminance within rect. When the rendered glyph mask is unavailable (a
// standalone image with OCR boxes) the dark tail approximates the text
// foreground and the light tail its backdrop, or vice versa.
func RegionLuminanceBounds(img image.Image, rect image.Rectangle) (lo, hi float64) {
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return 1, 1
	}

	lums := make([]float64, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			lums = append(lums, RelativeLuminance(img.At(x, y)))
		}
	}
	sort.Float64s(lums)
	lo = stat.Quantile(0.1, stat.Empirical, lums, nil)
	hi = stat.Quantile(0.9, stat.Empirical, lums, nil)
	return lo, hi
}
