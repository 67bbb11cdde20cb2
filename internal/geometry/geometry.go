// Package geometry provides the exact integer rectangle math used by the
// compositor and validator. All comparisons are inclusive so a containment
// decision never flips near a boundary.
package geometry

import (
	"image"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
)

// SafeZone returns the canvas rectangle inset by margin * min(width, height)
// on every side. The shorter dimension is used so the margin stays visually
// uniform across aspect ratios; per-axis insets would produce non-square
// margins on tall formats.
func SafeZone(spec formats.FormatSpec) image.Rectangle {
	inset := int(spec.SafeZoneMargin * float64(minInt(spec.Width, spec.Height)))
	return image.Rect(inset, inset, spec.Width-inset, spec.Height-inset)
}

// Contains reports whether inner lies entirely within outer, inclusive of
// the boundary. An empty inner rectangle is trivially contained.
func Contains(outer, inner image.Rectangle) bool {
	if inner.Empty() {
		return true
	}
	return inner.Min.X >= outer.Min.X && inner.Min.Y >= outer.Min.Y &&
		inner.Max.X <= outer.Max.X && inner.Max.Y <= outer.Max.Y
}

// Overlaps reports whether a and b share a positive-area intersection.
// Rectangles touching only along an edge or corner do not overlap.
func Overlaps(a, b image.Rectangle) bool {
	return !a.Intersect(b).Empty()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
