package layout

import (
	"image"
	"image/color"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
)

// AssetRole identifies how a raster asset participates in a composition.
type AssetRole string

const (
	RolePackshot   AssetRole = "packshot"
	RoleBackground AssetRole = "background"
	RoleLogo       AssetRole = "logo"
)

// AssetRef is a decoded raster asset plus its role. Assets are owned by the
// pipeline invocation that loaded them and are never mutated in place; every
// transform produces a new buffer at rasterization time.
type AssetRef struct {
	Role  AssetRole
	Image image.Image
}

// TextRole identifies the semantic role of a text block.
type TextRole string

const (
	TextHeadline TextRole = "headline"
	TextPrice    TextRole = "price"
	TextClaim    TextRole = "claim"
)

// TextBlock is a measured piece of copy. Immutable once measured by the
// compositor.
type TextBlock struct {
	Role     TextRole
	Text     string
	FontSize float64 // pixels, already clamped to the format minimum
	Bold     bool
	Color    color.RGBA
}

// Element is one placed entry of a render plan: either an asset or a text
// block, with its bounding rectangle in canvas pixel coordinates and a
// unique z-order.
type Element struct {
	Asset *AssetRef
	Text  *TextBlock
	Rect  image.Rectangle
	Z     int
}

// IsText reports whether the element places a text block.
func (e Element) IsText() bool {
	return e.Text != nil
}

// RenderPlan is the fully resolved, immutable layout for one (asset set,
// format) pair, prior to rasterization. Elements are ordered back-to-front
// by z-order with no duplicates; it is the single source of truth for both
// the export engine and the validator.
type RenderPlan struct {
	Format   formats.FormatSpec
	Fill     color.RGBA // canvas fill used when no background asset covers it
	Elements []Element
}

// TextElements returns the placed text elements in z-order.
func (p *RenderPlan) TextElements() []Element {
	var out []Element
	for _, e := range p.Elements {
		if e.IsText() {
			out = append(out, e)
		}
	}
	return out
}

// Canvas returns the full canvas rectangle of the plan.
func (p *RenderPlan) Canvas() image.Rectangle {
	return image.Rect(0, 0, p.Format.Width, p.Format.Height)
}
