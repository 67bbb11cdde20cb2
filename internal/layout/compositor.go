// Package layout composes raw creative assets and copy into deterministic
// render plans for a target format.
package layout

import (
	"errors"
	"image"
	"image/color"
	"math"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/geometry"
)

// ErrMissingPackshot indicates composition was attempted without the one
// required asset.
var ErrMissingPackshot = errors.New("packshot asset is required")

// Placement policy constants. Fractions are of the canvas, gaps in pixels.
const (
	packshotFraction = 0.60 // of the shorter canvas dimension
	logoFraction     = 0.12 // of the canvas width
	textGap          = 20
)

// Initial font sizes before shrink-to-fit, mirroring the original layout
// ladder (price largest, claim smallest).
const (
	headlineBaseSize = 48
	priceBaseSize    = 56
	claimBaseSize    = 32

	headlineWidthFactor = 0.045
	priceWidthFactor    = 0.052
	claimWidthFactor    = 0.030
)

var (
	neutralFill   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	headlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	priceColor    = color.RGBA{R: 220, G: 20, B: 60, A: 255}
	claimColor    = color.RGBA{R: 50, G: 50, B: 50, A: 255}
)

// Input carries the assets and copy for one composition. Packshot is
// required; everything else is optional.
type Input struct {
	Packshot   image.Image
	Background image.Image
	Logo       image.Image
	Headline   string
	Price      string
	Claim      string
}

// Compositor builds render plans. It holds only the font set used for text
// measurement and performs no I/O.
type Compositor struct {
	fonts *FontSet
}

// NewCompositor creates a compositor measuring text with the given fonts.
func NewCompositor(fonts *FontSet) *Compositor {
	return &Compositor{fonts: fonts}
}

// Compose places assets and text onto the format's canvas and returns an
// immutable render plan. The algorithm is deterministic: identical inputs
// always produce identical plans.
func (c *Compositor) Compose(spec formats.FormatSpec, in Input) (*RenderPlan, error) {
	if in.Packshot == nil {
		return nil, ErrMissingPackshot
	}

	plan := &RenderPlan{Format: spec, Fill: neutralFill}
	canvasW, canvasH := spec.Width, spec.Height
	z := 0

	// Background covers the full canvas; the export engine center-crops it
	// to preserve aspect. Absence of a background keeps the neutral fill.
	if in.Background != nil {
		plan.Elements = append(plan.Elements, Element{
			Asset: &AssetRef{Role: RoleBackground, Image: in.Background},
			Rect:  image.Rect(0, 0, canvasW, canvasH),
			Z:     z,
		})
	}
	z++

	// Packshot scales to fit a central square sized from the shorter canvas
	// dimension, preserving its own aspect ratio.
	box := int(packshotFraction * float64(minInt(canvasW, canvasH)))
	pw, ph := fitWithin(in.Packshot.Bounds().Dx(), in.Packshot.Bounds().Dy(), box, box)
	px := (canvasW - pw) / 2
	py := (canvasH - ph) / 2
	plan.Elements = append(plan.Elements, Element{
		Asset: &AssetRef{Role: RolePackshot, Image: in.Packshot},
		Rect:  image.Rect(px, py, px+pw, py+ph),
		Z:     z,
	})
	z++

	safe := geometry.SafeZone(spec)

	if in.Logo != nil {
		lw := int(logoFraction * float64(canvasW))
		lw, lh := fitWithin(in.Logo.Bounds().Dx(), in.Logo.Bounds().Dy(), lw, lw)
		plan.Elements = append(plan.Elements, Element{
			Asset: &AssetRef{Role: RoleLogo, Image: in.Logo},
			Rect:  image.Rect(safe.Max.X-lw, safe.Max.Y-lh, safe.Max.X, safe.Max.Y),
			Z:     z,
		})
	}
	z++

	for _, e := range c.placeText(spec, safe, in, z) {
		plan.Elements = append(plan.Elements, e)
	}

	return plan, nil
}

// placeText stacks the supplied blocks headline-above-price-above-claim,
// anchored to the safe-zone bottom. When the stack would exceed the safe
// zone, every font size is shrunk by the same factor down to the format
// minimum; remaining overflow is accepted and left for the validator to
// flag.
func (c *Compositor) placeText(spec formats.FormatSpec, safe image.Rectangle, in Input, zBase int) []Element {
	type pending struct {
		block TextBlock
		w, h  int
	}

	blocks := make([]pending, 0, 3)
	add := func(role TextRole, text string, base float64, widthFactor float64, bold bool, col color.RGBA) {
		if text == "" {
			return
		}
		size := math.Min(base, widthFactor*float64(spec.Width))
		size = math.Max(size, float64(spec.MinFontSize))
		blocks = append(blocks, pending{block: TextBlock{
			Role:     role,
			Text:     text,
			FontSize: size,
			Bold:     bold,
			Color:    col,
		}})
	}
	add(TextHeadline, in.Headline, headlineBaseSize, headlineWidthFactor, true, headlineColor)
	add(TextPrice, in.Price, priceBaseSize, priceWidthFactor, true, priceColor)
	add(TextClaim, in.Claim, claimBaseSize, claimWidthFactor, false, claimColor)
	if len(blocks) == 0 {
		return nil
	}

	measure := func() int {
		total := 0
		for i := range blocks {
			b := &blocks[i]
			b.w, b.h = c.fonts.Measure(b.block.Text, b.block.FontSize, b.block.Bold)
			total += b.h
		}
		return total + textGap*(len(blocks)-1)
	}

	total := measure()
	if total > safe.Dy() {
		scale := float64(safe.Dy()) / float64(total)
		for i := range blocks {
			shrunk := blocks[i].block.FontSize * scale
			blocks[i].block.FontSize = math.Max(shrunk, float64(spec.MinFontSize))
		}
		total = measure()
	}

	// Anchor the stack to the safe-zone bottom. If the minimum font size
	// still overflows, the top blocks spill above the zone and the
	// safe-zone check reports them.
	y := safe.Max.Y - total
	out := make([]Element, 0, len(blocks))
	for i, b := range blocks {
		x := (spec.Width - b.w) / 2
		block := b.block
		out = append(out, Element{
			Text: &block,
			Rect: image.Rect(x, y, x+b.w, y+b.h),
			Z:    zBase + i,
		})
		y += b.h + textGap
	}
	return out
}

// fitWithin scales (w, h) to fit inside (maxW, maxH) preserving aspect
// ratio. Degenerate sources collapse to a zero-size rect rather than
// dividing by zero.
func fitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale > 1 {
		scale = 1
	}
	return int(float64(w) * scale), int(float64(h) * scale)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
