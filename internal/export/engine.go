// Package export rasterizes render plans and compresses the result to a
// hard byte budget.
package export

import (
	"bytes"
	"image"
	"image/jpeg"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/layout"
)

// JPEG quality search bounds.
const (
	MinQuality = 1
	MaxQuality = 100
)

// Result is the finished artifact plus its size/quality metadata. BudgetMet
// reports whether the byte budget was achieved; a miss is data for the
// caller's policy, never an error.
type Result struct {
	Data      []byte `json:"-"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int    `json:"size_bytes"`
	Quality   int    `json:"quality"`
	BudgetMet bool   `json:"budget_met"`
}

// Engine rasterizes plans with the shared font set and encodes them as
// JPEG. Safe for concurrent use; each call works on its own buffers.
type Engine struct {
	fonts *layout.FontSet
}

// NewEngine creates an export engine drawing text with the given fonts.
func NewEngine(fonts *layout.FontSet) *Engine {
	return &Engine{fonts: fonts}
}

// Rasterize draws the full plan, text included, at full quality.
func (e *Engine) Rasterize(plan *layout.RenderPlan) *image.RGBA {
	return e.rasterize(plan, true)
}

// RasterizeBase draws only the non-text layers. The validator samples this
// raster for effective background colors under each text rectangle.
func (e *Engine) RasterizeBase(plan *layout.RenderPlan) *image.RGBA {
	return e.rasterize(plan, false)
}

func (e *Engine) rasterize(plan *layout.RenderPlan, withText bool) *image.RGBA {
	dc := gg.NewContext(plan.Format.Width, plan.Format.Height)
	dc.SetColor(plan.Fill)
	dc.Clear()

	elements := make([]layout.Element, len(plan.Elements))
	copy(elements, plan.Elements)
	sort.Slice(elements, func(i, j int) bool { return elements[i].Z < elements[j].Z })

	for _, el := range elements {
		switch {
		case el.Asset != nil:
			e.drawAsset(dc, el)
		case el.Text != nil && withText:
			e.drawText(dc, el)
		}
	}

	out := image.NewRGBA(dc.Image().Bounds())
	if rgba, ok := dc.Image().(*image.RGBA); ok {
		copy(out.Pix, rgba.Pix)
		return out
	}
	// gg always backs contexts with *image.RGBA; this path is unreachable
	// but keeps the conversion total.
	for y := out.Bounds().Min.Y; y < out.Bounds().Max.Y; y++ {
		for x := out.Bounds().Min.X; x < out.Bounds().Max.X; x++ {
			out.Set(x, y, dc.Image().At(x, y))
		}
	}
	return out
}

func (e *Engine) drawAsset(dc *gg.Context, el layout.Element) {
	rect := el.Rect
	if rect.Empty() {
		return
	}

	var scaled image.Image
	if el.Asset.Role == layout.RoleBackground {
		// Center-crop to cover, never stretch-distort.
		scaled = imaging.Fill(el.Asset.Image, rect.Dx(), rect.Dy(), imaging.Center, imaging.Lanczos)
	} else {
		scaled = imaging.Resize(el.Asset.Image, rect.Dx(), rect.Dy(), imaging.Lanczos)
	}
	dc.DrawImage(scaled, rect.Min.X, rect.Min.Y)
}

func (e *Engine) drawText(dc *gg.Context, el layout.Element) {
	block := el.Text
	if block.Text == "" {
		return
	}
	dc.SetFontFace(e.fonts.Face(block.FontSize, block.Bold))
	dc.SetColor(block.Color)
	baseline := float64(el.Rect.Min.Y + e.fonts.Ascent(block.FontSize, block.Bold))
	dc.DrawString(block.Text, float64(el.Rect.Min.X), baseline)
}

// Export rasterizes the plan once and searches for the highest JPEG quality
// whose encoded size fits the byte budget. Quality anti-correlates with
// size, so a binary search over [MinQuality, MaxQuality] converges in at
// most seven encodes. When even MinQuality exceeds the budget the
// minimum-quality artifact is returned with BudgetMet=false.
func (e *Engine) Export(plan *layout.RenderPlan, byteBudget int) (*Result, error) {
	img := e.Rasterize(plan)

	encode := func(quality int) ([]byte, error) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	bestQuality := -1
	var bestData []byte
	lo, hi := MinQuality, MaxQuality
	for lo <= hi {
		mid := (lo + hi) / 2
		data, err := encode(mid)
		if err != nil {
			return nil, err
		}
		if len(data) <= byteBudget {
			bestQuality, bestData = mid, data
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	result := &Result{
		Width:  plan.Format.Width,
		Height: plan.Format.Height,
	}
	if bestQuality >= 0 {
		result.Data = bestData
		result.SizeBytes = len(bestData)
		result.Quality = bestQuality
		result.BudgetMet = true
		return result, nil
	}

	data, err := encode(MinQuality)
	if err != nil {
		return nil, err
	}
	result.Data = data
	result.SizeBytes = len(data)
	result.Quality = MinQuality
	result.BudgetMet = false
	return result, nil
}
