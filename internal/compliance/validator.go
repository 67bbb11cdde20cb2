// Package compliance runs the deterministic placement, contrast, and claim
// checks and aggregates them into a verdict.
package compliance

import (
	"context"
	"fmt"
	"image"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/claims"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/contrast"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/geometry"
	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/layout"
)

// Check names, stable across both validation modes.
const (
	CheckSafeZones = "safe_zones"
	CheckContrast  = "contrast"
	CheckClaims    = "claims"
)

// Check is one named compliance check result. Produced fresh per validation
// call and never mutated afterwards.
type Check struct {
	Name     string          `json:"name"`
	Passed   bool            `json:"passed"`
	Risk     claims.RiskTier `json:"risk"`
	Messages []string        `json:"messages,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (c *Check) fail(tier claims.RiskTier, format string, args ...interface{}) {
	c.Passed = false
	c.Risk = claims.MaxTier(c.Risk, tier)
	c.Messages = append(c.Messages, fmt.Sprintf(format, args...))
}

func (c *Check) warn(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Verdict aggregates all checks for one rendered format. IsCompliant is the
// AND of all checks; RiskLevel is the maximum tier among failing checks and
// stays LOW when only warnings are present. Compliance failures are data,
// never errors.
type Verdict struct {
	Format      string          `json:"format"`
	IsCompliant bool            `json:"is_compliant"`
	RiskLevel   claims.RiskTier `json:"risk_level"`
	Checks      []Check         `json:"checks"`
	Issues      []string        `json:"issues,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// TextRegion is a text area supplied by the OCR collaborator when validating
// a standalone image. Geometry is approximate.
type TextRegion struct {
	Text       string
	Rect       image.Rectangle
	Confidence float64
}

// PriceFinding is a parsed price surfaced by the OCR collaborator.
type PriceFinding struct {
	Value float64
	Raw   string
}

// BaseRasterizer renders a plan's non-text layers so the validator can
// sample the effective background behind each text block.
type BaseRasterizer interface {
	RasterizeBase(plan *layout.RenderPlan) *image.RGBA
}

// Advisor is the optional semantic-judgment collaborator (e.g. a language
// model reviewing claim plausibility). It only ever contributes
// supplementary warnings; deterministic check outcomes are never overridden.
type Advisor interface {
	Review(ctx context.Context, texts []string) []string
}

// Validator runs all checks. All three checks always run and are reported;
// a failure in one never short-circuits the others.
type Validator struct {
	lexicon *claims.Lexicon
	raster  BaseRasterizer
	advisor Advisor
}

// NewValidator creates a validator with the given lexicon and base
// rasterizer.
func NewValidator(lexicon *claims.Lexicon, raster BaseRasterizer) *Validator {
	return &Validator{lexicon: lexicon, raster: raster}
}

// WithAdvisor attaches the optional semantic advisor.
func (v *Validator) WithAdvisor(a Advisor) *Validator {
	v.advisor = a
	return v
}

// ValidatePlan checks a freshly composed render plan. Geometry is exact,
// taken directly from the placed-element rectangles.
func (v *Validator) ValidatePlan(ctx context.Context, plan *layout.RenderPlan) *Verdict {
	spec := plan.Format
	texts := plan.TextElements()

	safe := Check{Name: CheckSafeZones, Passed: true, Risk: claims.RiskLow}
	zone := geometry.SafeZone(spec)
	for _, el := range texts {
		if !geometry.Contains(zone, el.Rect) {
			// Safe-zone violations are legal/placement risk, highest severity.
			safe.fail(claims.RiskHigh, "%s text at %v escapes the safe zone %v", el.Text.Role, el.Rect, zone)
		}
	}

	contrastCheck := Check{Name: CheckContrast, Passed: true, Risk: claims.RiskLow}
	if len(texts) > 0 {
		base := v.raster.RasterizeBase(plan)
		for _, el := range texts {
			if el.Text.Text == "" || el.Rect.Empty() {
				continue // degenerate blocks trivially pass
			}
			bg := contrast.RegionAverage(base, el.Rect)
			ratio := contrast.Ratio(el.Text.Color, bg)
			if !contrast.Passes(ratio, spec.MinContrast) {
				contrastCheck.fail(claims.RiskMedium,
					"%s text contrast %.2f is below the minimum %.2f", el.Text.Role, ratio, spec.MinContrast)
			} else if contrast.NearMiss(ratio, spec.MinContrast) {
				contrastCheck.warn("%s text contrast %.2f is within %.1f of the minimum %.2f",
					el.Text.Role, ratio, contrast.NearMissMargin, spec.MinContrast)
			}
		}
	}

	claimCheck := Check{Name: CheckClaims, Passed: true, Risk: claims.RiskLow}
	var advisorInput []string
	for _, el := range texts {
		v.classifyInto(&claimCheck, string(el.Text.Role), el.Text.Text)
		if el.Text.Text != "" {
			advisorInput = append(advisorInput, el.Text.Text)
		}
	}

	verdict := v.aggregate(spec.Name, safe, contrastCheck, claimCheck)
	v.advise(ctx, verdict, advisorInput)
	return verdict
}

// ValidateImage checks an externally supplied rendered image against the
// format using OCR-detected text regions. Geometry is approximate; the
// contrast estimate compares the dark and light luminance tails of each
// region since no glyph mask exists.
func (v *Validator) ValidateImage(ctx context.Context, img image.Image, spec formats.FormatSpec, regions []TextRegion, prices []PriceFinding) *Verdict {
	safe := Check{Name: CheckSafeZones, Passed: true, Risk: claims.RiskLow}
	bounds := img.Bounds()
	if bounds.Dx() != spec.Width || bounds.Dy() != spec.Height {
		safe.fail(claims.RiskMedium, "image dimensions %dx%d do not match format %s (%dx%d)",
			bounds.Dx(), bounds.Dy(), spec.Name, spec.Width, spec.Height)
	}
	zone := geometry.SafeZone(spec)
	for _, r := range regions {
		if !geometry.Contains(zone, r.Rect) {
			safe.fail(claims.RiskHigh, "detected text %q at %v escapes the safe zone %v", r.Text, r.Rect, zone)
		}
	}

	contrastCheck := Check{Name: CheckContrast, Passed: true, Risk: claims.RiskLow}
	for _, r := range regions {
		if r.Text == "" || r.Rect.Empty() {
			continue
		}
		lo, hi := contrast.RegionLuminanceBounds(img, r.Rect)
		ratio := contrast.RatioFromLuminance(lo, hi)
		if !contrast.Passes(ratio, spec.MinContrast) {
			contrastCheck.fail(claims.RiskMedium,
				"text %q contrast %.2f is below the minimum %.2f", r.Text, ratio, spec.MinContrast)
		} else if contrast.NearMiss(ratio, spec.MinContrast) {
			contrastCheck.warn("text %q contrast %.2f is within %.1f of the minimum %.2f",
				r.Text, ratio, contrast.NearMissMargin, spec.MinContrast)
		}
	}

	claimCheck := Check{Name: CheckClaims, Passed: true, Risk: claims.RiskLow}
	var advisorInput []string
	for _, r := range regions {
		v.classifyInto(&claimCheck, "detected", r.Text)
		if r.Text != "" {
			advisorInput = append(advisorInput, r.Text)
		}
	}
	v.checkPrices(&claimCheck, prices)

	verdict := v.aggregate(spec.Name, safe, contrastCheck, claimCheck)
	v.advise(ctx, verdict, advisorInput)
	return verdict
}

// classifyInto applies the lexicon to one text element. MEDIUM-or-above
// matches fail the check at that tier; LOW matches are warnings only.
func (v *Validator) classifyInto(check *Check, label, text string) {
	for _, m := range v.lexicon.Classify(text) {
		if m.Tier >= claims.RiskMedium {
			check.fail(m.Tier, "%s text contains risky term %q (%s)", label, m.Term, m.Tier)
		} else {
			check.warn("%s text contains term %q (%s)", label, m.Term, m.Tier)
		}
	}
}

// checkPrices flags conflicting or non-positive prices found in the image.
func (v *Validator) checkPrices(check *Check, prices []PriceFinding) {
	var minV, maxV float64
	for i, p := range prices {
		if p.Value <= 0 {
			check.fail(claims.RiskHigh, "invalid price %q (zero or negative)", p.Raw)
		}
		if i == 0 || p.Value < minV {
			minV = p.Value
		}
		if i == 0 || p.Value > maxV {
			maxV = p.Value
		}
	}
	if len(prices) > 1 && maxV-minV > 0.01 {
		check.fail(claims.RiskHigh, "conflicting prices detected (%.2f vs %.2f)", minV, maxV)
	}
}

func (v *Validator) aggregate(formatName string, checks ...Check) *Verdict {
	verdict := &Verdict{
		Format:      formatName,
		IsCompliant: true,
		RiskLevel:   claims.RiskLow,
		Checks:      checks,
	}
	for _, c := range checks {
		if !c.Passed {
			verdict.IsCompliant = false
			verdict.RiskLevel = claims.MaxTier(verdict.RiskLevel, c.Risk)
			for _, m := range c.Messages {
				verdict.Issues = append(verdict.Issues, fmt.Sprintf("%s: %s", c.Name, m))
			}
		}
		for _, w := range c.Warnings {
			verdict.Warnings = append(verdict.Warnings, fmt.Sprintf("%s: %s", c.Name, w))
		}
	}
	return verdict
}

// advise appends supplementary advisor warnings, never changing the
// deterministic outcome.
func (v *Validator) advise(ctx context.Context, verdict *Verdict, texts []string) {
	if v.advisor == nil || len(texts) == 0 {
		return
	}
	verdict.Warnings = append(verdict.Warnings, v.advisor.Review(ctx, texts)...)
}
