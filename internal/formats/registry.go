// Package formats holds the static catalog of target creative formats and
// their numeric placement constraints.
package formats

import (
	"errors"
	"fmt"
)

// ErrUnknownFormat indicates a format name outside the catalog.
var ErrUnknownFormat = errors.New("unknown format")

// FormatSpec describes one target creative format. Specs are immutable and
// looked up by name.
type FormatSpec struct {
	Name           string  `json:"name"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	SafeZoneMargin float64 `json:"safe_zone_margin"` // fraction of the shorter canvas dimension, applied on all four sides
	MinFontSize    int     `json:"min_font_size"`    // pixels
	MinContrast    float64 `json:"min_contrast"`     // WCAG-style ratio
	MaxOutputBytes int     `json:"max_output_bytes"`
}

// Registry is a read-only catalog of format specs, safe for unsynchronized
// concurrent reads once constructed.
type Registry struct {
	order []string
	specs map[string]FormatSpec
}

// NewRegistry builds a registry from the given specs, preserving argument
// order for List. Specs with non-positive dimensions or a margin >= 0.5
// would collapse the safe zone and are rejected.
func NewRegistry(specs ...FormatSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]FormatSpec, len(specs))}
	for _, s := range specs {
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("format %q: dimensions must be positive (got %dx%d)", s.Name, s.Width, s.Height)
		}
		if s.SafeZoneMargin < 0 || s.SafeZoneMargin >= 0.5 {
			return nil, fmt.Errorf("format %q: safe zone margin must be in [0, 0.5) (got %g)", s.Name, s.SafeZoneMargin)
		}
		if s.MinContrast < 1 {
			return nil, fmt.Errorf("format %q: minimum contrast ratio must be >= 1 (got %g)", s.Name, s.MinContrast)
		}
		if _, dup := r.specs[s.Name]; dup {
			return nil, fmt.Errorf("format %q: duplicate name", s.Name)
		}
		r.order = append(r.order, s.Name)
		r.specs[s.Name] = s
	}
	return r, nil
}

// DefaultRegistry returns the built-in retailer format catalog.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		FormatSpec{Name: "1:1", Width: 1080, Height: 1080, SafeZoneMargin: 0.10, MinFontSize: 24, MinContrast: 4.5, MaxOutputBytes: 500 * 1024},
		FormatSpec{Name: "4:5", Width: 1080, Height: 1350, SafeZoneMargin: 0.10, MinFontSize: 24, MinContrast: 4.5, MaxOutputBytes: 500 * 1024},
		FormatSpec{Name: "9:16", Width: 1080, Height: 1920, SafeZoneMargin: 0.10, MinFontSize: 24, MinContrast: 4.5, MaxOutputBytes: 500 * 1024},
	)
	if err != nil {
		panic(err) // built-in table is validated by tests
	}
	return r
}

// Lookup returns the spec for name, or ErrUnknownFormat.
func (r *Registry) Lookup(name string) (FormatSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return FormatSpec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return spec, nil
}

// List returns the supported format names in stable registration order.
func (r *Registry) List() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
