package formats

import (
	"errors"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	names := r.List()
	expected := []string{"1:1", "4:5", "9:16"}
	if len(names) != len(expected) {
		t.Fatalf("Expected %d formats, got %d", len(expected), len(names))
	}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Expected format %q at position %d, got %q", name, i, names[i])
		}
	}
}

func TestDefaultRegistry_Dimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"1:1", 1080, 1080},
		{"4:5", 1080, 1350},
		{"9:16", 1080, 1920},
	}

	r := DefaultRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := r.Lookup(tt.name)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if spec.Width != tt.width || spec.Height != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, spec.Width, spec.Height)
			}
			if spec.SafeZoneMargin != 0.10 {
				t.Errorf("Expected safe zone margin 0.10, got %g", spec.SafeZoneMargin)
			}
			if spec.MinFontSize != 24 {
				t.Errorf("Expected min font size 24, got %d", spec.MinFontSize)
			}
			if spec.MinContrast != 4.5 {
				t.Errorf("Expected min contrast 4.5, got %g", spec.MinContrast)
			}
			if spec.MaxOutputBytes != 500*1024 {
				t.Errorf("Expected max output bytes %d, got %d", 500*1024, spec.MaxOutputBytes)
			}
		})
	}
}

func TestLookup_UnknownFormat(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Lookup("16:9")
	if err == nil {
		t.Fatal("Expected error for unknown format")
	}
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestNewRegistry_Validation(t *testing.T) {
	tests := []struct {
		name string
		spec FormatSpec
	}{
		{
			name: "zero width",
			spec: FormatSpec{Name: "bad", Width: 0, Height: 100, MinContrast: 4.5},
		},
		{
			name: "negative height",
			spec: FormatSpec{Name: "bad", Width: 100, Height: -1, MinContrast: 4.5},
		},
		{
			name: "margin too large",
			spec: FormatSpec{Name: "bad", Width: 100, Height: 100, SafeZoneMargin: 0.5, MinContrast: 4.5},
		},
		{
			name: "negative margin",
			spec: FormatSpec{Name: "bad", Width: 100, Height: 100, SafeZoneMargin: -0.1, MinContrast: 4.5},
		},
		{
			name: "contrast below one",
			spec: FormatSpec{Name: "bad", Width: 100, Height: 100, MinContrast: 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry(tt.spec); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	spec := FormatSpec{Name: "1:1", Width: 100, Height: 100, MinContrast: 4.5}
	if _, err := NewRegistry(spec, spec); err == nil {
		t.Error("Expected error for duplicate format name")
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	r := DefaultRegistry()
	names := r.List()
	names[0] = "mutated"

	if r.List()[0] != "1:1" {
		t.Error("List must return a copy, not the internal slice")
	}
}
