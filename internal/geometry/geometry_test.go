package geometry

import (
	"image"
	"testing"

	"github.com/Suryanshambekar/Tesco-Hackathon-Kamikaze-Blast/internal/formats"
)

func TestSafeZone(t *testing.T) {
	tests := []struct {
		name     string
		spec     formats.FormatSpec
		expected image.Rectangle
	}{
		{
			name:     "square canvas",
			spec:     formats.FormatSpec{Name: "1:1", Width: 1080, Height: 1080, SafeZoneMargin: 0.10},
			expected: image.Rect(108, 108, 972, 972),
		},
		{
			name: "tall canvas insets from shorter dimension",
			spec: formats.FormatSpec{Name: "9:16", Width: 1080, Height: 1920, SafeZoneMargin: 0.10},
			// inset = 0.10 * 1080 on every side, not 0.10 * 1920 vertically
			expected: image.Rect(108, 108, 972, 1812),
		},
		{
			name:     "zero margin keeps full canvas",
			spec:     formats.FormatSpec{Name: "full", Width: 200, Height: 100, SafeZoneMargin: 0},
			expected: image.Rect(0, 0, 200, 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeZone(tt.spec)
			if got != tt.expected {
				t.Errorf("Expected safe zone %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestContains(t *testing.T) {
	outer := image.Rect(10, 10, 90, 90)

	tests := []struct {
		name     string
		inner    image.Rectangle
		expected bool
	}{
		{"fully inside", image.Rect(20, 20, 80, 80), true},
		{"exactly on boundary", image.Rect(10, 10, 90, 90), true},
		{"touching max edge", image.Rect(50, 50, 90, 90), true},
		{"one pixel past max", image.Rect(50, 50, 91, 90), false},
		{"one pixel before min", image.Rect(9, 10, 50, 50), false},
		{"completely outside", image.Rect(100, 100, 120, 120), false},
		{"empty rectangle", image.Rectangle{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(outer, tt.inner); got != tt.expected {
				t.Errorf("Contains(%v, %v) = %v, expected %v", outer, tt.inner, got, tt.expected)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     image.Rectangle
		expected bool
	}{
		{"overlapping", image.Rect(0, 0, 50, 50), image.Rect(25, 25, 75, 75), true},
		{"disjoint", image.Rect(0, 0, 50, 50), image.Rect(60, 60, 100, 100), false},
		{"edge touching only", image.Rect(0, 0, 50, 50), image.Rect(50, 0, 100, 50), false},
		{"corner touching only", image.Rect(0, 0, 50, 50), image.Rect(50, 50, 100, 100), false},
		{"contained", image.Rect(0, 0, 100, 100), image.Rect(10, 10, 20, 20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.expected {
				t.Errorf("Overlaps(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}
