package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPageInvertsYAxis(t *testing.T) {
	// US Letter page rendered at 1.5 pixels per point.
	tr := NewTransform(1.5, 792)

	x, y := tr.ToPage(0, 0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 792.0, y, "top-left pixel maps to the top of the page")

	x, y = tr.ToPage(918, 1188)
	assert.Equal(t, 612.0, x)
	assert.Equal(t, 0.0, y, "bottom-right pixel maps to the bottom of the page")
}

func TestToPixelsRoundTrip(t *testing.T) {
	tr := NewTransform(2, 792)

	tests := []struct {
		name string
		x, y float64
	}{
		{"origin", 0, 0},
		{"top", 0, 792},
		{"middle", 306, 396},
		{"fractional", 72.5, 123.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pxX, pxY := tr.ToPixels(tt.x, tt.y)
			x, y := tr.ToPage(pxX, pxY)
			assert.InDelta(t, tt.x, x, 1e-9)
			assert.InDelta(t, tt.y, y, 1e-9)
		})
	}
}

func TestNewTransformGuardsScale(t *testing.T) {
	tr := NewTransform(0, 792)
	assert.Equal(t, 1.0, tr.Scale)
}
