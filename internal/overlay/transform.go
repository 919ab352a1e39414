// Package overlay converts between the pixel coordinates of a rendered page
// preview and the page coordinate space placements are stored in. Pixel
// space has its origin at the top-left corner and grows downward; page space
// has its origin at the bottom-left corner and grows upward.
package overlay

// Transform ties a rendered preview to its page: Scale is pixels per point,
// PageHeight is the page height in points.
type Transform struct {
	Scale      float64
	PageHeight float64
}

// NewTransform returns a transform for a page rendered at the given scale.
// A non-positive scale falls back to 1.
func NewTransform(scale, pageHeight float64) Transform {
	if scale <= 0 {
		scale = 1
	}
	return Transform{Scale: scale, PageHeight: pageHeight}
}

// ToPage converts preview pixel coordinates to page coordinates.
func (t Transform) ToPage(pxX, pxY float64) (x, y float64) {
	return pxX / t.Scale, t.PageHeight - pxY/t.Scale
}

// ToPixels converts page coordinates to preview pixel coordinates.
func (t Transform) ToPixels(x, y float64) (pxX, pxY float64) {
	return x * t.Scale, (t.PageHeight - y) * t.Scale
}
