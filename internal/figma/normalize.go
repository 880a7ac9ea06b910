package figma

import (
	"math"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
)

// Margins added when design coordinates sit at negative canvas positions;
// they place the content where the dashboard's chart area starts.
const (
	NormalizeMarginX = 300.0
	NormalizeMarginY = 120.0
)

// Normalize shifts elements so that negative design coordinates land on the
// page canvas. Each axis is handled on its own: a negative minimum m moves
// that axis by |m| plus its margin, a non-negative minimum leaves it alone.
// The result is a new slice.
func Normalize(elements []layout.Rectangle) []layout.Rectangle {
	boxes := make([]geometry.Bounds, len(elements))
	for i, e := range elements {
		boxes[i] = e.Bounds
	}
	minX, minY := geometry.MinCorner(boxes)

	var dx, dy float64
	if minX < 0 {
		dx = math.Abs(minX) + NormalizeMarginX
	}
	if minY < 0 {
		dy = math.Abs(minY) + NormalizeMarginY
	}

	out := make([]layout.Rectangle, len(elements))
	for i, e := range elements {
		e.Bounds = e.Bounds.Translate(dx, dy)
		out[i] = e
	}
	return out
}
