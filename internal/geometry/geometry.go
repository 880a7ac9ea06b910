// Package geometry provides the axis-aligned box type and the small numeric
// helpers the layout classifier is built on.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bounds is an axis-aligned box in page pixels: top-left origin, y grows
// downward.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Translate returns the box shifted by dx, dy.
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// Larger reports whether the box is strictly wider than w and taller than h.
func (b Bounds) Larger(w, h float64) bool {
	return b.Width > w && b.Height > h
}

// Within reports whether a and b differ by strictly less than tolerance.
func Within(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

// PopVariance is the population variance of values; zero for empty input.
func PopVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.PopVariance(values, nil)
}

// RelativeDelta is |a-b| relative to the larger magnitude of the two.
func RelativeDelta(a, b float64) float64 {
	scale := math.Max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// MinCorner returns the smallest x and y over all boxes.
func MinCorner(boxes []Bounds) (minX, minY float64) {
	if len(boxes) == 0 {
		return 0, 0
	}
	minX, minY = boxes[0].X, boxes[0].Y
	for _, b := range boxes[1:] {
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
	}
	return minX, minY
}
