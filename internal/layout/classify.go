package layout

import (
	"sort"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
)

const (
	// DefaultAlignmentTolerance is the distance in pixels under which two
	// coordinates count as aligned.
	DefaultAlignmentTolerance = 50.0
	// DefaultVarianceScale normalises the summed size variance.
	DefaultVarianceScale = 100.0
	// MinConfidence and MaxConfidence bound the score of a 4-element set.
	MinConfidence = 0.5
	MaxConfidence = 0.95

	// gridSize is the only element count the classifier recognises.
	gridSize = 4
)

// Thresholds holds the heuristic constants used by Classify and Score.
type Thresholds struct {
	Alignment     float64
	VarianceScale float64
	MinConfidence float64
	MaxConfidence float64
}

// DefaultThresholds returns the stock heuristic constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Alignment:     DefaultAlignmentTolerance,
		VarianceScale: DefaultVarianceScale,
		MinConfidence: MinConfidence,
		MaxConfidence: MaxConfidence,
	}
}

// Classify returns the pattern of rects using the default thresholds.
func Classify(rects []Rectangle) Pattern {
	return ClassifyWith(rects, DefaultThresholds())
}

// ClassifyWith classifies exactly four boxes as a 2x2 grid, a vertical stack,
// a horizontal row or scattered. Any other count is PatternUnknown.
func ClassifyWith(rects []Rectangle, th Thresholds) Pattern {
	if len(rects) != gridSize {
		return PatternUnknown
	}

	tol := th.Alignment
	boxes := make([]geometry.Bounds, len(rects))
	for i, r := range rects {
		boxes[i] = r.Bounds
	}

	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Y < boxes[j].Y })
	top := []geometry.Bounds{boxes[0], boxes[1]}
	bottom := []geometry.Bounds{boxes[2], boxes[3]}

	if geometry.Within(top[0].Y, top[1].Y, tol) && geometry.Within(bottom[0].Y, bottom[1].Y, tol) {
		byX := func(pair []geometry.Bounds) {
			sort.SliceStable(pair, func(i, j int) bool { return pair[i].X < pair[j].X })
		}
		byX(top)
		byX(bottom)
		if geometry.Within(top[0].X, bottom[0].X, tol) && geometry.Within(top[1].X, bottom[1].X, tol) {
			return PatternGrid2x2
		}
	}

	minX, minY := geometry.MinCorner(boxes)
	if allAligned(boxes, minX, tol, func(b geometry.Bounds) float64 { return b.X }) {
		return PatternVertical
	}
	if allAligned(boxes, minY, tol, func(b geometry.Bounds) float64 { return b.Y }) {
		return PatternHorizontal
	}

	return PatternScattered
}

func allAligned(boxes []geometry.Bounds, ref, tol float64, coord func(geometry.Bounds) float64) bool {
	for _, b := range boxes {
		if !geometry.Within(coord(b), ref, tol) {
			return false
		}
	}
	return true
}
