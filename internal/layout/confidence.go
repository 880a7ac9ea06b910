package layout

import (
	"math"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
)

// Score returns the confidence of rects using the default thresholds.
func Score(rects []Rectangle) float64 {
	return ScoreWith(rects, DefaultThresholds())
}

// ScoreWith maps the summed width and height variance of four boxes into
// [MinConfidence, MaxConfidence]; uniform sizes score highest. Any count
// other than four scores zero.
func ScoreWith(rects []Rectangle, th Thresholds) float64 {
	if len(rects) != gridSize {
		return 0
	}

	widths := make([]float64, len(rects))
	heights := make([]float64, len(rects))
	for i, r := range rects {
		widths[i] = r.Bounds.Width
		heights[i] = r.Bounds.Height
	}

	spread := geometry.PopVariance(widths) + geometry.PopVariance(heights)
	raw := math.Max(0, 1-spread/(2*th.VarianceScale))
	return geometry.Clamp(raw, th.MinConfidence, th.MaxConfidence)
}
