// Package layout classifies sets of element boxes into the fixed layout
// patterns a dashboard grid can take and scores how regular the set is.
package layout

import (
	"fmt"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
)

// Pattern is the closed set of layout shapes the classifier recognises.
type Pattern string

const (
	PatternGrid2x2    Pattern = "2x2-grid"
	PatternVertical   Pattern = "1x4-vertical"
	PatternHorizontal Pattern = "4x1-horizontal"
	PatternScattered  Pattern = "scattered"
	PatternUnknown    Pattern = "unknown"
)

var patternDescriptions = map[Pattern]string{
	PatternGrid2x2:    "2 rows × 2 columns grid",
	PatternVertical:   "single column of 4 stacked elements",
	PatternHorizontal: "single row of 4 side-by-side elements",
	PatternScattered:  "4 elements with no recognised alignment",
	PatternUnknown:    "element count other than 4",
}

// Patterns lists every valid pattern in display order.
func Patterns() []Pattern {
	return []Pattern{PatternGrid2x2, PatternVertical, PatternHorizontal, PatternScattered, PatternUnknown}
}

// ParsePattern converts a label into a Pattern, rejecting unknown labels.
func ParsePattern(label string) (Pattern, error) {
	p := Pattern(label)
	if _, ok := patternDescriptions[p]; !ok {
		return "", fmt.Errorf("unknown layout pattern %q", label)
	}
	return p, nil
}

// Valid reports whether p is one of the known patterns.
func (p Pattern) Valid() bool {
	_, ok := patternDescriptions[p]
	return ok
}

// Description is the human-readable form used in reports.
func (p Pattern) Description() string {
	if desc, ok := patternDescriptions[p]; ok {
		return desc
	}
	return string(p)
}

func (p Pattern) String() string {
	return string(p)
}

// Rectangle is one visual element's bounding box as produced by a source.
type Rectangle struct {
	ID     string          `json:"id"`
	Bounds geometry.Bounds `json:"bounds"`
	Type   string          `json:"type"`
}

// Snapshot is one source's complete extraction result for a comparison run.
type Snapshot struct {
	SourceID   string      `json:"sourceId"`
	Elements   []Rectangle `json:"elements"`
	Pattern    Pattern     `json:"pattern"`
	Confidence float64     `json:"confidence"`
}

// NewSnapshot classifies and scores elements into a snapshot. The element
// slice is copied.
func NewSnapshot(sourceID string, elements []Rectangle) Snapshot {
	return Snapshot{
		SourceID:   sourceID,
		Elements:   append([]Rectangle(nil), elements...),
		Pattern:    Classify(elements),
		Confidence: Score(elements),
	}
}
