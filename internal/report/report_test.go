package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/figma"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
)

func liveSnapshot(boxes ...geometry.Bounds) layout.Snapshot {
	rects := make([]layout.Rectangle, len(boxes))
	for i, b := range boxes {
		rects[i] = layout.Rectangle{ID: fmt.Sprintf("element-%d", i), Bounds: b, Type: "detected"}
	}
	return layout.NewSnapshot("live:http://localhost:3001", rects)
}

func designSnapshot() layout.Snapshot {
	return layout.Snapshot{
		SourceID:   "fixture:22:21",
		Elements:   figma.FixtureElements(),
		Pattern:    layout.PatternGrid2x2,
		Confidence: figma.FixtureConfidence,
	}
}

func gridLive() layout.Snapshot {
	return liveSnapshot(
		geometry.Bounds{X: 0, Y: 0, Width: 490, Height: 300},
		geometry.Bounds{X: 500, Y: 0, Width: 490, Height: 300},
		geometry.Bounds{X: 0, Y: 300, Width: 490, Height: 300},
		geometry.Bounds{X: 500, Y: 300, Width: 490, Height: 300},
	)
}

func verticalLive() layout.Snapshot {
	return liveSnapshot(
		geometry.Bounds{X: 20, Y: 100, Width: 490, Height: 300},
		geometry.Bounds{X: 20, Y: 420, Width: 490, Height: 300},
		geometry.Bounds{X: 20, Y: 740, Width: 490, Height: 300},
		geometry.Bounds{X: 20, Y: 1060, Width: 490, Height: 300},
	)
}

func TestTextMatch(t *testing.T) {
	t.Parallel()

	res := compare.Diff(designSnapshot(), gridLive(), 0.1)
	res.RunID = "run-42"
	res.ExpectedPattern = layout.PatternGrid2x2

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, Options{}))
	out := buf.String()

	require.Contains(t, out, "run-42")
	require.Contains(t, out, "Layout matches design")
	require.Contains(t, out, "2x2-grid")
	require.Contains(t, out, "Elements:   4")
	require.Contains(t, out, "95%")
	require.NotContains(t, out, "Suggested fix")
	require.NotContains(t, out, "Note:")
	require.NotContains(t, out, "Design elements")
}

func TestTextVerticalMismatchIncludesRemediation(t *testing.T) {
	t.Parallel()

	res := compare.Diff(designSnapshot(), verticalLive(), 0.1)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, Options{}))
	out := buf.String()

	require.Contains(t, out, "does not match")
	require.Contains(t, out, "Pattern: expected 2x2-grid, got 1x4-vertical")
	require.Contains(t, out, layout.PatternGrid2x2.Description())
	require.Contains(t, out, layout.PatternVertical.Description())
	require.NotContains(t, out, "Element count")
	require.Contains(t, out, "Suggested fix")
	require.Contains(t, out, "grid-template-columns: repeat(2, 1fr);")
}

func TestTextCountMismatchWithoutRemediation(t *testing.T) {
	t.Parallel()

	live := liveSnapshot(
		geometry.Bounds{X: 0, Y: 0, Width: 490, Height: 300},
		geometry.Bounds{X: 500, Y: 0, Width: 490, Height: 300},
		geometry.Bounds{X: 0, Y: 300, Width: 490, Height: 300},
	)
	res := compare.Diff(designSnapshot(), live, 0)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, Options{}))
	out := buf.String()

	require.Contains(t, out, "Element count: expected 4, got 3")
	require.Contains(t, out, "expected 2x2-grid, got unknown")
	require.NotContains(t, out, "Suggested fix")
}

func TestTextNotesExpectedPatternAndDrift(t *testing.T) {
	t.Parallel()

	live := gridLive()
	live.Elements[3].Bounds.Width = 343
	res := compare.Diff(designSnapshot(), live, 0.1)
	res.ExpectedPattern = layout.PatternHorizontal

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, Options{}))
	out := buf.String()

	require.Contains(t, out, "Note: design resolves to 2x2-grid but expectedPattern is 4x1-horizontal")
	require.Contains(t, out, "Size drift (tolerance 10%)")
	require.Contains(t, out, "chart-conversion vs element-3: width 30%, height 0%")
}

func TestTextDebugDumpsElements(t *testing.T) {
	t.Parallel()

	res := compare.Diff(designSnapshot(), verticalLive(), 0)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, res, Options{Debug: true}))
	out := buf.String()

	require.Contains(t, out, "Design elements")
	require.Contains(t, out, "Live elements")
	require.Contains(t, out, `"id": "chart-revenue"`)
	require.Contains(t, out, `"id": "element-0"`)
	require.Contains(t, out, "--- design")
	require.Contains(t, out, "+++ live")
}

func TestJSON(t *testing.T) {
	t.Parallel()

	res := compare.Diff(designSnapshot(), verticalLive(), 0)
	res.RunID = "run-7"

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, res))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "run-7", decoded["runId"])
	require.Equal(t, false, decoded["match"])

	details := decoded["details"].(map[string]any)
	pattern := details["pattern"].(map[string]any)
	require.Equal(t, "2x2-grid", pattern["expected"])
	require.Equal(t, "1x4-vertical", pattern["actual"])
	require.NotContains(t, details, "sizeDrift")
}
