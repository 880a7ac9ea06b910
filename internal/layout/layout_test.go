package layout

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
)

func rect(x, y, w, h float64) Rectangle {
	return Rectangle{ID: fmt.Sprintf("r-%v-%v", x, y), Bounds: geometry.Bounds{X: x, Y: y, Width: w, Height: h}, Type: "test"}
}

func panels(positions ...[2]float64) []Rectangle {
	out := make([]Rectangle, 0, len(positions))
	for _, p := range positions {
		out = append(out, rect(p[0], p[1], 490, 300))
	}
	return out
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		rects []Rectangle
		want  Pattern
	}{
		{
			name:  "2x2 grid",
			rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}, [2]float64{500, 300}),
			want:  PatternGrid2x2,
		},
		{
			name:  "2x2 grid in shuffled input order",
			rects: panels([2]float64{500, 300}, [2]float64{0, 300}, [2]float64{500, 0}, [2]float64{0, 0}),
			want:  PatternGrid2x2,
		},
		{
			name:  "2x2 grid with small jitter",
			rects: panels([2]float64{3, 0}, [2]float64{512, 10}, [2]float64{0, 320}, [2]float64{498, 305}),
			want:  PatternGrid2x2,
		},
		{
			name:  "vertical stack",
			rects: panels([2]float64{100, 0}, [2]float64{100, 320}, [2]float64{100, 640}, [2]float64{100, 960}),
			want:  PatternVertical,
		},
		{
			name:  "vertical stack at x=20",
			rects: panels([2]float64{20, 100}, [2]float64{20, 420}, [2]float64{20, 740}, [2]float64{20, 1060}),
			want:  PatternVertical,
		},
		{
			name:  "horizontal row",
			rects: panels([2]float64{0, 100}, [2]float64{500, 100}, [2]float64{1000, 100}, [2]float64{1500, 100}),
			want:  PatternHorizontal,
		},
		{
			name:  "horizontal row with close spacing",
			rects: panels([2]float64{0, 100}, [2]float64{60, 100}, [2]float64{120, 100}, [2]float64{180, 100}),
			want:  PatternHorizontal,
		},
		{
			name:  "rows aligned but columns not",
			rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{200, 300}, [2]float64{700, 300}),
			want:  PatternScattered,
		},
		{
			name:  "diagonal",
			rects: panels([2]float64{0, 0}, [2]float64{200, 200}, [2]float64{400, 400}, [2]float64{600, 600}),
			want:  PatternScattered,
		},
		{
			name:  "three elements",
			rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}),
			want:  PatternUnknown,
		},
		{
			name:  "five elements",
			rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}, [2]float64{500, 300}, [2]float64{0, 600}),
			want:  PatternUnknown,
		},
		{
			name: "empty",
			want: PatternUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.rects))
		})
	}
}

func TestClassifyAlignmentBoundary(t *testing.T) {
	t.Parallel()

	th := DefaultThresholds()
	// Row offsets of exactly the tolerance break row alignment.
	atBoundary := panels([2]float64{0, 0}, [2]float64{500, th.Alignment}, [2]float64{0, 300}, [2]float64{500, 300 + th.Alignment})
	require.NotEqual(t, PatternGrid2x2, ClassifyWith(atBoundary, th))

	inside := panels([2]float64{0, 0}, [2]float64{500, th.Alignment - 1}, [2]float64{0, 300}, [2]float64{500, 300 + th.Alignment - 1})
	require.Equal(t, PatternGrid2x2, ClassifyWith(inside, th))

	loose := th
	loose.Alignment = 100
	require.Equal(t, PatternGrid2x2, ClassifyWith(atBoundary, loose))
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	input := panels([2]float64{500, 300}, [2]float64{0, 300}, [2]float64{500, 0}, [2]float64{0, 0})
	before := append([]Rectangle(nil), input...)

	first := Classify(input)
	second := Classify(input)

	require.Equal(t, first, second)
	require.Equal(t, before, input)
	require.Equal(t, Score(input), Score(input))
}

func TestScore(t *testing.T) {
	t.Parallel()

	grid := panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}, [2]float64{500, 300})
	require.Equal(t, 0.95, Score(grid))

	require.Zero(t, Score(grid[:3]))
	require.Zero(t, Score(append(grid, rect(0, 600, 490, 300))))
	require.Zero(t, Score(nil))

	// widths 490,490,500,500: variance 25, heights uniform.
	mixed := []Rectangle{rect(0, 0, 490, 300), rect(500, 0, 490, 300), rect(0, 300, 500, 300), rect(500, 300, 500, 300)}
	require.InDelta(t, 0.875, Score(mixed), 1e-9)

	irregular := []Rectangle{rect(0, 0, 100, 50), rect(500, 0, 600, 300), rect(0, 300, 200, 80), rect(500, 300, 900, 400)}
	require.Equal(t, MinConfidence, Score(irregular))
}

func TestScoreWithCustomScale(t *testing.T) {
	t.Parallel()

	mixed := []Rectangle{rect(0, 0, 490, 300), rect(500, 0, 490, 300), rect(0, 300, 500, 300), rect(500, 300, 500, 300)}
	th := DefaultThresholds()
	th.VarianceScale = 25
	// 1 - 25/50 = 0.5
	require.InDelta(t, 0.5, ScoreWith(mixed, th), 1e-9)
}

func TestParsePattern(t *testing.T) {
	t.Parallel()

	for _, p := range Patterns() {
		parsed, err := ParsePattern(string(p))
		require.NoError(t, err)
		require.Equal(t, p, parsed)
		require.True(t, p.Valid())
		require.NotEmpty(t, p.Description())
	}

	_, err := ParsePattern("3x3-grid")
	require.Error(t, err)
	require.False(t, Pattern("3x3-grid").Valid())
}

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	grid := panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}, [2]float64{500, 300})
	snap := NewSnapshot("live", grid)

	require.Equal(t, "live", snap.SourceID)
	require.Equal(t, PatternGrid2x2, snap.Pattern)
	require.Equal(t, 0.95, snap.Confidence)
	require.Equal(t, grid, snap.Elements)

	grid[0].ID = "changed"
	require.NotEqual(t, "changed", snap.Elements[0].ID)
}

func TestGroupRows(t *testing.T) {
	t.Parallel()

	rows := GroupRows(panels([2]float64{500, 310}, [2]float64{0, 0}, [2]float64{0, 300}, [2]float64{500, 20}), DefaultAlignmentTolerance)
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 2)
	require.Equal(t, 0.0, rows[0][0].Bounds.X)
	require.Equal(t, 500.0, rows[0][1].Bounds.X)
	require.Equal(t, 300.0, rows[1][0].Bounds.Y)
	require.Equal(t, PatternGrid2x2, PatternFromRows(rows))

	require.Nil(t, GroupRows(nil, DefaultAlignmentTolerance))
}

func TestPatternFromRows(t *testing.T) {
	t.Parallel()

	tol := DefaultAlignmentTolerance
	cases := []struct {
		name  string
		rects []Rectangle
		want  Pattern
	}{
		{name: "empty", want: PatternUnknown},
		{name: "column", rects: panels([2]float64{0, 0}, [2]float64{0, 320}, [2]float64{0, 640}, [2]float64{0, 960}), want: PatternVertical},
		{name: "row", rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{1000, 0}, [2]float64{1500, 0}), want: PatternHorizontal},
		{name: "ragged", rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}), want: PatternScattered},
		{name: "3x2", rects: panels([2]float64{0, 0}, [2]float64{500, 0}, [2]float64{0, 300}, [2]float64{500, 300}, [2]float64{0, 600}, [2]float64{500, 600}), want: PatternScattered},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PatternFromRows(GroupRows(tc.rects, tol)))
		})
	}
}
