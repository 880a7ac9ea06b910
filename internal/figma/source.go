// Package figma resolves a design node into a layout snapshot. Sources are
// explicit: a cache artifact written by the extract command, a fixed
// fixture, or the cache with the fixture as fallback.
package figma

import (
	"context"
	"errors"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/logger"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

// ErrNodeNotCached is wrapped by SourceError when the cache holds no data for
// the requested node.
var ErrNodeNotCached = errors.New("node not present in cache artifact")

// Source resolves a design node id into a snapshot.
type Source interface {
	Resolve(ctx context.Context, nodeID string) (layout.Snapshot, error)
}

// FixtureConfidence is the confidence reported by FixtureSource.
const FixtureConfidence = 0.95

// FixtureSource returns the reference dashboard: four 490×300 chart panels
// in a 2×2 grid. It answers for any node id.
type FixtureSource struct{}

// Resolve implements Source.
func (FixtureSource) Resolve(_ context.Context, nodeID string) (layout.Snapshot, error) {
	return layout.Snapshot{
		SourceID:   "fixture:" + nodeID,
		Elements:   FixtureElements(),
		Pattern:    layout.PatternGrid2x2,
		Confidence: FixtureConfidence,
	}, nil
}

// FixtureElements returns a fresh copy of the fixture panels.
func FixtureElements() []layout.Rectangle {
	origins := [][2]float64{{0, 0}, {500, 0}, {0, 300}, {500, 300}}
	ids := []string{"chart-revenue", "chart-users", "chart-orders", "chart-conversion"}

	out := make([]layout.Rectangle, len(origins))
	for i, o := range origins {
		out[i] = layout.Rectangle{
			ID:     ids[i],
			Bounds: geometry.Bounds{X: o[0], Y: o[1], Width: 490, Height: 300},
			Type:   "chart",
		}
	}
	return out
}

// FallbackSource asks Primary first and answers from Fallback when Primary
// reports a SourceError. Other errors, such as cancellation, propagate.
type FallbackSource struct {
	Primary  Source
	Fallback Source
	Logger   *logger.Logger
}

// Resolve implements Source.
func (s FallbackSource) Resolve(ctx context.Context, nodeID string) (layout.Snapshot, error) {
	snap, err := s.Primary.Resolve(ctx, nodeID)
	if err == nil {
		return snap, nil
	}

	var sourceErr *layouterrors.SourceError
	if !errors.As(err, &sourceErr) || s.Fallback == nil {
		return layout.Snapshot{}, err
	}

	s.Logger.WithField("node_id", nodeID).Warn(err, "design cache unusable, falling back to fixture")
	return s.Fallback.Resolve(ctx, nodeID)
}
