// Package compare runs both layout sources and diffs their snapshots.
package compare

import (
	"context"
	"math"

	"github.com/google/uuid"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/config"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/logger"
)

// Exit codes of a comparison run.
const (
	ExitMatch    = 0
	ExitMismatch = 1
	ExitFatal    = 2
)

// DesignSource resolves the design side of a comparison.
type DesignSource interface {
	Resolve(ctx context.Context, nodeID string) (layout.Snapshot, error)
}

// LiveSource measures the rendered side of a comparison.
type LiveSource interface {
	Extract(ctx context.Context, url, selector string) (layout.Snapshot, error)
}

// Stage identifies progress through a run.
type Stage string

const (
	StageDesign Stage = "design"
	StageLive   Stage = "live"
	StageDone   Stage = "done"
)

// CountCheck compares element counts.
type CountCheck struct {
	Match    bool `json:"match"`
	Expected int  `json:"expected"`
	Actual   int  `json:"actual"`
}

// PatternCheck compares pattern labels.
type PatternCheck struct {
	Match    bool           `json:"match"`
	Expected layout.Pattern `json:"expected"`
	Actual   layout.Pattern `json:"actual"`
}

// Drift is a design/live element pair whose size differs by more than the
// configured relative tolerance.
type Drift struct {
	Index       int     `json:"index"`
	DesignID    string  `json:"designId"`
	LiveID      string  `json:"liveId"`
	WidthDelta  float64 `json:"widthDelta"`
	HeightDelta float64 `json:"heightDelta"`
}

// Details breaks a result down per check.
type Details struct {
	ElementCount CountCheck   `json:"elementCount"`
	Pattern      PatternCheck `json:"pattern"`
	SizeDrift    []Drift      `json:"sizeDrift,omitempty"`
}

// Result is the outcome of one comparison. Match is true iff the element
// counts and the patterns agree; size drift is informational.
type Result struct {
	RunID           string          `json:"runId"`
	Match           bool            `json:"match"`
	Figma           layout.Snapshot `json:"figma"`
	Live            layout.Snapshot `json:"live"`
	Details         Details         `json:"details"`
	Confidence      float64         `json:"confidence"`
	ExpectedPattern layout.Pattern  `json:"expectedPattern"`
	Tolerance       float64         `json:"tolerance"`
}

// ExitCode maps the result to the process exit code.
func (r *Result) ExitCode() int {
	if r.Match {
		return ExitMatch
	}
	return ExitMismatch
}

// Comparator wires the two sources together.
type Comparator struct {
	Design DesignSource
	Live   LiveSource
	Logger *logger.Logger
	// OnStage, when set, is called as the run enters each stage.
	OnStage func(Stage)
	// NewRunID defaults to a random UUID.
	NewRunID func() string
}

// Compare resolves the design node, measures the live page and diffs them.
// Source errors are returned as-is; a mismatch is a Result, not an error.
func (c *Comparator) Compare(ctx context.Context, cfg config.Config) (*Result, error) {
	newID := c.NewRunID
	if newID == nil {
		newID = uuid.NewString
	}
	runID := newID()
	log := c.Logger.WithFields(map[string]any{"run_id": runID, "node_id": cfg.FigmaNodeID, "url": cfg.TargetURL})

	c.stage(StageDesign)
	design, err := c.Design.Resolve(ctx, cfg.FigmaNodeID)
	if err != nil {
		log.Error(err, "design source failed")
		return nil, err
	}
	log.WithFields(map[string]any{"pattern": design.Pattern, "elements": len(design.Elements)}).Debug("design layout resolved")

	c.stage(StageLive)
	live, err := c.Live.Extract(ctx, cfg.TargetURL, cfg.ElementSelector)
	if err != nil {
		log.Error(err, "live render failed")
		return nil, err
	}
	log.WithFields(map[string]any{"pattern": live.Pattern, "elements": len(live.Elements)}).Debug("live layout measured")

	res := Diff(design, live, cfg.Tolerance)
	res.RunID = runID
	res.ExpectedPattern = cfg.ExpectedPattern

	c.stage(StageDone)
	log.WithFields(map[string]any{"match": res.Match, "confidence": res.Confidence}).Info("comparison complete")
	return res, nil
}

func (c *Comparator) stage(s Stage) {
	if c.OnStage != nil {
		c.OnStage(s)
	}
}

// Diff compares two snapshots. tolerance is the relative size difference
// above which a paired element is reported as drifted; zero disables it.
func Diff(design, live layout.Snapshot, tolerance float64) *Result {
	count := CountCheck{
		Expected: len(design.Elements),
		Actual:   len(live.Elements),
	}
	count.Match = count.Expected == count.Actual

	pattern := PatternCheck{
		Expected: design.Pattern,
		Actual:   live.Pattern,
	}
	pattern.Match = pattern.Expected == pattern.Actual

	return &Result{
		Match:      count.Match && pattern.Match,
		Figma:      design,
		Live:       live,
		Confidence: math.Min(design.Confidence, live.Confidence),
		Tolerance:  tolerance,
		Details: Details{
			ElementCount: count,
			Pattern:      pattern,
			SizeDrift:    sizeDrift(design.Elements, live.Elements, tolerance),
		},
	}
}

// sizeDrift pairs elements in reading order (rows top to bottom, then left
// to right) and reports pairs whose width or height differs by more than
// tolerance.
func sizeDrift(design, live []layout.Rectangle, tolerance float64) []Drift {
	if tolerance <= 0 {
		return nil
	}

	d := readingOrder(design)
	l := readingOrder(live)
	n := min(len(d), len(l))

	var out []Drift
	for i := 0; i < n; i++ {
		dw := geometry.RelativeDelta(d[i].Bounds.Width, l[i].Bounds.Width)
		dh := geometry.RelativeDelta(d[i].Bounds.Height, l[i].Bounds.Height)
		if dw > tolerance || dh > tolerance {
			out = append(out, Drift{Index: i, DesignID: d[i].ID, LiveID: l[i].ID, WidthDelta: dw, HeightDelta: dh})
		}
	}
	return out
}

func readingOrder(rects []layout.Rectangle) []layout.Rectangle {
	var out []layout.Rectangle
	for _, row := range layout.GroupRows(rects, layout.DefaultAlignmentTolerance) {
		out = append(out, row...)
	}
	return out
}
