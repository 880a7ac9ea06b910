// Package render measures the live page: it drives a headless Chromium to a
// URL and reads the bounding box of every element matching a selector.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/logger"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

// Defaults applied by NewExtractor when Options leaves a field zero.
const (
	DefaultViewportWidth     = 1440
	DefaultViewportHeight    = 900
	DefaultWaitTimeout       = 10 * time.Second
	DefaultNavigationTimeout = 30 * time.Second

	// ElementType tags every rectangle read from the live page.
	ElementType = "detected"
)

// ErrNoElements is returned when the selector matched but no visible box
// was read.
var ErrNoElements = errors.New("selector matched no measurable elements")

// Viewport is the emulated browser window.
type Viewport struct {
	Width  int
	Height int
}

// Options configures an Extractor.
type Options struct {
	Viewport          Viewport
	WaitTimeout       time.Duration
	NavigationTimeout time.Duration
	// Stealth opens pages with automation fingerprints masked.
	Stealth bool
	// BrowserBin overrides the Chromium binary; empty lets the launcher
	// locate or download one.
	BrowserBin string
	Logger     *logger.Logger
}

func (o *Options) defaults() {
	if o.Viewport.Width <= 0 {
		o.Viewport.Width = DefaultViewportWidth
	}
	if o.Viewport.Height <= 0 {
		o.Viewport.Height = DefaultViewportHeight
	}
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = DefaultWaitTimeout
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
}

// session is one browser with one page open. Close releases both.
type session interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	Boxes(ctx context.Context, selector string) ([]geometry.Bounds, error)
	Close() error
}

type launchFunc func(ctx context.Context, opts Options) (session, error)

// Extractor measures live pages. Each Extract call owns its own browser.
type Extractor struct {
	opts   Options
	launch launchFunc
}

// NewExtractor returns an Extractor backed by a local headless Chromium.
func NewExtractor(opts Options) *Extractor {
	opts.defaults()
	return &Extractor{opts: opts, launch: launchRod}
}

// Options returns the effective options after defaults.
func (e *Extractor) Options() Options {
	return e.opts
}

// Extract loads url, waits for selector and returns one rectangle per
// matching element, classified and scored. Failures are RenderErrors; the
// browser is closed on every path.
func (e *Extractor) Extract(ctx context.Context, url, selector string) (layout.Snapshot, error) {
	log := e.opts.Logger.WithFields(map[string]any{"url": url, "selector": selector})

	sess, err := e.launch(ctx, e.opts)
	if err != nil {
		return layout.Snapshot{}, layouterrors.NewRenderError("launch", url, "", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn(cerr, "closing browser failed")
		}
	}()

	log.Debug("navigating")
	if err := sess.Navigate(ctx, url); err != nil {
		return layout.Snapshot{}, layouterrors.NewRenderError("navigate", url, "", err)
	}

	if err := sess.WaitFor(ctx, selector, e.opts.WaitTimeout); err != nil {
		return layout.Snapshot{}, layouterrors.NewRenderError("wait", url, selector,
			fmt.Errorf("no element within %s: %w", e.opts.WaitTimeout, err))
	}

	boxes, err := sess.Boxes(ctx, selector)
	if err != nil {
		return layout.Snapshot{}, layouterrors.NewRenderError("measure", url, selector, err)
	}
	boxes = visible(boxes)
	if len(boxes) == 0 {
		return layout.Snapshot{}, layouterrors.NewRenderError("measure", url, selector, ErrNoElements)
	}

	rects := make([]layout.Rectangle, len(boxes))
	for i, b := range boxes {
		rects[i] = layout.Rectangle{ID: fmt.Sprintf("element-%d", i), Bounds: b, Type: ElementType}
	}

	log.WithField("elements", len(rects)).Debug("measured live layout")
	return layout.NewSnapshot("live:"+url, rects), nil
}

// visible drops boxes with no area, which is what hidden elements report.
func visible(boxes []geometry.Bounds) []geometry.Bounds {
	out := make([]geometry.Bounds, 0, len(boxes))
	for _, b := range boxes {
		if b.Width > 0 && b.Height > 0 {
			out = append(out, b)
		}
	}
	return out
}
