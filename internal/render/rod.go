package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/geometry"
)

// measureScript returns the viewport-relative box of every rendered match,
// in document order. Hidden matches have an empty box and are dropped.
const measureScript = `(sel) => Array.from(document.querySelectorAll(sel)).map((el) => {
	const r = el.getBoundingClientRect();
	return { x: r.x, y: r.y, width: r.width, height: r.height };
}).filter((r) => r.width > 0 && r.height > 0)`

type rodSession struct {
	lnch       *launcher.Launcher
	browser    *rod.Browser
	page       *rod.Page
	navTimeout time.Duration
}

func launchRod(ctx context.Context, opts Options) (session, error) {
	l := launcher.New().Context(ctx).Headless(true)
	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("browser: launch: %w", err)
	}
	s := &rodSession{lnch: l, navTimeout: opts.NavigationTimeout}

	b := rod.New().Context(ctx).ControlURL(u)
	if err := b.Connect(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b

	var page *rod.Page
	if opts.Stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	s.page = page

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Viewport.Width,
		Height:            opts.Viewport.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("browser: viewport: %w", err)
	}

	return s, nil
}

// Navigate loads url and blocks until the page reports network idle.
func (s *rodSession) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()

	page := s.page.Context(navCtx)
	wait := page.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := page.Navigate(url); err != nil {
		return err
	}
	wait()

	if err := navCtx.Err(); err != nil {
		return fmt.Errorf("waiting for network idle: %w", err)
	}
	return nil
}

// WaitFor blocks until selector matches at least one visible element.
func (s *rodSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	page := s.page.Context(ctx).Timeout(timeout)
	defer page.CancelTimeout()

	el, err := page.Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

// Boxes reads every match's bounding box.
func (s *rodSession) Boxes(ctx context.Context, selector string) ([]geometry.Bounds, error) {
	res, err := s.page.Context(ctx).Eval(measureScript, selector)
	if err != nil {
		return nil, err
	}

	var boxes []geometry.Bounds
	if err := res.Value.Unmarshal(&boxes); err != nil {
		return nil, fmt.Errorf("decode boxes: %w", err)
	}
	return boxes, nil
}

// Close shuts the browser and removes the launcher's profile directory.
func (s *rodSession) Close() error {
	var errs []error
	if s.browser != nil {
		// The run context may already be cancelled; closing must still reach Chromium.
		if err := s.browser.Context(context.Background()).Close(); err != nil {
			errs = append(errs, err)
		}
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Kill()
		s.lnch.Cleanup()
		s.lnch = nil
	}
	return errors.Join(errs...)
}
