package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/compare"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/config"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/figma"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/logger"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/provenance"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/render"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/report"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/tui"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/watch"
)

type compareOptions struct {
	root *rootFlags

	FigmaNodeID string
	TargetURL   string
	Selector    string
	CachePath   string
	Debug       bool
	Strict      bool
	JSON        bool
	Watch       bool

	overrides config.Overrides
	// logOut is held while the spinner owns stderr.
	logOut *logger.HeldWriter
}

var (
	compareCmdRunner = runCompare
	// newComparator builds the comparator for a resolved config.
	newComparator = defaultComparator
	isTerminal    = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
)

func newCompareCmd(root *rootFlags) *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the design layout with the live page (default command)",
		Long: `Compare resolves the design node's panels from the cache artifact (or the
built-in fixture), measures the elements matching the selector on the live
page, and reports whether element count and layout pattern agree.

Exit codes: 0 match, 1 mismatch, 2 fatal error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.root = root
			return compareCmdRunner(cmd, *opts)
		},
	}

	bindCompareFlags(cmd, opts)
	return cmd
}

func bindCompareFlags(cmd *cobra.Command, opts *compareOptions) {
	f := cmd.Flags()
	f.StringVar(&opts.FigmaNodeID, "figma", config.DefaultFigmaNodeID, "Design node id")
	f.StringVar(&opts.TargetURL, "url", config.DefaultTargetURL, "URL of the rendered page")
	f.StringVar(&opts.Selector, "selector", config.DefaultElementSelector, "CSS selector matching the panels")
	f.StringVar(&opts.CachePath, "cache", config.DefaultCachePath, "Design cache artifact")
	f.BoolVar(&opts.Debug, "debug", false, "Dump both rectangle sets and their diff")
	f.BoolVar(&opts.Strict, "strict", false, "Fail when the cache has no data for the node instead of using the fixture")
	f.BoolVar(&opts.JSON, "json", false, "Output the result as JSON")
	f.BoolVar(&opts.Watch, "watch", false, "Re-run when the cache artifact or config file changes")
}

// collectOverrides keeps only flags the user actually set, so config file
// values are not masked by flag defaults.
func collectOverrides(cmd *cobra.Command, opts *compareOptions) config.Overrides {
	var o config.Overrides
	f := cmd.Flags()
	if f.Changed("figma") {
		o.FigmaNodeID = &opts.FigmaNodeID
	}
	if f.Changed("url") {
		o.TargetURL = &opts.TargetURL
	}
	if f.Changed("selector") {
		o.ElementSelector = &opts.Selector
	}
	if f.Changed("cache") {
		o.CachePath = &opts.CachePath
	}
	if f.Changed("debug") {
		o.Debug = &opts.Debug
	}
	if f.Changed("strict") {
		o.Strict = &opts.Strict
	}
	return o
}

func runCompare(cmd *cobra.Command, opts compareOptions) error {
	opts.overrides = collectOverrides(cmd, &opts)

	opts.logOut = logger.NewHeldWriter(cmd.ErrOrStderr())
	log, err := newLogger(opts.root.verbose, opts.logOut)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	cfg, source, err := loadConfig(opts.root, opts.overrides, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := compareOnce(ctx, cmd, cfg, opts, log)
	if !opts.Watch {
		return err
	}
	if err != nil && !isMismatch(err) {
		log.Error(err, "comparison failed")
	}

	return watchAndCompare(ctx, cmd, cfg, source, opts, log, res)
}

func compareOnce(ctx context.Context, cmd *cobra.Command, cfg config.Config, opts compareOptions, log *logger.Logger) (*compare.Result, error) {
	warnIfCacheStale(cfg, log)

	c := newComparator(cfg, log)
	out := cmd.OutOrStdout()

	var (
		res *compare.Result
		err error
	)
	if !opts.JSON && !opts.Watch && isTerminal(out) {
		target := tui.Target{NodeID: cfg.FigmaNodeID, URL: cfg.TargetURL}
		if opts.logOut != nil {
			opts.logOut.Hold()
		}
		res, err = tui.Run(ctx, cmd.InOrStdin(), cmd.ErrOrStderr(), target,
			func(ctx context.Context, onStage func(compare.Stage)) (*compare.Result, error) {
				c.OnStage = onStage
				return c.Compare(ctx, cfg)
			})
		if opts.logOut != nil {
			_ = opts.logOut.Release()
		}
	} else {
		res, err = c.Compare(ctx, cfg)
	}
	if err != nil {
		return nil, err
	}

	if opts.JSON {
		err = report.JSON(out, res)
	} else {
		err = report.Text(out, res, report.Options{Debug: cfg.Debug})
	}
	if err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}

	if !res.Match {
		return res, &mismatchError{result: res}
	}
	return res, nil
}

// watchAndCompare re-runs the comparison on every change to the cache
// artifact or the config file until ctx is cancelled. A reload that moves
// cachePath restarts the watcher on the new location.
func watchAndCompare(ctx context.Context, cmd *cobra.Command, cfg config.Config, source string, opts compareOptions, log *logger.Logger, last *compare.Result) error {
	for {
		moved, err := watchSession(ctx, cmd, &cfg, source, opts, log, &last)
		if err != nil {
			return err
		}
		if !moved {
			break
		}
	}

	if last != nil && !last.Match {
		return &mismatchError{result: last}
	}
	return nil
}

// watchSession watches the current cachePath and returns moved=true when a
// config reload pointed cachePath somewhere else.
func watchSession(ctx context.Context, cmd *cobra.Command, cfg *config.Config, source string, opts compareOptions, log *logger.Logger, last **compare.Result) (moved bool, err error) {
	// The extract step may not have run yet; watch the directory it will write.
	if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0o755); err != nil {
		return false, fmt.Errorf("create cache directory: %w", err)
	}

	w, err := watch.New([]string{cfg.CachePath, source}, watch.Options{Logger: log})
	if err != nil {
		return false, fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	log.WithField("files", w.Files()).Info("watching for changes, ctrl+c to stop")

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = w.Run(sessionCtx, func(path string) {
		log.WithField("path", path).Info("change detected, comparing again")

		if source != "" && path == absPath(source) {
			reloaded, _, err := loadConfig(opts.root, opts.overrides, log)
			if err != nil {
				log.Error(err, "config reload failed, keeping previous config")
			} else {
				if absPath(reloaded.CachePath) != absPath(cfg.CachePath) {
					log.WithFields(map[string]any{
						"from": cfg.CachePath,
						"to":   reloaded.CachePath,
					}).Info("cache path changed, moving watcher")
					moved = true
				}
				*cfg = reloaded
			}
		}

		res, err := compareOnce(ctx, cmd, *cfg, opts, log)
		if moved {
			cancel()
		}
		if err != nil && !isMismatch(err) {
			log.Error(err, "comparison failed")
			return
		}
		*last = res
	})
	if moved && ctx.Err() == nil {
		return true, nil
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return false, err
	}
	return false, nil
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}

func isMismatch(err error) bool {
	var m *mismatchError
	return errors.As(err, &m)
}

func defaultComparator(cfg config.Config, log *logger.Logger) *compare.Comparator {
	return &compare.Comparator{
		Design: designSource(cfg, log),
		Live: render.NewExtractor(render.Options{
			Viewport:    render.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
			WaitTimeout: cfg.WaitTimeout(),
			Stealth:     cfg.Stealth,
			BrowserBin:  os.Getenv("LAYOUTCHECK_BROWSER"),
			Logger:      log.WithField("component", "render"),
		}),
		Logger: log,
	}
}

// designSource reads the cache, falling back to the fixture unless strict.
func designSource(cfg config.Config, log *logger.Logger) compare.DesignSource {
	cache := figma.CacheSource{Path: cfg.CachePath}
	if cfg.Strict {
		return cache
	}
	return figma.FallbackSource{
		Primary:  cache,
		Fallback: figma.FixtureSource{},
		Logger:   log.WithField("component", "figma"),
	}
}

func warnIfCacheStale(cfg config.Config, log *logger.Logger) {
	art, err := figma.ReadArtifact(cfg.CachePath)
	if err != nil || art.Revision == "" {
		return
	}
	head, err := provenance.HeadRevision(".")
	if err != nil {
		log.WithField("error", err.Error()).Debug("no git revision to check cache against")
		return
	}
	if provenance.Stale(art.Revision, head) {
		log.WithFields(map[string]any{
			"cache_revision": provenance.Short(art.Revision),
			"head_revision":  provenance.Short(head),
		}).Warn(nil, "design cache was extracted at a different commit")
	}
}
