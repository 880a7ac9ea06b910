package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	res, err := Load(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	require.Empty(t, res.Source)
	require.NoError(t, res.Warning)

	cfg := res.Config
	require.Equal(t, "22:21", cfg.FigmaNodeID)
	require.Equal(t, "http://localhost:3001", cfg.TargetURL)
	require.Equal(t, ".ds-panel", cfg.ElementSelector)
	require.Equal(t, layout.PatternGrid2x2, cfg.ExpectedPattern)
	require.Equal(t, 0.1, cfg.Tolerance)
	require.False(t, cfg.Debug)
	require.Equal(t, Viewport{Width: 1440, Height: 900}, cfg.Viewport)
	require.Equal(t, 10*time.Second, cfg.WaitTimeout())
}

func TestLoadLayersFileThenOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "layoutcheck.yaml", `figmaNodeId: "40:1"
playwrightUrl: "http://localhost:4000"
elementSelector: ".chart"
viewport:
  width: 1280
  height: 720
timeout: 5000
`)

	res, err := Load(LoadOptions{
		Dir: dir,
		Overrides: Overrides{
			TargetURL: strPtr("http://127.0.0.1:5000"),
			Debug:     boolPtr(true),
		},
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "layoutcheck.yaml"), res.Source)

	cfg := res.Config
	require.Equal(t, "40:1", cfg.FigmaNodeID)
	require.Equal(t, "http://127.0.0.1:5000", cfg.TargetURL)
	require.Equal(t, ".chart", cfg.ElementSelector)
	require.True(t, cfg.Debug)
	require.Equal(t, Viewport{Width: 1280, Height: 720}, cfg.Viewport)
	require.Equal(t, 5*time.Second, cfg.WaitTimeout())
	// Untouched keys keep their defaults.
	require.Equal(t, layout.PatternGrid2x2, cfg.ExpectedPattern)
	require.Equal(t, DefaultCachePath, cfg.CachePath)
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "layoutcheck.toml", `figmaNodeId = "7:3"
expectedPattern = "1x4-vertical"
strict = true

[viewport]
width = 800
height = 600
`)

	res, err := Load(LoadOptions{Path: path})
	require.NoError(t, err)
	require.Equal(t, "7:3", res.Config.FigmaNodeID)
	require.Equal(t, layout.PatternVertical, res.Config.ExpectedPattern)
	require.True(t, res.Config.Strict)
	require.Equal(t, 800, res.Config.Viewport.Width)
}

func TestLoadBrokenFileWarnsAndKeepsDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "layoutcheck.yaml", "figmaNodeId: [1, 2\nplaywrightUrl: :::\n")

	res, err := Load(LoadOptions{Dir: dir, Overrides: Overrides{ElementSelector: strPtr(".card")}})
	require.NoError(t, err)
	require.Empty(t, res.Source)

	var loadErr *layouterrors.ConfigLoadError
	require.ErrorAs(t, res.Warning, &loadErr)
	var parseErr *layouterrors.ParseError
	require.ErrorAs(t, res.Warning, &parseErr)

	require.Equal(t, DefaultFigmaNodeID, res.Config.FigmaNodeID)
	require.Equal(t, ".card", res.Config.ElementSelector)
}

func TestLoadMissingExplicitFileWarns(t *testing.T) {
	t.Parallel()

	res, err := Load(LoadOptions{Path: filepath.Join(t.TempDir(), "nope.yaml")})
	require.NoError(t, err)

	var loadErr *layouterrors.ConfigLoadError
	require.ErrorAs(t, res.Warning, &loadErr)
	require.Equal(t, Default(), res.Config)
}

func TestLoadInvalidMergedConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "layoutcheck.yml", "expectedPattern: 3x3-grid\n")

	_, err := Load(LoadOptions{Dir: dir})
	require.Error(t, err)

	var validationErr *layouterrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "expectedPattern", validationErr.Field)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "bad url", mutate: func(c *Config) { c.TargetURL = "not a url" }, field: "playwrightUrl"},
		{name: "tolerance above one", mutate: func(c *Config) { c.Tolerance = 1.5 }, field: "tolerance"},
		{name: "zero viewport width", mutate: func(c *Config) { c.Viewport.Width = 0 }, field: "viewport.width"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, field: "timeout"},
		{name: "blank selector", mutate: func(c *Config) { c.ElementSelector = "   " }, field: "elementSelector"},
		{name: "missing node", mutate: func(c *Config) { c.FigmaNodeID = "" }, field: "figmaNodeId"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			err := Validate(&cfg)
			var validationErr *layouterrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.field, validationErr.Field)
		})
	}

	cfg := Default()
	require.NoError(t, Validate(&cfg))
	require.Error(t, Validate(nil))
}

func TestDiscoverPrefersYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.Empty(t, Discover(dir))

	writeFile(t, dir, "layoutcheck.toml", "")
	require.Equal(t, filepath.Join(dir, "layoutcheck.toml"), Discover(dir))

	writeFile(t, dir, "layoutcheck.yaml", "")
	require.Equal(t, filepath.Join(dir, "layoutcheck.yaml"), Discover(dir))
}

func TestOverridesApply(t *testing.T) {
	t.Parallel()

	cfg := Overrides{
		FigmaNodeID: strPtr("1:2"),
		CachePath:   strPtr("/tmp/cache.json"),
		Strict:      boolPtr(true),
	}.Apply(Default())

	require.Equal(t, "1:2", cfg.FigmaNodeID)
	require.Equal(t, "/tmp/cache.json", cfg.CachePath)
	require.True(t, cfg.Strict)
	require.Equal(t, DefaultTargetURL, cfg.TargetURL)
}

func TestExampleConfigsLoad(t *testing.T) {
	t.Parallel()

	yamlRes, err := Load(LoadOptions{Path: filepath.Join("..", "..", "examples", "layoutcheck.yaml")})
	require.NoError(t, err)
	require.NoError(t, yamlRes.Warning)
	require.Equal(t, Default(), yamlRes.Config)

	tomlRes, err := Load(LoadOptions{Path: filepath.Join("..", "..", "examples", "layoutcheck.toml")})
	require.NoError(t, err)
	require.NoError(t, tomlRes.Warning)
	require.Equal(t, Viewport{Width: 1280, Height: 800}, tomlRes.Config.Viewport)
	require.Equal(t, 15*time.Second, tomlRes.Config.WaitTimeout())
	require.Equal(t, layout.PatternGrid2x2, tomlRes.Config.ExpectedPattern)
}
