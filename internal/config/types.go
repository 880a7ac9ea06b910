package config

import (
	"time"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
)

// Default values used when neither a config file nor a flag sets a field.
const (
	DefaultFigmaNodeID     = "22:21"
	DefaultTargetURL       = "http://localhost:3001"
	DefaultElementSelector = ".ds-panel"
	DefaultExpectedPattern = layout.PatternGrid2x2
	DefaultTolerance       = 0.1
	DefaultViewportWidth   = 1440
	DefaultViewportHeight  = 900
	DefaultTimeoutMillis   = 10000
	DefaultCachePath       = ".layoutcheck/figma-cache.json"
)

// Config is the resolved configuration for one comparison run.
type Config struct {
	FigmaNodeID     string         `yaml:"figmaNodeId" toml:"figmaNodeId" json:"figmaNodeId" validate:"required"`
	TargetURL       string         `yaml:"playwrightUrl" toml:"playwrightUrl" json:"playwrightUrl" validate:"required,url"`
	ElementSelector string         `yaml:"elementSelector" toml:"elementSelector" json:"elementSelector" validate:"required"`
	ExpectedPattern layout.Pattern `yaml:"expectedPattern" toml:"expectedPattern" json:"expectedPattern" validate:"required,pattern"`
	Tolerance       float64        `yaml:"tolerance" toml:"tolerance" json:"tolerance" validate:"gte=0,lte=1"`
	Debug           bool           `yaml:"debug" toml:"debug" json:"debug"`
	Viewport        Viewport       `yaml:"viewport" toml:"viewport" json:"viewport"`
	// Timeout is the selector wait in milliseconds.
	Timeout   int    `yaml:"timeout" toml:"timeout" json:"timeout" validate:"min=1,max=600000"`
	CachePath string `yaml:"cachePath" toml:"cachePath" json:"cachePath" validate:"required"`
	Strict    bool   `yaml:"strict" toml:"strict" json:"strict"`
	Stealth   bool   `yaml:"stealth" toml:"stealth" json:"stealth"`
}

// Viewport is the browser window size used for the live render.
type Viewport struct {
	Width  int `yaml:"width" toml:"width" json:"width" validate:"min=1,max=10000"`
	Height int `yaml:"height" toml:"height" json:"height" validate:"min=1,max=10000"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		FigmaNodeID:     DefaultFigmaNodeID,
		TargetURL:       DefaultTargetURL,
		ElementSelector: DefaultElementSelector,
		ExpectedPattern: DefaultExpectedPattern,
		Tolerance:       DefaultTolerance,
		Viewport:        Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight},
		Timeout:         DefaultTimeoutMillis,
		CachePath:       DefaultCachePath,
	}
}

// WaitTimeout returns Timeout as a duration.
func (c Config) WaitTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// Overrides carries values set explicitly on the command line. Nil fields
// leave the underlying configuration untouched.
type Overrides struct {
	FigmaNodeID     *string
	TargetURL       *string
	ElementSelector *string
	Debug           *bool
	CachePath       *string
	Strict          *bool
}

// Apply returns c with every non-nil override applied.
func (o Overrides) Apply(c Config) Config {
	if o.FigmaNodeID != nil {
		c.FigmaNodeID = *o.FigmaNodeID
	}
	if o.TargetURL != nil {
		c.TargetURL = *o.TargetURL
	}
	if o.ElementSelector != nil {
		c.ElementSelector = *o.ElementSelector
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
	if o.CachePath != nil {
		c.CachePath = *o.CachePath
	}
	if o.Strict != nil {
		c.Strict = *o.Strict
	}
	return c
}
