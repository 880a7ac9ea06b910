package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

var (
	yamlLineRegex = regexp.MustCompile(`line (\d+)`)

	// candidateFiles are looked up in order in the working directory.
	candidateFiles = []string{"layoutcheck.yaml", "layoutcheck.yml", "layoutcheck.toml"}
)

// LoadOptions selects the config file and command-line overrides.
type LoadOptions struct {
	// Path is an explicit config file. Empty means discover one in Dir.
	Path      string
	Dir       string
	Overrides Overrides
}

// Resolved is the outcome of layering defaults, file and overrides.
type Resolved struct {
	Config Config
	// Source is the config file that was applied, empty when none was.
	Source string
	// Warning holds a non-fatal ConfigLoadError when a file was present but
	// could not be used.
	Warning error
}

// Load builds the run configuration: defaults, then the config file, then
// overrides. File problems are reported through Resolved.Warning and leave
// the defaults in place; an invalid merged result is returned as an error.
func Load(opts LoadOptions) (*Resolved, error) {
	res := &Resolved{Config: Default()}

	path := opts.Path
	if path == "" {
		path = Discover(opts.Dir)
	}

	if path != "" {
		cfg, err := LoadFile(path, res.Config)
		if err != nil {
			res.Warning = layouterrors.NewConfigLoadError(path, err)
		} else {
			res.Config = cfg
			res.Source = path
		}
	}

	res.Config = opts.Overrides.Apply(res.Config)

	if err := Validate(&res.Config); err != nil {
		return res, err
	}
	return res, nil
}

// Discover returns the first known config file present in dir, or "".
func Discover(dir string) string {
	if dir == "" {
		dir = "."
	}
	for _, name := range candidateFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile decodes the file at path on top of base. The format follows the
// file extension: .toml is TOML, anything else YAML.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, layouterrors.NewParseError(path, 0, err)
	}

	cfg := base
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return base, layouterrors.NewParseError(path, tomlLine(err), err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return base, layouterrors.NewParseError(path, extractLine(err), err)
		}
	default:
		return base, layouterrors.NewParseError(path, 0, fmt.Errorf("unsupported config format %q", filepath.Ext(path)))
	}

	return cfg, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}

func tomlLine(err error) int {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return perr.Position.Line
	}
	return 0
}
