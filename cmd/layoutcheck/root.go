package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/config"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/logger"
)

type rootFlags struct {
	verbose    bool
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "layoutcheck",
		Short: "Compare a design's panel layout with the rendered page",
		Long: `layoutcheck classifies the chart panels of a design node and of a live page
into a layout pattern (2x2 grid, vertical stack, horizontal row, scattered)
and reports whether they agree.

Exit codes: 0 match, 1 mismatch, 2 fatal error.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Without a subcommand, compare.
			opts.root = flags
			return compareCmdRunner(cmd, *opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: layoutcheck.yaml, .yml or .toml in the working directory)")
	bindCompareFlags(cmd, opts)

	cmd.AddCommand(newCompareCmd(flags))
	cmd.AddCommand(newExtractCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newLogger(verbose bool, w io.Writer) (*logger.Logger, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true, Writer: w})
}

// loadConfig resolves the configuration and logs a config file that could
// not be used.
func loadConfig(flags *rootFlags, overrides config.Overrides, log *logger.Logger) (config.Config, string, error) {
	resolved, err := config.Load(config.LoadOptions{Path: flags.configPath, Overrides: overrides})
	if resolved != nil && resolved.Warning != nil {
		log.Warn(resolved.Warning, "config file ignored, using defaults")
	}
	if err != nil {
		return config.Config{}, "", err
	}
	if resolved.Source != "" {
		log.WithField("path", resolved.Source).Debug("loaded config file")
	}
	return resolved.Config, resolved.Source, nil
}
