package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/config"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/figma"
	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/provenance"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

type extractOptions struct {
	root *rootFlags

	MetadataPath string
	Sample       bool
	NodeID       string
	CachePath    string
}

var (
	extractCmdRunner = runExtract
	now              = time.Now
)

func newExtractCmd(root *rootFlags) *cobra.Command {
	opts := extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build the design cache artifact from exported node metadata",
		Long: `Extract reads a design metadata XML document, picks out the chart-sized
frames and rectangles below the requested node, classifies them and writes
the cache artifact that compare reads.

Use --metadata - to read the document from standard input, or --sample to
use the bundled example dashboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.root = root
			if opts.Sample == (opts.MetadataPath != "") {
				return errors.New("exactly one of --metadata or --sample is required")
			}
			var o config.Overrides
			if cmd.Flags().Changed("node") {
				o.FigmaNodeID = &opts.NodeID
			}
			if cmd.Flags().Changed("cache") {
				o.CachePath = &opts.CachePath
			}
			return extractCmdRunner(cmd, opts, o)
		},
	}

	cmd.Flags().StringVar(&opts.MetadataPath, "metadata", "", "Metadata XML file, or - for stdin")
	cmd.Flags().BoolVar(&opts.Sample, "sample", false, "Use the bundled sample metadata")
	cmd.Flags().StringVar(&opts.NodeID, "node", config.DefaultFigmaNodeID, "Design node id to extract")
	cmd.Flags().StringVar(&opts.CachePath, "cache", config.DefaultCachePath, "Cache artifact to write")

	return cmd
}

func runExtract(cmd *cobra.Command, opts extractOptions, overrides config.Overrides) error {
	log, err := newLogger(opts.root.verbose, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	cfg, _, err := loadConfig(opts.root, overrides, log)
	if err != nil {
		return err
	}

	data, source, err := readMetadata(cmd, opts)
	if err != nil {
		return err
	}

	doc, err := figma.ParseMetadata(bytes.NewReader(data))
	if err != nil {
		return layouterrors.NewParseError(source, 0, err)
	}

	snap := figma.ExtractLayout(doc, cfg.FigmaNodeID)
	if len(snap.Elements) == 0 {
		return layouterrors.NewSourceError("metadata", cfg.FigmaNodeID,
			fmt.Errorf("no frame or rectangle larger than %.0fx%.0f in %s", figma.MinChartWidth, figma.MinChartHeight, source))
	}

	art := figma.NewArtifact(cfg.FigmaNodeID, snap, now())
	if rev, err := provenance.HeadRevision("."); err == nil {
		art.Revision = rev
	} else {
		log.WithField("error", err.Error()).Debug("artifact not stamped with a git revision")
	}

	if err := figma.WriteArtifact(cmd.Context(), cfg.CachePath, art); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}

	log.WithFields(map[string]any{
		"node_id":  cfg.FigmaNodeID,
		"elements": len(snap.Elements),
		"pattern":  snap.Pattern,
		"path":     cfg.CachePath,
	}).Debug("cache artifact written")

	fmt.Fprintf(cmd.OutOrStdout(), "✔ Cached %d elements for node %s (%s, confidence %.0f%%) in %s\n",
		len(snap.Elements), cfg.FigmaNodeID, snap.Pattern, snap.Confidence*100, cfg.CachePath)
	return nil
}

func readMetadata(cmd *cobra.Command, opts extractOptions) ([]byte, string, error) {
	switch {
	case opts.Sample:
		return figma.SampleMetadata, "sample", nil
	case opts.MetadataPath == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read metadata from stdin: %w", err)
		}
		return data, "stdin", nil
	default:
		data, err := os.ReadFile(opts.MetadataPath)
		if err != nil {
			return nil, "", fmt.Errorf("read metadata: %w", err)
		}
		return data, opts.MetadataPath, nil
	}
}
