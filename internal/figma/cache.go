package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/superelastic/nextjs-figma-playwright-wsl-template/internal/layout"
	layouterrors "github.com/superelastic/nextjs-figma-playwright-wsl-template/pkg/errors"
)

const lockRetryDelay = 50 * time.Millisecond

// Artifact is the on-disk cache shape written by the extract command.
type Artifact struct {
	NodeID     string             `json:"nodeId"`
	Elements   []layout.Rectangle `json:"elements"`
	Pattern    layout.Pattern     `json:"pattern"`
	Confidence float64            `json:"confidence"`
	Timestamp  time.Time          `json:"timestamp"`
	// Revision is the git HEAD the artifact was extracted at, when known.
	Revision string `json:"revision,omitempty"`
}

// NewArtifact records snap as the cached layout of nodeID.
func NewArtifact(nodeID string, snap layout.Snapshot, at time.Time) Artifact {
	return Artifact{
		NodeID:     nodeID,
		Elements:   append([]layout.Rectangle(nil), snap.Elements...),
		Pattern:    snap.Pattern,
		Confidence: snap.Confidence,
		Timestamp:  at.UTC(),
	}
}

// ReadArtifact loads and checks the artifact at path. A missing file returns
// an error satisfying errors.Is(err, fs.ErrNotExist).
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, layouterrors.NewParseError(path, 0, err)
	}
	if !art.Pattern.Valid() {
		return nil, layouterrors.NewParseError(path, 0, fmt.Errorf("unknown layout pattern %q", art.Pattern))
	}
	if art.Confidence < 0 || art.Confidence > 1 {
		return nil, layouterrors.NewParseError(path, 0, fmt.Errorf("confidence %v outside [0,1]", art.Confidence))
	}

	return &art, nil
}

// WriteArtifact writes art to path atomically while holding an exclusive
// lock on path+".lock".
func WriteArtifact(ctx context.Context, path string, art Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock cache: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock cache %s", path)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// CacheSource serves snapshots from the artifact at Path. Coordinates are
// normalised on load; pattern and confidence are taken as recorded.
type CacheSource struct {
	Path string
}

// Resolve implements Source.
func (s CacheSource) Resolve(ctx context.Context, nodeID string) (layout.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return layout.Snapshot{}, err
	}

	art, err := ReadArtifact(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return layout.Snapshot{}, layouterrors.NewSourceError("cache", nodeID, fmt.Errorf("%w: %s missing", ErrNodeNotCached, s.Path))
		}
		return layout.Snapshot{}, layouterrors.NewSourceError("cache", nodeID, err)
	}

	if art.NodeID != nodeID {
		return layout.Snapshot{}, layouterrors.NewSourceError("cache", nodeID, fmt.Errorf("%w: artifact holds node %s", ErrNodeNotCached, art.NodeID))
	}
	if len(art.Elements) == 0 {
		return layout.Snapshot{}, layouterrors.NewSourceError("cache", nodeID, errors.New("artifact has no elements"))
	}

	return layout.Snapshot{
		SourceID:   "figma:" + nodeID,
		Elements:   Normalize(art.Elements),
		Pattern:    art.Pattern,
		Confidence: art.Confidence,
	}, nil
}
