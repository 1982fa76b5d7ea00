// Package export writes finished compositions to lossless PNG files. The
// export path runs the exact render pipeline the preview uses, at the same
// fixed resolution; what you see is what you export.
package export

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/apehub/apegen/internal/render"
	"github.com/apehub/apegen/internal/state"
)

// Exporter serializes rendered frames. The export surface is allocated per
// export and released afterward to bound memory on constrained hosts.
type Exporter struct {
	renderer *render.Renderer
	logger   *slog.Logger
	encoder  png.Encoder
}

// New creates an exporter. compression is one of "default", "speed",
// "best", or "none"; PNG output is lossless at every level, the setting
// only trades CPU for file size.
func New(renderer *render.Renderer, logger *slog.Logger, compression string) (*Exporter, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	level, err := compressionLevel(compression)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		renderer: renderer,
		logger:   logger,
		encoder:  png.Encoder{CompressionLevel: level},
	}, nil
}

func compressionLevel(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return 0, fmt.Errorf("invalid png compression %q: must be default, speed, best, or none", name)
	}
}

// Export renders comp at the export resolution and writes the PNG to w.
// The debug overlay is forced off for the render and the prior setting is
// restored afterward, so diagnostics never leak into exported output.
func (e *Exporter) Export(ctx context.Context, comp *state.Composition, w io.Writer) error {
	wasDebug := comp.Debug
	comp.Debug = false
	defer func() { comp.Debug = wasDebug }()

	frame := e.renderer.NewFrame()
	e.renderer.Render(ctx, frame, comp)

	if err := e.encoder.Encode(w, frame); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

// ExportFile writes the export into dir under a collision-free timestamped
// name and returns the full path. A failed write never leaves a partial
// file behind.
func (e *Exporter) ExportFile(ctx context.Context, comp *state.Composition, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, Filename(time.Now()))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := e.Export(ctx, comp, file); err != nil {
		file.Close()    // nolint:errcheck
		os.Remove(path) // nolint:errcheck // never offer a corrupt file
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path) // nolint:errcheck
		return "", fmt.Errorf("failed to finish export file: %w", err)
	}

	e.logger.Info("Exported composition", "path", path, "ape", comp.Ape, "mode", comp.Mode)
	return path, nil
}

// Filename returns the export file name for a timestamp. The millisecond
// suffix keeps rapid successive exports from colliding.
func Filename(now time.Time) string {
	return fmt.Sprintf("apehub-pfp-%d.png", now.UnixMilli())
}
