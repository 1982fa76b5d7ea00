package export

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/bbox"
	"github.com/apehub/apegen/internal/render"
	"github.com/apehub/apegen/internal/state"
)

func newTestExporter(t *testing.T) *Exporter {
	t.Helper()

	dir := t.TempDir()
	_, err := assets.WriteDefaultAssets(dir, 128, 99, false)
	require.NoError(t, err)

	loader := assets.NewLoader(dir, bbox.NewCache(nil), slog.New(slog.DiscardHandler))
	renderer, err := render.New(loader, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	exporter, err := New(renderer, slog.New(slog.DiscardHandler), "speed")
	require.NoError(t, err)
	return exporter
}

func TestExportForcesDebugOffAndRestores(t *testing.T) {
	e := newTestExporter(t)

	comp := state.Default()
	comp.Debug = true

	var withDebug bytes.Buffer
	require.NoError(t, e.Export(context.Background(), comp, &withDebug))
	require.True(t, comp.Debug, "export did not restore the debug flag")

	comp.Debug = false
	var withoutDebug bytes.Buffer
	require.NoError(t, e.Export(context.Background(), comp, &withoutDebug))

	require.Equal(t, withoutDebug.Bytes(), withDebug.Bytes(),
		"diagnostic overlay leaked into exported output")
}

func TestExportFileUsesTimestampedName(t *testing.T) {
	e := newTestExporter(t)
	dir := t.TempDir()

	path, err := e.ExportFile(context.Background(), state.Default(), dir)
	require.NoError(t, err)
	require.FileExists(t, path)

	base := filepath.Base(path)
	require.Regexp(t, regexp.MustCompile(`^apehub-pfp-\d{13}\.png$`), base)

	// File is a decodable PNG, not a truncated artifact.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestFilenameEmbedsMillis(t *testing.T) {
	now := time.UnixMilli(1756400000123)
	name := Filename(now)
	if !strings.Contains(name, "1756400000123") {
		t.Errorf("Filename(%v) = %q, want millisecond timestamp embedded", now, name)
	}
}

func TestNewRejectsUnknownCompression(t *testing.T) {
	_, err := New(nil, nil, "ultra")
	require.Error(t, err)
}
