package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/bbox"
	"github.com/apehub/apegen/internal/export"
	"github.com/apehub/apegen/internal/render"
	"github.com/apehub/apegen/internal/state"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	_, err := assets.WriteDefaultAssets(dir, 128, 5, false)
	require.NoError(t, err)

	discard := slog.New(slog.DiscardHandler)
	loader := assets.NewLoader(dir, bbox.NewCache(nil), discard)
	renderer, err := render.New(loader, discard)
	require.NoError(t, err)
	exporter, err := export.New(renderer, discard, "speed")
	require.NoError(t, err)

	return New(Config{Addr: ":0", ExportDir: t.TempDir()}, renderer, exporter, state.Default(), discard)
}

func TestPreviewIsDisplayScaled(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, size := range []int{128, 512} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview.png?size="+strconv.Itoa(size), nil))
		require.Equal(t, http.StatusOK, rec.Code)

		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		require.Equal(t, size, img.Bounds().Dx())
		require.Equal(t, size, img.Bounds().Dy())
	}
}

func TestPreviewRejectsBadSize(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, q := range []string{"size=0", "size=9999", "size=abc"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview.png?"+q, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestStatePatchAndReadback(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	patch := `{"ape":"ape4","hat":"crown","textContent":"GM","textPosition":"top"}`
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", bytes.NewBufferString(patch)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))

	var comp state.Composition
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comp))
	require.Equal(t, "ape4", comp.Ape)
	require.Equal(t, assets.HatCrown, comp.Accessories.Hat)
	require.Equal(t, "GM", comp.Text.Content)
	require.Equal(t, assets.TextTop, comp.Text.Position)
}

func TestConcurrentFirstPreviews(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	// The very first previews race to produce the initial frame; all of them
	// must block until a render exists instead of encoding a nil frame.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preview.png?size=64", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("preview status = %d", rec.Code)
				return
			}
			if _, err := png.Decode(bytes.NewReader(rec.Body.Bytes())); err != nil {
				t.Errorf("preview not decodable: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestStatePatchRejectsUnknownValues(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	before := s.comp.Clone()
	bad := []string{
		`{"mode":"bogus"}`,
		`{"background":"bg99"}`,
		`{"ape":"gorilla"}`,
		`{"hat":"fedora"}`,
		`{"glasses":"monocle"}`,
		`{"jewelry":"earring"}`,
		`{"textFont":"comic"}`,
		`{"textColor":"gold"}`,
		`{"textColor":"#ffd70"}`,
		`{"textPosition":"left"}`,
		`{"textSize":-1}`,
		`{"ape":"ape2","hat":"fedora"}`,
	}
	for _, body := range bad {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", bytes.NewBufferString(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	require.True(t, s.comp.Equal(before), "rejected patch mutated state")

	// Remote and inline sources are legal background values.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state",
		bytes.NewBufferString(`{"background":"https://cdn.example.com/bg.png"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLockGatesRandomize(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, layer := range []string{"background", "ape", "accessories", "text"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/locks/"+layer, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	before := s.comp.Clone()
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/randomize", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	require.True(t, s.comp.Equal(before), "fully locked composition changed under randomize")
}

func TestUnknownLockRejected(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/locks/watermark", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpointWritesFile(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.FileExists(t, resp["path"])
}
