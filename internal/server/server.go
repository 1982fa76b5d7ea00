// Package server exposes the generator over HTTP for live preview. Every
// preview is the fixed-resolution pipeline output scaled for display, so
// the preview shows exactly what an export would contain.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math/rand"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/gift"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/export"
	"github.com/apehub/apegen/internal/geom"
	"github.com/apehub/apegen/internal/render"
	"github.com/apehub/apegen/internal/state"
)

// Config configures the preview server.
type Config struct {
	Addr      string
	ExportDir string
}

// Server serializes all composition mutation through a single mutex, the
// service equivalent of the one browser event loop the original UI relied
// on. Renders triggered by mutations are coalesced.
type Server struct {
	cfg      Config
	renderer *render.Renderer
	exporter *export.Exporter
	logger   *slog.Logger
	rng      *rand.Rand

	mu        sync.Mutex
	comp      *state.Composition
	frame     *image.NRGBA
	dirty     bool
	coalescer *render.Coalescer
}

// New creates a preview server around an initial composition.
func New(cfg Config, renderer *render.Renderer, exporter *export.Exporter, comp *state.Composition, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		cfg:      cfg,
		renderer: renderer,
		exporter: exporter,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		comp:     comp,
		dirty:    true,
	}
	s.coalescer = render.NewCoalescer(s.renderFrame)
	return s
}

// renderFrame redraws the current composition into a fresh frame and swaps
// it in, so an in-flight preview encode never observes a half-drawn frame.
func (s *Server) renderFrame() {
	s.mu.Lock()
	comp := s.comp.Clone()
	s.mu.Unlock()

	frame := s.renderer.NewFrame()
	s.renderer.Render(context.Background(), frame, comp)

	s.mu.Lock()
	s.frame = frame
	s.dirty = false
	s.mu.Unlock()
}

func (s *Server) invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	s.coalescer.Request()
}

// Handler returns the HTTP mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /preview.png", s.handlePreview)
	mux.HandleFunc("GET /state", s.handleGetState)
	mux.HandleFunc("POST /state", s.handlePatchState)
	mux.HandleFunc("POST /randomize", s.handleRandomize)
	mux.HandleFunc("POST /locks/{layer}", s.handleToggleLock)
	mux.HandleFunc("POST /export", s.handleExport)
	return withCORS(mux)
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("preview server listening", "addr", s.cfg.Addr, "export_dir", s.cfg.ExportDir)
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	size := geom.PreviewSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > geom.ExportSize {
			http.Error(w, fmt.Sprintf("invalid size %q", v), http.StatusBadRequest)
			return
		}
		size = n
	}

	s.mu.Lock()
	needRender := s.dirty || s.frame == nil
	s.mu.Unlock()
	if needRender {
		s.coalescer.Request()
		s.coalescer.Wait()
	}

	s.mu.Lock()
	frame := s.frame
	s.mu.Unlock()

	out := image.Image(frame)
	if size != geom.ExportSize {
		// Display scaling of the finished frame; never a smaller render.
		g := gift.New(gift.Resize(size, size, gift.LanczosResampling))
		scaled := image.NewNRGBA(g.Bounds(frame.Bounds()))
		g.Draw(scaled, frame)
		out = scaled
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, out); err != nil {
		s.logger.Error("Preview encode failed", "error", err)
	}
}

// statePatch is a partial composition update; nil fields are unchanged.
type statePatch struct {
	Mode               *string  `json:"mode"`
	Background         *string  `json:"background"`
	UseBakedBackground *bool    `json:"useBakedBackground"`
	Ape                *string  `json:"ape"`
	Hat                *string  `json:"hat"`
	Glasses            *string  `json:"glasses"`
	Jewelry            *string  `json:"jewelry"`
	TextContent        *string  `json:"textContent"`
	TextFont           *string  `json:"textFont"`
	TextColor          *string  `json:"textColor"`
	TextPosition       *string  `json:"textPosition"`
	TextSize           *float64 `json:"textSize"`
	Debug              *bool    `json:"debug"`
	Reset              bool     `json:"reset"`
}

func (s *Server) handlePatchState(w http.ResponseWriter, r *http.Request) {
	var patch statePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, fmt.Sprintf("invalid state patch: %v", err), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	next := s.comp.Clone()
	if patch.Reset {
		next = state.Default()
	}
	if err := applyPatch(next, patch); err != nil {
		s.mu.Unlock()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.comp = next
	s.mu.Unlock()

	s.invalidate()
	s.handleGetState(w, r)
}

// applyPatch validates every present field against the closed enums before
// assigning, so an invalid patch leaves the composition untouched.
func applyPatch(c *state.Composition, p statePatch) error {
	if p.Mode != nil {
		m := state.RenderMode(*p.Mode)
		if m != state.ModeLayered && m != state.ModeBaked {
			return fmt.Errorf("unknown mode %q", *p.Mode)
		}
		c.Mode = m
	}
	if p.Background != nil {
		if err := validateSource(assets.Backgrounds, *p.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
		c.Background = *p.Background
	}
	if p.UseBakedBackground != nil {
		c.UseBakedBackground = *p.UseBakedBackground
	}
	if p.Ape != nil {
		if err := validateSource(assets.Characters, *p.Ape); err != nil {
			return fmt.Errorf("ape: %w", err)
		}
		c.Ape = *p.Ape
	}
	if p.Hat != nil {
		if !slices.Contains(assets.Hats, assets.HatStyle(*p.Hat)) {
			return fmt.Errorf("unknown hat %q", *p.Hat)
		}
		c.Accessories.Hat = assets.HatStyle(*p.Hat)
	}
	if p.Glasses != nil {
		if !slices.Contains(assets.Glasses, assets.GlassesStyle(*p.Glasses)) {
			return fmt.Errorf("unknown glasses %q", *p.Glasses)
		}
		c.Accessories.Glasses = assets.GlassesStyle(*p.Glasses)
	}
	if p.Jewelry != nil {
		if !slices.Contains(assets.Jewelries, assets.JewelryStyle(*p.Jewelry)) {
			return fmt.Errorf("unknown jewelry %q", *p.Jewelry)
		}
		c.Accessories.Jewelry = assets.JewelryStyle(*p.Jewelry)
	}
	if p.TextContent != nil {
		c.Text.Content = *p.TextContent
	}
	if p.TextFont != nil {
		if !slices.Contains(assets.Fonts, assets.FontID(*p.TextFont)) {
			return fmt.Errorf("unknown font %q", *p.TextFont)
		}
		c.Text.Font = assets.FontID(*p.TextFont)
	}
	if p.TextColor != nil {
		if !validHexColor(*p.TextColor) {
			return fmt.Errorf("invalid text color %q", *p.TextColor)
		}
		c.Text.Color = *p.TextColor
	}
	if p.TextPosition != nil {
		if !slices.Contains(assets.TextPositions, assets.TextPosition(*p.TextPosition)) {
			return fmt.Errorf("unknown text position %q", *p.TextPosition)
		}
		c.Text.Position = assets.TextPosition(*p.TextPosition)
	}
	if p.TextSize != nil {
		if *p.TextSize <= 0 || *p.TextSize > 256 {
			return fmt.Errorf("text size %v out of range", *p.TextSize)
		}
		c.Text.Size = *p.TextSize
	}
	if p.Debug != nil {
		c.Debug = *p.Debug
	}
	return nil
}

// validateSource accepts catalog entries plus remote and inline sources,
// which the loader resolves directly.
func validateSource(catalog []string, v string) error {
	if slices.Contains(catalog, v) || assets.IsRemote(v) || assets.IsDataURL(v) {
		return nil
	}
	return fmt.Errorf("unknown asset %q", v)
}

func validHexColor(v string) bool {
	if len(v) != 7 || v[0] != '#' {
		return false
	}
	for _, c := range v[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	comp := s.comp.Clone()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(comp); err != nil {
		s.logger.Error("State encode failed", "error", err)
	}
}

func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.comp.Randomize(s.rng)
	s.mu.Unlock()

	s.invalidate()
	s.handleGetState(w, r)
}

func (s *Server) handleToggleLock(w http.ResponseWriter, r *http.Request) {
	layer := r.PathValue("layer")
	switch layer {
	case "background", "ape", "accessories", "text":
	default:
		http.Error(w, fmt.Sprintf("unknown layer %q", layer), http.StatusBadRequest)
		return
	}

	// Locks only gate randomization; no re-render needed.
	s.mu.Lock()
	s.comp.ToggleLock(layer)
	s.mu.Unlock()

	s.handleGetState(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	comp := s.comp.Clone()
	s.mu.Unlock()

	path, err := s.exporter.ExportFile(r.Context(), comp, s.cfg.ExportDir)
	if err != nil {
		s.logger.Error("Export failed", "error", err)
		http.Error(w, fmt.Sprintf("export failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"path": path})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodOptions}, ", "))

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
