// Package render implements the deterministic compositing pipeline. Every
// render, preview or export, runs the same sequence at the same fixed
// internal resolution; smaller presentation sizes are produced by scaling
// the finished frame, never by a separate lower-resolution render path.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/geom"
	"github.com/apehub/apegen/internal/layout"
	"github.com/apehub/apegen/internal/state"
)

// fallbackFill is the opaque background used when the selected background
// asset never loaded. The canvas is never left in an undefined state.
var fallbackFill = color.NRGBA{R: 31, G: 36, B: 48, A: 255}

// Renderer owns the pipeline's collaborators: the asset loader (with its
// image and bbox caches) and the parsed text faces.
type Renderer struct {
	loader *assets.Loader
	logger *slog.Logger
	fonts  map[assets.FontID]*sfnt.Font
}

// New parses the bundled fonts and returns a renderer over the loader.
func New(loader *assets.Loader, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fonts := make(map[assets.FontID]*sfnt.Font, 4)
	for id, ttf := range map[assets.FontID][]byte{
		assets.FontRegular: goregular.TTF,
		assets.FontBold:    gobold.TTF,
		assets.FontItalic:  goitalic.TTF,
		assets.FontMono:    gomono.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font %s: %w", id, err)
		}
		fonts[id] = f
	}

	return &Renderer{loader: loader, logger: logger, fonts: fonts}, nil
}

// NewFrame allocates a surface at the fixed export resolution.
func (r *Renderer) NewFrame() *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, geom.ExportSize, geom.ExportSize))
}

// characterInfo carries the character layer's computed placement to the
// accessory and debug layers.
type characterInfo struct {
	ok      bool
	mode    state.RenderMode
	content geom.Rect // layered: scaled bbox in canvas space
	drawn   geom.Rect // full-image draw bounds
	crop    geom.Rect // baked: visible source region, native pixels
}

// Render composes the full frame for comp onto dst. dst must be square;
// production callers always pass a frame from NewFrame, so the pipeline
// runs at the export resolution regardless of how the result is presented.
func (r *Renderer) Render(ctx context.Context, dst *image.NRGBA, comp *state.Composition) {
	size := dst.Bounds().Dx()

	for i := range dst.Pix {
		dst.Pix[i] = 0
	}

	r.drawBackground(ctx, dst, comp, size)
	info := r.drawCharacter(ctx, dst, comp, size)

	if comp.Mode == state.ModeLayered && info.ok {
		drawAccessories(NewCanvas(dst), comp.Accessories, info.content)
	}

	r.drawText(dst, comp, size)

	if comp.Debug {
		r.drawDebug(dst, comp, size, info)
	}
}

func (r *Renderer) drawBackground(ctx context.Context, dst *image.NRGBA, comp *state.Composition, size int) {
	if comp.Mode == state.ModeBaked && comp.UseBakedBackground {
		return // the baked plate carries its own background
	}

	img, err := r.loader.Load(ctx, assets.NamespaceBackgrounds, assets.BackgroundPath(comp.Background))
	if err != nil {
		r.logger.Error("Background unavailable; using solid fill", "background", comp.Background, "error", err)
		draw.Draw(dst, dst.Bounds(), image.NewUniform(fallbackFill), image.Point{}, draw.Src)
		return
	}

	b := img.Bounds()
	p := layout.Baked(b.Dx(), b.Dy(), size, geom.Point{})
	drawInto(dst, img, p.Draw)
}

func (r *Renderer) drawCharacter(ctx context.Context, dst *image.NRGBA, comp *state.Composition, size int) characterInfo {
	info := characterInfo{mode: comp.Mode}

	switch comp.Mode {
	case state.ModeLayered:
		img, err := r.loader.Load(ctx, assets.NamespaceCharacters, assets.CharacterPath(comp.Ape))
		if err != nil {
			r.logger.Error("Character unavailable; omitting layer", "ape", comp.Ape, "error", err)
			return info
		}
		source := r.loader.Resolve(assets.CharacterPath(comp.Ape))
		box := r.loader.Boxes().Get(source, img)

		b := img.Bounds()
		p := layout.Layered(b.Dx(), b.Dy(), box, size)
		drawInto(dst, img, p.Draw)

		info.ok = true
		info.content = p.Content
		info.drawn = p.Draw
		return info

	case state.ModeBaked:
		// With the baked background disabled the framing stays identical but
		// the transparent plate is drawn instead, letting the separately
		// selected background show through.
		path := assets.BakedPath(comp.Ape)
		if !comp.UseBakedBackground {
			path = assets.CharacterPath(comp.Ape)
		}
		img, err := r.loader.Load(ctx, assets.NamespaceCharacters, path)
		if err != nil {
			r.logger.Error("Baked plate unavailable; omitting layer", "ape", comp.Ape, "error", err)
			return info
		}

		b := img.Bounds()
		p := layout.Baked(b.Dx(), b.Dy(), size, comp.AnchorOffsets.Offset(comp.Ape))
		drawInto(dst, img, p.Draw)

		info.ok = true
		info.drawn = p.Draw
		info.crop = p.Crop
		return info
	}
	return info
}

// drawInto scales src into the target rectangle with Catmull-Rom
// resampling, compositing over what is already on the canvas.
func drawInto(dst *image.NRGBA, src image.Image, target geom.Rect) {
	rect := image.Rect(
		int(math.Round(target.X)),
		int(math.Round(target.Y)),
		int(math.Round(target.MaxX())),
		int(math.Round(target.MaxY())),
	)
	xdraw.CatmullRom.Scale(dst, rect, src, src.Bounds(), xdraw.Over, nil)
}

// ParseHexColor parses a #rrggbb string; malformed input yields opaque
// white rather than an error (catalog colors are closed, but text color can
// arrive from config).
func ParseHexColor(s string) color.NRGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
