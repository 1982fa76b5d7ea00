package render

import (
	"image"
	"image/color"

	"github.com/apehub/apegen/internal/geom"
	"github.com/apehub/apegen/internal/state"
)

var (
	debugBoundary = color.NRGBA{R: 255, G: 64, B: 64, A: 255}
	debugCross    = color.NRGBA{R: 64, G: 200, B: 255, A: 180}
	debugSafe     = color.NRGBA{R: 64, G: 255, B: 96, A: 255}
	debugAnchor   = color.NRGBA{R: 255, G: 64, B: 255, A: 255}
	debugBox      = color.NRGBA{R: 255, G: 224, B: 32, A: 255}
	debugCover    = color.NRGBA{R: 255, G: 150, B: 32, A: 255}
)

// drawDebug overlays non-destructive diagnostic strokes: canvas boundary,
// center crosshair, safe area, anchor point, and the character's detected
// box (layered) or cover/crop bounds (baked). Export always forces this
// layer off.
func (r *Renderer) drawDebug(dst *image.NRGBA, comp *state.Composition, size int, info characterInfo) {
	c := NewCanvas(dst)
	k := geom.Scale(size)
	s := float64(size)

	thin := 2 * k
	thick := 6 * k

	c.StrokeRect(geom.Rect{X: 0, Y: 0, Width: s, Height: s}, thick, debugBoundary)

	c.StrokeLine(0, s/2, s, s/2, thin, debugCross)
	c.StrokeLine(s/2, 0, s/2, s, thin, debugCross)

	c.StrokeRect(geom.SafeArea(size), thick*0.6, debugSafe)

	anchor := geom.Anchor(size)
	c.StrokeCircle(anchor.X, anchor.Y, 14*k, thin, debugAnchor)
	c.FillCircle(anchor.X, anchor.Y, 4*k, debugAnchor)

	if !info.ok {
		return
	}

	switch info.mode {
	case state.ModeLayered:
		c.StrokeRect(info.content, thick*0.6, debugBox)
	case state.ModeBaked:
		c.StrokeRect(info.drawn, thick*0.6, debugCover)
	}
}
