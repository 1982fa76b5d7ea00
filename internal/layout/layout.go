// Package layout computes where a character image is drawn on the canvas.
// Two strategies exist: layered mode contain-fits the image's visible
// content into the safe area, baked mode cover-fits the full image over the
// whole canvas.
package layout

import (
	"github.com/apehub/apegen/internal/bbox"
	"github.com/apehub/apegen/internal/geom"
)

// Placement is the result of the layered strategy.
type Placement struct {
	// Draw is the full-image draw rectangle in canvas space. Transparent
	// margins are preserved and scale with the content.
	Draw geom.Rect
	// Content is the scaled bounding box in canvas space, centered on the
	// anchor. Accessory placement is expressed relative to it.
	Content geom.Rect
	// Scale is the uniform source-to-canvas scale factor.
	Scale float64
}

// Layered contain-fits the image's visible content (box, in native pixels)
// into the safe area and lands the box center exactly on the anchor point.
func Layered(imgW, imgH int, box bbox.Box, canvasSize int) Placement {
	safe := geom.SafeArea(canvasSize)
	anchor := geom.Anchor(canvasSize)

	scale := safe.Width / box.Width
	if s := safe.Height / box.Height; s < scale {
		scale = s
	}

	drawX := anchor.X - box.CenterX*scale
	drawY := anchor.Y - box.CenterY*scale

	return Placement{
		Draw: geom.Rect{
			X:      drawX,
			Y:      drawY,
			Width:  float64(imgW) * scale,
			Height: float64(imgH) * scale,
		},
		Content: geom.Rect{
			X:      anchor.X - box.Width*scale/2,
			Y:      anchor.Y - box.Height*scale/2,
			Width:  box.Width * scale,
			Height: box.Height * scale,
		},
		Scale: scale,
	}
}

// BakedPlacement is the result of the baked strategy.
type BakedPlacement struct {
	// Draw is the full-image draw rectangle in canvas space; it covers the
	// canvas and may extend past its edges.
	Draw geom.Rect
	// Crop is the visible source region in native pixels, inverse-mapped
	// from the canvas. Used by the debug overlay.
	Crop geom.Rect
	// Scale is the uniform source-to-canvas scale factor.
	Scale float64
}

// Baked cover-fits the full image over the canvas, centered, then nudged by
// offset (given in export space and scaled to the target canvas).
func Baked(imgW, imgH int, canvasSize int, offset geom.Point) BakedPlacement {
	cs := float64(canvasSize)

	scale := cs / float64(imgW)
	if s := cs / float64(imgH); s > scale {
		scale = s
	}

	drawW := float64(imgW) * scale
	drawH := float64(imgH) * scale

	k := geom.Scale(canvasSize)
	drawX := (cs-drawW)/2 + offset.X*k
	drawY := (cs-drawH)/2 + offset.Y*k

	return BakedPlacement{
		Draw:  geom.Rect{X: drawX, Y: drawY, Width: drawW, Height: drawH},
		Crop:  geom.Rect{X: -drawX / scale, Y: -drawY / scale, Width: cs / scale, Height: cs / scale},
		Scale: scale,
	}
}
