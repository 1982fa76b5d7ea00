package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/disintegration/gift"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/geom"
	"github.com/apehub/apegen/internal/state"
)

// Text layout constants at the 512-reference canvas; they scale with the
// target size like every other spatial constant.
const (
	textEdgeMargin  = 40.0
	shadowOffsetRef = 2.0
	shadowBlurRef   = 3.0
)

// drawText renders the header text centered horizontally with a blurred
// drop shadow underneath for legibility. Empty content draws nothing.
func (r *Renderer) drawText(dst *image.NRGBA, comp *state.Composition, size int) {
	content := comp.Text.Content
	if strings.TrimSpace(content) == "" {
		return
	}

	f, ok := r.fonts[comp.Text.Font]
	if !ok {
		f = r.fonts[state.Default().Text.Font]
	}

	k := float64(size) / float64(geom.PreviewSize)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    comp.Text.Size * k,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		r.logger.Error("Text face unavailable; omitting text layer", "font", comp.Text.Font, "error", err)
		return
	}
	defer face.Close() // nolint:errcheck

	width := font.MeasureString(face, content).Ceil()
	x := (size - width) / 2

	m := face.Metrics()
	margin := int(math.Round(textEdgeMargin * k))
	var y int
	switch comp.Text.Position {
	case assets.TextTop:
		y = margin + m.Ascent.Ceil()
	case assets.TextBottom:
		y = size - margin - m.Descent.Ceil()
	default: // center
		y = size/2 + (m.Ascent.Ceil()-m.Descent.Ceil())/2
	}

	// Shadow pass: text in translucent black on its own layer, blurred,
	// composited slightly offset.
	off := int(math.Round(shadowOffsetRef * k))
	shadowLayer := image.NewNRGBA(dst.Bounds())
	drawString(shadowLayer, content, face, x+off, y+off, color.NRGBA{A: 200})

	g := gift.New(gift.GaussianBlur(float32(shadowBlurRef * k)))
	blurred := image.NewNRGBA(g.Bounds(shadowLayer.Bounds()))
	g.Draw(blurred, shadowLayer)
	draw.Draw(dst, dst.Bounds(), blurred, image.Point{}, draw.Over)

	drawString(dst, content, face, x, y, ParseHexColor(comp.Text.Color))
}

func drawString(dst draw.Image, s string, face font.Face, x, y int, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
