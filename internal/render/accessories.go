package render

import (
	"image/color"
	"math"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/geom"
	"github.com/apehub/apegen/internal/state"
)

// Accessory landmarks as fractions of the character's scaled bounding box.
// The eye line sits 0.38 of the box height below its top, the mask line at
// 0.52, the neck line at 0.65; eyes sit 0.15 of the box width either side
// of center and the neck arc radius is 0.25 of the box width.
const (
	eyeLineFrac    = 0.38
	maskLineFrac   = 0.52
	neckLineFrac   = 0.65
	eyeSpacingFrac = 0.15
	neckRadiusFrac = 0.25
)

var (
	crownGold     = color.NRGBA{R: 255, G: 215, B: 0, A: 255}
	crownBand     = color.NRGBA{R: 204, G: 164, B: 0, A: 255}
	capRed        = color.NRGBA{R: 200, G: 40, B: 48, A: 255}
	capBrim       = color.NRGBA{R: 150, G: 26, B: 34, A: 255}
	beanieTeal    = color.NRGBA{R: 36, G: 140, B: 150, A: 255}
	beanieBand    = color.NRGBA{R: 24, G: 100, B: 108, A: 255}
	shadeBlack    = color.NRGBA{R: 16, G: 16, B: 18, A: 255}
	frameBrown    = color.NRGBA{R: 92, G: 62, B: 28, A: 255}
	chainGold     = color.NRGBA{R: 230, G: 190, B: 40, A: 255}
	necklacePearl = color.NRGBA{R: 238, G: 232, B: 218, A: 255}
)

// drawAccessories renders the procedural accessory shapes for layered mode.
// content is the character's scaled bounding box in canvas space. Eyewear
// is suppressed while a hat is selected; the two collide visually.
func drawAccessories(c *Canvas, acc state.Accessories, content geom.Rect) {
	if acc.Hat != assets.HatNone {
		drawHat(c, acc.Hat, content)
	} else if acc.Glasses != assets.GlassesNone {
		drawGlasses(c, acc.Glasses, content)
	}
	if acc.Jewelry != assets.JewelryNone {
		drawJewelry(c, acc.Jewelry, content)
	}
}

func drawHat(c *Canvas, style assets.HatStyle, content geom.Rect) {
	cx := content.CenterX()
	topY := content.Y
	w := content.Width
	h := content.Height

	switch style {
	case assets.HatCap:
		domeR := 0.26 * w
		domeY := topY + 0.10*h
		c.FillEllipse(cx, domeY, domeR, domeR*0.72, capRed)
		// Brim juts out to the right of the dome.
		c.FillPolygon([]geom.Point{
			{X: cx, Y: domeY},
			{X: cx + domeR*1.8, Y: domeY - domeR*0.08},
			{X: cx + domeR*1.8, Y: domeY + domeR*0.22},
			{X: cx, Y: domeY + domeR*0.30},
		}, capBrim)
		c.FillCircle(cx, domeY-domeR*0.72, 0.03*w, capBrim)

	case assets.HatBeanie:
		domeR := 0.28 * w
		domeY := topY + 0.12*h
		c.FillEllipse(cx, domeY, domeR, domeR*0.85, beanieTeal)
		c.FillPolygon([]geom.Point{
			{X: cx - domeR, Y: domeY + domeR*0.35},
			{X: cx + domeR, Y: domeY + domeR*0.35},
			{X: cx + domeR, Y: domeY + domeR*0.70},
			{X: cx - domeR, Y: domeY + domeR*0.70},
		}, beanieBand)
		c.FillCircle(cx, domeY-domeR*0.95, 0.045*w, beanieBand)

	case assets.HatCrown:
		// Zigzag band across the top band of the bounding box.
		baseY := topY + 0.16*h
		crownH := 0.14 * h
		half := 0.24 * w
		c.FillPolygon([]geom.Point{
			{X: cx - half, Y: baseY},
			{X: cx - half, Y: baseY - crownH*0.35},
			{X: cx - half*0.66, Y: baseY - crownH},
			{X: cx - half*0.33, Y: baseY - crownH*0.35},
			{X: cx, Y: baseY - crownH},
			{X: cx + half*0.33, Y: baseY - crownH*0.35},
			{X: cx + half*0.66, Y: baseY - crownH},
			{X: cx + half, Y: baseY - crownH*0.35},
			{X: cx + half, Y: baseY},
		}, crownGold)
		c.FillPolygon([]geom.Point{
			{X: cx - half, Y: baseY},
			{X: cx + half, Y: baseY},
			{X: cx + half, Y: baseY + crownH*0.30},
			{X: cx - half, Y: baseY + crownH*0.30},
		}, crownBand)
	}
}

func drawGlasses(c *Canvas, style assets.GlassesStyle, content geom.Rect) {
	cx := content.CenterX()
	eyeY := content.Y + eyeLineFrac*content.Height
	dx := eyeSpacingFrac * content.Width
	lensR := 0.085 * content.Width

	switch style {
	case assets.GlassesSunglasses:
		c.FillCircle(cx-dx, eyeY, lensR, shadeBlack)
		c.FillCircle(cx+dx, eyeY, lensR, shadeBlack)
		bridgeW := lensR * 0.35
		c.StrokeLine(cx-dx+lensR, eyeY-lensR*0.3, cx+dx-lensR, eyeY-lensR*0.3, bridgeW, shadeBlack)
		// Temples out to the box edges.
		c.StrokeLine(cx-dx-lensR, eyeY, content.X, eyeY-lensR*0.4, bridgeW, shadeBlack)
		c.StrokeLine(cx+dx+lensR, eyeY, content.MaxX(), eyeY-lensR*0.4, bridgeW, shadeBlack)

	case assets.GlassesRound:
		rim := lensR * 0.22
		c.StrokeCircle(cx-dx, eyeY, lensR, rim, frameBrown)
		c.StrokeCircle(cx+dx, eyeY, lensR, rim, frameBrown)
		c.StrokeLine(cx-dx+lensR, eyeY, cx+dx-lensR, eyeY, rim, frameBrown)
	}
}

func drawJewelry(c *Canvas, style assets.JewelryStyle, content geom.Rect) {
	cx := content.CenterX()
	neckY := content.Y + neckLineFrac*content.Height
	neckR := neckRadiusFrac * content.Width

	switch style {
	case assets.JewelryChain:
		linkW := neckR * 0.18
		c.StrokeArc(cx, neckY, neckR, math.Pi*0.15, math.Pi*0.85, linkW, chainGold)
		c.FillCircle(cx, neckY+neckR, neckR*0.22, chainGold)

	case assets.JewelryNecklace:
		const beads = 11
		beadR := neckR * 0.10
		for i := 0; i < beads; i++ {
			a := math.Pi * (0.15 + 0.70*float64(i)/(beads-1))
			c.FillCircle(cx+neckR*math.Cos(a), neckY+neckR*math.Sin(a), beadR, necklacePearl)
		}
	}
}
