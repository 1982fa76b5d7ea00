package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/apehub/apegen/internal/geom"
)

// Canvas is the small draw-primitive surface the accessory and debug layers
// target. Keeping placement math against this interface-sized API means the
// shape routines never touch the raster backend directly.
type Canvas struct {
	dst *image.NRGBA
}

// NewCanvas wraps an NRGBA surface.
func NewCanvas(dst *image.NRGBA) *Canvas {
	return &Canvas{dst: dst}
}

// FillPolygon fills a closed polygon with anti-aliased edges. Rasterization
// is confined to the polygon's bounding box; a full-canvas rasterizer per
// shape would make stroked overlays quadratic in canvas size.
func (c *Canvas) FillPolygon(pts []geom.Point, col color.NRGBA) {
	if len(pts) < 3 {
		return
	}

	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, pt := range pts[1:] {
		minX = math.Min(minX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxX = math.Max(maxX, pt.X)
		maxY = math.Max(maxY, pt.Y)
	}
	clip := image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	).Intersect(c.dst.Bounds())
	if clip.Empty() {
		return
	}

	ras := vector.NewRasterizer(clip.Dx(), clip.Dy())
	ox := float32(clip.Min.X)
	oy := float32(clip.Min.Y)
	ras.MoveTo(float32(pts[0].X)-ox, float32(pts[0].Y)-oy)
	for _, pt := range pts[1:] {
		ras.LineTo(float32(pt.X)-ox, float32(pt.Y)-oy)
	}
	ras.ClosePath()

	ras.Draw(c.dst, clip, image.NewUniform(col), image.Point{})
}

// FillCircle fills a circle approximated by a polygon fan.
func (c *Canvas) FillCircle(cx, cy, radius float64, col color.NRGBA) {
	if radius <= 0 {
		return
	}
	c.FillEllipse(cx, cy, radius, radius, col)
}

// FillEllipse fills an axis-aligned ellipse.
func (c *Canvas) FillEllipse(cx, cy, rx, ry float64, col color.NRGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}

	const segments = 64
	pts := make([]geom.Point, 0, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		pts = append(pts, geom.Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)})
	}
	c.FillPolygon(pts, col)
}

// StrokeLine strokes a segment as a single half-width quad with round caps.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, col color.NRGBA) {
	radius := width / 2
	dx := x1 - x0
	dy := y1 - y0
	segLen := math.Hypot(dx, dy)
	if segLen == 0 {
		c.FillCircle(x0, y0, radius, col)
		return
	}

	nx := -dy / segLen * radius
	ny := dx / segLen * radius
	c.FillPolygon([]geom.Point{
		{X: x0 + nx, Y: y0 + ny},
		{X: x1 + nx, Y: y1 + ny},
		{X: x1 - nx, Y: y1 - ny},
		{X: x0 - nx, Y: y0 - ny},
	}, col)

	// Round caps keep chained segments from notching at joints.
	c.FillCircle(x0, y0, radius, col)
	c.FillCircle(x1, y1, radius, col)
}

// StrokeRect strokes the four edges of a rectangle.
func (c *Canvas) StrokeRect(r geom.Rect, width float64, col color.NRGBA) {
	c.StrokeLine(r.X, r.Y, r.MaxX(), r.Y, width, col)
	c.StrokeLine(r.MaxX(), r.Y, r.MaxX(), r.MaxY(), width, col)
	c.StrokeLine(r.MaxX(), r.MaxY(), r.X, r.MaxY(), width, col)
	c.StrokeLine(r.X, r.MaxY(), r.X, r.Y, width, col)
}

// StrokeCircle strokes a circle outline.
func (c *Canvas) StrokeCircle(cx, cy, radius, width float64, col color.NRGBA) {
	const segments = 64
	px := cx + radius
	py := cy
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		nx := cx + radius*math.Cos(a)
		ny := cy + radius*math.Sin(a)
		c.StrokeLine(px, py, nx, ny, width, col)
		px, py = nx, ny
	}
}

// StrokeArc strokes the arc from a0 to a1 (radians, increasing clockwise in
// image space).
func (c *Canvas) StrokeArc(cx, cy, radius, a0, a1, width float64, col color.NRGBA) {
	const segments = 48
	px := cx + radius*math.Cos(a0)
	py := cy + radius*math.Sin(a0)
	for i := 1; i <= segments; i++ {
		a := a0 + (a1-a0)*float64(i)/segments
		nx := cx + radius*math.Cos(a)
		ny := cy + radius*math.Sin(a)
		c.StrokeLine(px, py, nx, ny, width, col)
		px, py = nx, ny
	}
}
