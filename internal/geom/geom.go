// Package geom provides the fixed canvas geometry for the compositing
// pipeline. All spatial constants are defined once in export space
// (2048x2048) and scaled linearly to any target canvas size, so a preview
// canvas is an exact scaled view of the export canvas.
package geom

const (
	// ExportSize is the internal rendering resolution. Every render runs at
	// this size; smaller outputs are produced by scaling the finished frame.
	ExportSize = 2048

	// PreviewSize is the default on-screen presentation size.
	PreviewSize = 512

	// SafeAreaFraction is the side length of the centered safe-area square
	// as a fraction of the canvas.
	SafeAreaFraction = 0.85
)

// Point is a position in canvas pixel space.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Scale returns the factor mapping export-space coordinates to a canvas of
// the given size.
func Scale(canvasSize int) float64 {
	return float64(canvasSize) / float64(ExportSize)
}

// SafeArea returns the centered square covering SafeAreaFraction of the
// canvas, scaled from export space.
func SafeArea(canvasSize int) Rect {
	s := Scale(canvasSize)
	side := SafeAreaFraction * float64(ExportSize)
	origin := (float64(ExportSize) - side) / 2
	return Rect{
		X:      origin * s,
		Y:      origin * s,
		Width:  side * s,
		Height: side * s,
	}
}

// Anchor returns the character alignment point (canvas center), scaled from
// export space.
func Anchor(canvasSize int) Point {
	s := Scale(canvasSize)
	return Point{
		X: float64(ExportSize) / 2 * s,
		Y: float64(ExportSize) / 2 * s,
	}
}
