package layout

import (
	"math"
	"testing"

	"github.com/apehub/apegen/internal/bbox"
	"github.com/apehub/apegen/internal/geom"
)

const tol = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= tol }

func TestLayeredContainFit(t *testing.T) {
	// 200x200 image, opaque 100x50 block: at canvas size 200 the safe area
	// is 170x170 and the anchor is (100,100), so the contain scale is
	// min(170/100, 170/50) = 1.7.
	box := bbox.Box{X: 50, Y: 80, Width: 100, Height: 50, CenterX: 100, CenterY: 105}

	p := Layered(200, 200, box, 200)

	if !approx(p.Scale, 1.7) {
		t.Fatalf("scale = %v, want 1.7", p.Scale)
	}

	// The scaled bbox center must land exactly on the anchor.
	cx := p.Draw.X + box.CenterX*p.Scale
	cy := p.Draw.Y + box.CenterY*p.Scale
	if !approx(cx, 100) || !approx(cy, 100) {
		t.Errorf("scaled bbox center = (%v, %v), want (100, 100)", cx, cy)
	}

	// The full image is drawn at the uniform scale, margins included.
	if !approx(p.Draw.Width, 340) || !approx(p.Draw.Height, 340) {
		t.Errorf("draw size = %v x %v, want 340 x 340", p.Draw.Width, p.Draw.Height)
	}

	// Content rect is the scaled bbox centered on the anchor.
	if !approx(p.Content.Width, 170) || !approx(p.Content.Height, 85) {
		t.Errorf("content size = %v x %v, want 170 x 85", p.Content.Width, p.Content.Height)
	}
	if !approx(p.Content.CenterX(), 100) || !approx(p.Content.CenterY(), 100) {
		t.Errorf("content center = (%v, %v), want anchor", p.Content.CenterX(), p.Content.CenterY())
	}
}

func TestLayeredIndependentOfPadding(t *testing.T) {
	// Same visible content, different transparent margins: the content rect
	// must be identical.
	box1 := bbox.Box{X: 0, Y: 0, Width: 80, Height: 80, CenterX: 40, CenterY: 40}
	box2 := bbox.Box{X: 360, Y: 360, Width: 80, Height: 80, CenterX: 400, CenterY: 400}

	p1 := Layered(80, 80, box1, geom.ExportSize)
	p2 := Layered(800, 800, box2, geom.ExportSize)

	if !approx(p1.Scale, p2.Scale) {
		t.Fatalf("scales differ: %v vs %v", p1.Scale, p2.Scale)
	}
	if p1.Content != p2.Content {
		t.Errorf("content rects differ: %+v vs %+v", p1.Content, p2.Content)
	}
}

func TestLayeredScalesAcrossCanvasSizes(t *testing.T) {
	box := bbox.Box{X: 10, Y: 20, Width: 300, Height: 500, CenterX: 160, CenterY: 270}

	big := Layered(512, 512, box, geom.ExportSize)
	small := Layered(512, 512, box, geom.PreviewSize)

	k := geom.Scale(geom.PreviewSize)
	if !approx(small.Draw.X, big.Draw.X*k) || !approx(small.Draw.Y, big.Draw.Y*k) ||
		!approx(small.Draw.Width, big.Draw.Width*k) || !approx(small.Draw.Height, big.Draw.Height*k) {
		t.Errorf("preview draw %+v is not the export draw %+v scaled by %v", small.Draw, big.Draw, k)
	}
}

func TestBakedCoverFit(t *testing.T) {
	// 100x200 image on a 2048 canvas: cover scale = max(2048/100, 2048/200)
	// = 20.48, the tall dimension overflows and is cropped equally.
	p := Baked(100, 200, geom.ExportSize, geom.Point{})

	if !approx(p.Scale, 20.48) {
		t.Fatalf("scale = %v, want 20.48", p.Scale)
	}
	if !approx(p.Draw.Width, 2048) {
		t.Errorf("draw width = %v, want 2048 (short side fills canvas)", p.Draw.Width)
	}
	if !approx(p.Draw.Height, 4096) {
		t.Errorf("draw height = %v, want 4096", p.Draw.Height)
	}
	if !approx(p.Draw.X, 0) {
		t.Errorf("draw x = %v, want 0", p.Draw.X)
	}
	if !approx(p.Draw.Y, -1024) {
		t.Errorf("draw y = %v, want -1024 (equal crop top and bottom)", p.Draw.Y)
	}
}

func TestBakedOffsetScalesFromExportSpace(t *testing.T) {
	offset := geom.Point{X: 100, Y: -60}

	atExport := Baked(2048, 2048, geom.ExportSize, offset)
	atPreview := Baked(2048, 2048, geom.PreviewSize, offset)

	if !approx(atExport.Draw.X, 100) || !approx(atExport.Draw.Y, -60) {
		t.Errorf("export draw origin = (%v, %v), want (100, -60)", atExport.Draw.X, atExport.Draw.Y)
	}
	if !approx(atPreview.Draw.X, 25) || !approx(atPreview.Draw.Y, -15) {
		t.Errorf("preview draw origin = (%v, %v), want offset scaled to (25, -15)", atPreview.Draw.X, atPreview.Draw.Y)
	}
}

func TestBakedCropInverseMapsCanvas(t *testing.T) {
	p := Baked(4096, 4096, geom.ExportSize, geom.Point{X: 200, Y: 0})

	// The crop rect mapped back through the draw transform must give the
	// canvas rect.
	x0 := p.Draw.X + p.Crop.X*p.Scale
	y0 := p.Draw.Y + p.Crop.Y*p.Scale
	if !approx(x0, 0) || !approx(y0, 0) {
		t.Errorf("crop origin maps to (%v, %v), want (0, 0)", x0, y0)
	}
	if !approx(p.Crop.Width*p.Scale, 2048) || !approx(p.Crop.Height*p.Scale, 2048) {
		t.Errorf("crop size maps to %v x %v, want 2048 x 2048", p.Crop.Width*p.Scale, p.Crop.Height*p.Scale)
	}
}
