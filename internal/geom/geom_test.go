package geom

import (
	"math"
	"testing"
)

func TestSafeAreaAtExportSize(t *testing.T) {
	sa := SafeArea(ExportSize)

	wantSide := SafeAreaFraction * float64(ExportSize)
	if sa.Width != wantSide || sa.Height != wantSide {
		t.Errorf("SafeArea(%d) side = %v x %v, want %v", ExportSize, sa.Width, sa.Height, wantSide)
	}
	if sa.CenterX() != float64(ExportSize)/2 || sa.CenterY() != float64(ExportSize)/2 {
		t.Errorf("SafeArea(%d) center = (%v, %v), want canvas center", ExportSize, sa.CenterX(), sa.CenterY())
	}
}

func TestAnchorIsCanvasCenter(t *testing.T) {
	tests := []struct {
		size int
		want float64
	}{
		{ExportSize, 1024},
		{PreviewSize, 256},
		{1024, 512},
		{100, 50},
	}

	for _, tt := range tests {
		a := Anchor(tt.size)
		if a.X != tt.want || a.Y != tt.want {
			t.Errorf("Anchor(%d) = (%v, %v), want (%v, %v)", tt.size, a.X, a.Y, tt.want, tt.want)
		}
	}
}

func TestScaleInvariance(t *testing.T) {
	const tol = 1e-9

	sizes := []int{64, 256, PreviewSize, 1000, 1024, ExportSize, 4096}
	base := SafeArea(ExportSize)
	baseAnchor := Anchor(ExportSize)

	for _, size := range sizes {
		s := float64(size) / float64(ExportSize)

		sa := SafeArea(size)
		for name, got := range map[string][2]float64{
			"x":      {sa.X, base.X * s},
			"y":      {sa.Y, base.Y * s},
			"width":  {sa.Width, base.Width * s},
			"height": {sa.Height, base.Height * s},
		} {
			if math.Abs(got[0]-got[1]) > tol {
				t.Errorf("SafeArea(%d).%s = %v, want %v", size, name, got[0], got[1])
			}
		}

		a := Anchor(size)
		if math.Abs(a.X-baseAnchor.X*s) > tol || math.Abs(a.Y-baseAnchor.Y*s) > tol {
			t.Errorf("Anchor(%d) = %+v, want scaled %+v", size, a, baseAnchor)
		}
	}
}

func TestAnchorHalving(t *testing.T) {
	// anchor(1024) must equal 0.5 * anchor(2048) exactly.
	a1 := Anchor(1024)
	a2 := Anchor(2048)
	if a1.X != a2.X/2 || a1.Y != a2.Y/2 {
		t.Errorf("Anchor(1024) = %+v, want exactly half of Anchor(2048) = %+v", a1, a2)
	}
}

func TestRectAccessors(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if r.CenterX() != 25 || r.CenterY() != 40 {
		t.Errorf("center = (%v, %v), want (25, 40)", r.CenterX(), r.CenterY())
	}
	if r.MaxX() != 40 || r.MaxY() != 60 {
		t.Errorf("max = (%v, %v), want (40, 60)", r.MaxX(), r.MaxY())
	}
}
