// Package bbox finds the tight bounding box of a source image's visible
// (non-transparent) content. Boxes are always expressed in the source
// image's native pixel space; scaling to canvas space happens at render
// time.
package bbox

import (
	"image"
	"image/color"
)

// AlphaThreshold is the minimum alpha (out of 255) for a pixel to count as
// visible content.
const AlphaThreshold = 10

// Box is a tight content bounding box in the source image's native pixels.
type Box struct {
	X       float64
	Y       float64
	Width   float64
	Height  float64
	CenterX float64
	CenterY float64
}

// Compute scans the full pixel grid and returns the tight box of pixels
// whose alpha exceeds AlphaThreshold. A fully transparent image falls back
// to the full image bounds; that is a defined result, not an error.
func Compute(img image.Image) Box {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			// PixOffset keeps the row math correct for sub-images whose
			// bounds do not start at the origin.
			off := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
			row := nrgba.Pix[off : off+w*4]
			for x := 0; x < w; x++ {
				if row[x*4+3] > AlphaThreshold {
					if x < minX {
						minX = x
					}
					if x > maxX {
						maxX = x
					}
					if y < minY {
						minY = y
					}
					if y > maxY {
						maxY = y
					}
				}
			}
		}
	} else {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				if c.A > AlphaThreshold {
					if x < minX {
						minX = x
					}
					if x > maxX {
						maxX = x
					}
					if y < minY {
						minY = y
					}
					if y > maxY {
						maxY = y
					}
				}
			}
		}
	}

	if maxX < minX || maxY < minY {
		// Fully transparent source: use the full image bounds.
		return FullBounds(w, h)
	}

	bw := float64(maxX - minX + 1)
	bh := float64(maxY - minY + 1)
	return Box{
		X:       float64(minX),
		Y:       float64(minY),
		Width:   bw,
		Height:  bh,
		CenterX: float64(minX) + bw/2,
		CenterY: float64(minY) + bh/2,
	}
}

// FullBounds returns the degenerate-case box covering the whole image.
func FullBounds(w, h int) Box {
	return Box{
		Width:   float64(w),
		Height:  float64(h),
		CenterX: float64(w) / 2,
		CenterY: float64(h) / 2,
	}
}
