package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/aquilax/go-perlin"
)

// AssetWriteResult reports which catalog files were written or skipped.
type AssetWriteResult struct {
	Written []string
	Skipped []string
}

var backgroundColors = map[string]color.NRGBA{
	"bg1": {R: 82, G: 120, B: 180, A: 255},  // dusk blue
	"bg2": {R: 196, G: 88, B: 74, A: 255},   // brick
	"bg3": {R: 96, G: 160, B: 104, A: 255},  // jungle
	"bg4": {R: 214, G: 170, B: 84, A: 255},  // sand
	"bg5": {R: 140, G: 96, B: 178, A: 255},  // violet
	"bg6": {R: 70, G: 70, B: 78, A: 255},    // charcoal
	"bg7": {R: 224, G: 132, B: 168, A: 255}, // blossom
	"bg8": {R: 78, G: 170, B: 176, A: 255},  // lagoon
}

var characterFur = map[string]color.NRGBA{
	"ape1": {R: 108, G: 78, B: 54, A: 255},
	"ape2": {R: 60, G: 60, B: 64, A: 255},
	"ape3": {R: 170, G: 128, B: 80, A: 255},
	"ape4": {R: 142, G: 96, B: 110, A: 255},
	"ape5": {R: 86, G: 104, B: 74, A: 255},
	"ape6": {R: 180, G: 170, B: 160, A: 255},
	"ape7": {R: 124, G: 64, B: 42, A: 255},
}

// characterMargin varies the transparent padding per character so the
// layered normalization actually has work to do.
var characterMargin = map[string]float64{
	"ape1": 0.10, "ape2": 0.22, "ape3": 0.05, "ape4": 0.18,
	"ape5": 0.30, "ape6": 0.12, "ape7": 0.25,
}

// WriteDefaultAssets generates the full default catalog into dir:
// backgrounds/, apes/ (transparent plates), and baked/ (pre-composited
// plates). Output is deterministic for a given seed.
func WriteDefaultAssets(dir string, size int, seed int64, overwrite bool) (AssetWriteResult, error) {
	result := AssetWriteResult{}
	if size <= 0 {
		return result, fmt.Errorf("size must be positive")
	}

	for _, sub := range []string{"backgrounds", "apes", "baked"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return result, fmt.Errorf("failed to create asset dir: %w", err)
		}
	}

	write := func(rel string, render func() *image.NRGBA) error {
		path := filepath.Join(dir, rel)
		if !overwrite {
			if _, err := os.Stat(path); err == nil {
				result.Skipped = append(result.Skipped, path)
				return nil
			}
		}
		if err := writePNG(path, render()); err != nil {
			return err
		}
		result.Written = append(result.Written, path)
		return nil
	}

	for i, id := range Backgrounds {
		id := id
		bgSeed := seed + int64(i)*1000
		if err := write(BackgroundPath(id), func() *image.NRGBA {
			return generateBackground(size, backgroundColors[id], bgSeed)
		}); err != nil {
			return result, err
		}
	}

	for i, id := range Characters {
		id := id
		charSeed := seed + int64(100+i)*1000
		if err := write(CharacterPath(id), func() *image.NRGBA {
			return generateCharacter(size, characterFur[id], characterMargin[id])
		}); err != nil {
			return result, err
		}
		if err := write(BakedPath(id), func() *image.NRGBA {
			bg := generateBackground(size, backgroundColors[Backgrounds[i%len(Backgrounds)]], charSeed)
			plate := generateCharacter(size, characterFur[id], characterMargin[id])
			return bakePlate(bg, plate)
		}); err != nil {
			return result, err
		}
	}

	return result, nil
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create asset %s: %w", path, err)
	}
	defer file.Close() // nolint:errcheck

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode asset %s: %w", path, err)
	}
	return nil
}

// generateBackground fills the canvas with Perlin-shaded variations of the
// base color.
func generateBackground(size int, base color.NRGBA, seed int64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	noise := perlin.NewPerlin(2, 2, 3, seed)

	freq := float64(size) / 4.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			n := noise.Noise2D(float64(x)/freq, float64(y)/freq) // [-1, 1]
			shade := 1.0 + 0.25*n
			img.SetNRGBA(x, y, color.NRGBA{
				R: clampByte(float64(base.R) * shade),
				G: clampByte(float64(base.G) * shade),
				B: clampByte(float64(base.B) * shade),
				A: 255,
			})
		}
	}
	return img
}

// generateCharacter draws a transparent-background ape plate. margin is the
// fraction of the canvas left empty on each side; it varies per character
// so different plates have different amounts of transparent padding.
func generateCharacter(size int, fur color.NRGBA, margin float64) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	s := float64(size)
	inner := s * (1 - 2*margin)
	cx := s / 2
	top := s * margin

	face := color.NRGBA{
		R: clampByte(float64(fur.R) * 1.45),
		G: clampByte(float64(fur.G) * 1.45),
		B: clampByte(float64(fur.B) * 1.45),
		A: 255,
	}
	dark := color.NRGBA{R: 24, G: 18, B: 14, A: 255}

	headR := inner * 0.28
	headCY := top + inner*0.32

	// Torso, head, ears, face, muzzle, eyes.
	fillEllipse(img, cx, top+inner*0.74, inner*0.30, inner*0.26, fur)
	fillEllipse(img, cx-headR*1.05, headCY, headR*0.32, headR*0.32, fur)
	fillEllipse(img, cx+headR*1.05, headCY, headR*0.32, headR*0.32, fur)
	fillEllipse(img, cx, headCY, headR, headR, fur)
	fillEllipse(img, cx, headCY+headR*0.18, headR*0.74, headR*0.70, face)
	fillEllipse(img, cx, headCY+headR*0.52, headR*0.46, headR*0.34, face)
	fillEllipse(img, cx-headR*0.34, headCY-headR*0.12, headR*0.12, headR*0.12, dark)
	fillEllipse(img, cx+headR*0.34, headCY-headR*0.12, headR*0.12, headR*0.12, dark)
	fillEllipse(img, cx-headR*0.16, headCY+headR*0.50, headR*0.06, headR*0.09, dark)
	fillEllipse(img, cx+headR*0.16, headCY+headR*0.50, headR*0.06, headR*0.09, dark)

	return img
}

// bakePlate composites a character plate over a background into an opaque
// full-bleed image.
func bakePlate(bg, plate *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(bg.Bounds())
	copy(out.Pix, bg.Pix)

	b := plate.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := plate.NRGBAAt(x, y)
			if s.A == 0 {
				continue
			}
			if s.A == 255 {
				out.SetNRGBA(x, y, s)
				continue
			}
			d := out.NRGBAAt(x, y)
			sa := float64(s.A) / 255.0
			out.SetNRGBA(x, y, color.NRGBA{
				R: clampByte(float64(s.R)*sa + float64(d.R)*(1-sa)),
				G: clampByte(float64(s.G)*sa + float64(d.G)*(1-sa)),
				B: clampByte(float64(s.B)*sa + float64(d.B)*(1-sa)),
				A: 255,
			})
		}
	}
	return out
}

func fillEllipse(img *image.NRGBA, cx, cy, rx, ry float64, c color.NRGBA) {
	if rx <= 0 || ry <= 0 {
		return
	}
	b := img.Bounds()
	minX := int(math.Floor(cx - rx))
	maxX := int(math.Ceil(cx + rx))
	minY := int(math.Floor(cy - ry))
	maxY := int(math.Ceil(cy + ry))

	for y := max(minY, b.Min.Y); y <= min(maxY, b.Max.Y-1); y++ {
		for x := max(minX, b.Min.X); x <= min(maxX, b.Max.X-1); x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy <= 1.0 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
