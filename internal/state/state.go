// Package state holds the Composition: the single mutable description of
// what the pipeline renders. It is an explicit context object created by
// the caller and passed to every pipeline function, never a package-level
// singleton.
package state

import (
	"math/rand"

	"github.com/apehub/apegen/internal/assets"
)

// RenderMode selects the compositing strategy.
type RenderMode string

const (
	// ModeLayered draws a transparent character plate over an independently
	// selected background, normalized by its content bounding box.
	ModeLayered RenderMode = "layered"
	// ModeBaked draws one pre-composited plate cover-fit to the canvas.
	ModeBaked RenderMode = "baked"
)

// Accessories holds the three independent accessory slots.
type Accessories struct {
	Hat     assets.HatStyle
	Glasses assets.GlassesStyle
	Jewelry assets.JewelryStyle
}

// Text holds the header text layer settings. Size is in pixels at the
// 512-reference canvas and scales with the target canvas.
type Text struct {
	Content  string
	Font     assets.FontID
	Color    string
	Position assets.TextPosition
	Size     float64
}

// Locks gate randomization per layer. A locked layer is skipped by
// Randomize; locks have no effect on rendering.
type Locks struct {
	Background  bool
	Ape         bool
	Accessories bool
	Text        bool
}

// Composition is the full render input. It lives for the session, is
// mutated in place by controls and randomization, and is never persisted.
type Composition struct {
	Mode               RenderMode
	Background         string
	UseBakedBackground bool
	Ape                string
	AnchorOffsets      assets.AnchorOffsets
	Accessories        Accessories
	Text               Text
	Locks              Locks
	Debug              bool
}

// Default returns the fixed page-load composition.
func Default() *Composition {
	return &Composition{
		Mode:          ModeLayered,
		Background:    assets.Backgrounds[0],
		Ape:           assets.Characters[0],
		AnchorOffsets: assets.DefaultAnchorOffsets(),
		Accessories: Accessories{
			Hat:     assets.HatNone,
			Glasses: assets.GlassesNone,
			Jewelry: assets.JewelryNone,
		},
		Text: Text{
			Font:     assets.FontRegular,
			Color:    assets.TextColors[0],
			Position: assets.TextBottom,
			Size:     48,
		},
	}
}

// Clone returns a deep copy of the composition.
func (c *Composition) Clone() *Composition {
	out := *c
	out.AnchorOffsets = make(assets.AnchorOffsets, len(c.AnchorOffsets))
	for k, v := range c.AnchorOffsets {
		out.AnchorOffsets[k] = v
	}
	return &out
}

// Equal reports whether two compositions describe the same render.
func (c *Composition) Equal(other *Composition) bool {
	if c.Mode != other.Mode ||
		c.Background != other.Background ||
		c.UseBakedBackground != other.UseBakedBackground ||
		c.Ape != other.Ape ||
		c.Accessories != other.Accessories ||
		c.Text != other.Text ||
		c.Locks != other.Locks ||
		c.Debug != other.Debug {
		return false
	}
	if len(c.AnchorOffsets) != len(other.AnchorOffsets) {
		return false
	}
	for k, v := range c.AnchorOffsets {
		if other.AnchorOffsets[k] != v {
			return false
		}
	}
	return true
}

// Randomize draws a new uniform value for every unlocked layer. "none" is a
// valid outcome for each accessory slot. Text content is free-form user
// input and is left alone; the text layer's styling (font, color, position)
// is what randomizes. Locked layers are untouched.
func (c *Composition) Randomize(rng *rand.Rand) {
	if !c.Locks.Background {
		c.Background = assets.Backgrounds[rng.Intn(len(assets.Backgrounds))]
	}
	if !c.Locks.Ape {
		c.Ape = assets.Characters[rng.Intn(len(assets.Characters))]
	}
	if !c.Locks.Accessories {
		c.Accessories.Hat = assets.Hats[rng.Intn(len(assets.Hats))]
		c.Accessories.Glasses = assets.Glasses[rng.Intn(len(assets.Glasses))]
		c.Accessories.Jewelry = assets.Jewelries[rng.Intn(len(assets.Jewelries))]
	}
	if !c.Locks.Text {
		c.Text.Font = assets.Fonts[rng.Intn(len(assets.Fonts))]
		c.Text.Color = assets.TextColors[rng.Intn(len(assets.TextColors))]
		c.Text.Position = assets.TextPositions[rng.Intn(len(assets.TextPositions))]
	}
}

// ToggleLock flips the lock for a named layer. Unknown names are ignored.
func (c *Composition) ToggleLock(layer string) {
	switch layer {
	case "background":
		c.Locks.Background = !c.Locks.Background
	case "ape":
		c.Locks.Ape = !c.Locks.Ape
	case "accessories":
		c.Locks.Accessories = !c.Locks.Accessories
	case "text":
		c.Locks.Text = !c.Locks.Text
	}
}
