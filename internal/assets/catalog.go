// Package assets defines the fixed asset catalog and loads, caches, and
// generates the images the renderer composes. The catalog is closed: the
// set of backgrounds, characters, accessory styles, text colors, fonts, and
// positions is not user-extensible at runtime.
package assets

import "github.com/apehub/apegen/internal/geom"

// Namespace separates the decoded-image cache into its two populations.
type Namespace string

const (
	NamespaceBackgrounds Namespace = "backgrounds"
	NamespaceCharacters  Namespace = "characters"
)

// HatStyle is a hat accessory style.
type HatStyle string

const (
	HatNone   HatStyle = "none"
	HatCap    HatStyle = "cap"
	HatBeanie HatStyle = "beanie"
	HatCrown  HatStyle = "crown"
)

// GlassesStyle is an eyewear accessory style.
type GlassesStyle string

const (
	GlassesNone       GlassesStyle = "none"
	GlassesSunglasses GlassesStyle = "sunglasses"
	GlassesRound      GlassesStyle = "glasses"
)

// JewelryStyle is a neck accessory style.
type JewelryStyle string

const (
	JewelryNone     JewelryStyle = "none"
	JewelryChain    JewelryStyle = "chain"
	JewelryNecklace JewelryStyle = "necklace"
)

// TextPosition is the vertical placement of header text.
type TextPosition string

const (
	TextTop    TextPosition = "top"
	TextCenter TextPosition = "center"
	TextBottom TextPosition = "bottom"
)

// FontID selects one of the bundled text faces.
type FontID string

const (
	FontRegular FontID = "regular"
	FontBold    FontID = "bold"
	FontItalic  FontID = "italic"
	FontMono    FontID = "mono"
)

// Catalog enumerations. Order is fixed; preloading and randomization walk
// these slices in enumeration order.
var (
	Backgrounds = []string{"bg1", "bg2", "bg3", "bg4", "bg5", "bg6", "bg7", "bg8"}
	Characters  = []string{"ape1", "ape2", "ape3", "ape4", "ape5", "ape6", "ape7"}

	Hats      = []HatStyle{HatNone, HatCap, HatBeanie, HatCrown}
	Glasses   = []GlassesStyle{GlassesNone, GlassesSunglasses, GlassesRound}
	Jewelries = []JewelryStyle{JewelryNone, JewelryChain, JewelryNecklace}

	TextColors    = []string{"#ffffff", "#ffd700", "#00e5ff", "#ff4d6d"}
	TextPositions = []TextPosition{TextTop, TextCenter, TextBottom}
	Fonts         = []FontID{FontRegular, FontBold, FontItalic, FontMono}
)

// BackgroundPath returns the source path for a background id. Remote and
// inline sources are their own path.
func BackgroundPath(id string) string {
	if IsRemote(id) || IsDataURL(id) {
		return id
	}
	return "backgrounds/" + id + ".png"
}

// CharacterPath returns the source path for a character id (transparent
// plate, layered mode).
func CharacterPath(id string) string {
	if IsRemote(id) || IsDataURL(id) {
		return id
	}
	return "apes/" + id + ".png"
}

// BakedPath returns the source path for a character's baked plate
// (pre-composited with its own background, baked mode).
func BakedPath(id string) string {
	if IsRemote(id) || IsDataURL(id) {
		return id
	}
	return "baked/" + id + ".png"
}

// AnchorOffsets maps character ids to manual baked-mode framing corrections
// in export-space pixels. The shipped table is all zeros; it is a tuning
// table loaded from configuration, not a constant.
type AnchorOffsets map[string]geom.Point

// DefaultAnchorOffsets returns a zero offset for every character.
func DefaultAnchorOffsets() AnchorOffsets {
	offsets := make(AnchorOffsets, len(Characters))
	for _, id := range Characters {
		offsets[id] = geom.Point{}
	}
	return offsets
}

// Offset returns the tuning offset for a character, zero when unset.
func (a AnchorOffsets) Offset(id string) geom.Point {
	if a == nil {
		return geom.Point{}
	}
	return a[id]
}
