package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/apehub/apegen/internal/assets"
	"github.com/apehub/apegen/internal/bbox"
	"github.com/apehub/apegen/internal/export"
	"github.com/apehub/apegen/internal/geom"
	"github.com/apehub/apegen/internal/render"
	"github.com/apehub/apegen/internal/state"
	"github.com/apehub/apegen/internal/store"
)

// buildPipeline wires the loader, renderer, and exporter from configuration.
// The returned cleanup closes the box store when one is open.
func buildPipeline() (*assets.Loader, *render.Renderer, *export.Exporter, func(), error) {
	cleanup := func() {}

	var boxStore bbox.Store
	if path := viper.GetString("box-cache"); path != "" {
		s, err := store.Open(path)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		boxStore = s
		cleanup = func() { _ = s.Close() }
		logger.Debug("Box cache enabled", "path", path)
	}

	loader := assets.NewLoader(viper.GetString("assets-dir"), bbox.NewCache(boxStore), logger)

	renderer, err := render.New(loader, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}

	exporter, err := export.New(renderer, logger, viper.GetString("render.png_compression"))
	if err != nil {
		cleanup()
		return nil, nil, nil, nil, err
	}

	return loader, renderer, exporter, cleanup, nil
}

// compositionFromConfig builds the composition from viper, starting at the
// fixed defaults.
func compositionFromConfig() (*state.Composition, error) {
	comp := state.Default()

	switch mode := viper.GetString("render.mode"); mode {
	case "", string(state.ModeLayered):
		comp.Mode = state.ModeLayered
	case string(state.ModeBaked):
		comp.Mode = state.ModeBaked
	default:
		return nil, fmt.Errorf("invalid render mode %q: must be layered or baked", mode)
	}

	if v := viper.GetString("render.background"); v != "" {
		comp.Background = v
	}
	if v := viper.GetString("render.ape"); v != "" {
		comp.Ape = v
	}
	comp.UseBakedBackground = viper.GetBool("render.use_baked_background")
	comp.Debug = viper.GetBool("render.debug")

	if v := viper.GetString("render.hat"); v != "" {
		comp.Accessories.Hat = assets.HatStyle(v)
	}
	if v := viper.GetString("render.glasses"); v != "" {
		comp.Accessories.Glasses = assets.GlassesStyle(v)
	}
	if v := viper.GetString("render.jewelry"); v != "" {
		comp.Accessories.Jewelry = assets.JewelryStyle(v)
	}

	comp.Text.Content = viper.GetString("render.text")
	if v := viper.GetString("render.text_font"); v != "" {
		comp.Text.Font = assets.FontID(v)
	}
	if v := viper.GetString("render.text_color"); v != "" {
		comp.Text.Color = v
	}
	if v := viper.GetString("render.text_position"); v != "" {
		comp.Text.Position = assets.TextPosition(v)
	}
	if v := viper.GetFloat64("render.text_size"); v > 0 {
		comp.Text.Size = v
	}

	// Baked-mode framing corrections are a tuning table, not constants.
	// config: assets.anchor_offsets.<ape>.{x,y} in export-space pixels.
	offsets := viper.GetStringMap("assets.anchor_offsets")
	for id := range offsets {
		sub := viper.Sub("assets.anchor_offsets." + id)
		if sub == nil {
			continue
		}
		comp.AnchorOffsets[id] = geom.Point{X: sub.GetFloat64("x"), Y: sub.GetFloat64("y")}
	}

	return comp, nil
}
