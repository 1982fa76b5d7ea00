package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a composition to a PNG file",
	Long: `Render composes the configured background, character, accessories, and
text at the fixed 2048x2048 export resolution and writes a lossless PNG
with a timestamped name.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().String("mode", "layered", "Render mode: layered or baked")
	renderCmd.Flags().String("ape", "", "Character id (ape1..ape7)")
	renderCmd.Flags().String("background", "", "Background id (bg1..bg8)")
	renderCmd.Flags().Bool("use-baked-background", false, "Baked mode: show the plate's own background")
	renderCmd.Flags().String("hat", "", "Hat style: none, cap, beanie, crown")
	renderCmd.Flags().String("glasses", "", "Eyewear style: none, sunglasses, glasses")
	renderCmd.Flags().String("jewelry", "", "Jewelry style: none, chain, necklace")
	renderCmd.Flags().String("text", "", "Header text content")
	renderCmd.Flags().String("text-font", "", "Text font: regular, bold, italic, mono")
	renderCmd.Flags().String("text-color", "", "Text color (catalog hex, e.g. #ffd700)")
	renderCmd.Flags().String("text-position", "", "Text position: top, center, bottom")
	renderCmd.Flags().Float64("text-size", 0, "Text size in pixels at the 512 reference canvas")
	renderCmd.Flags().Bool("debug", false, "Draw the diagnostic overlay (never exported)")
	renderCmd.Flags().String("out-dir", "./exports", "Output directory for exported PNGs")
	renderCmd.Flags().String("png-compression", "best", "PNG compression (default, speed, best, none)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"render.mode", "mode"},
		{"render.ape", "ape"},
		{"render.background", "background"},
		{"render.use_baked_background", "use-baked-background"},
		{"render.hat", "hat"},
		{"render.glasses", "glasses"},
		{"render.jewelry", "jewelry"},
		{"render.text", "text"},
		{"render.text_font", "text-font"},
		{"render.text_color", "text-color"},
		{"render.text_position", "text-position"},
		{"render.text_size", "text-size"},
		{"render.debug", "debug"},
		{"render.out_dir", "out-dir"},
		{"render.png_compression", "png-compression"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, renderCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	comp, err := compositionFromConfig()
	if err != nil {
		return err
	}

	_, _, exporter, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Rendering composition",
		"mode", comp.Mode,
		"ape", comp.Ape,
		"background", comp.Background,
	)

	path, err := exporter.ExportFile(cmd.Context(), comp, viper.GetString("render.out_dir"))
	if err != nil {
		return err
	}

	logger.Info("Render complete", "path", path)
	return nil
}
