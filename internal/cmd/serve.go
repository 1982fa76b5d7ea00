package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apehub/apegen/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live preview over HTTP",
	Long: `Serve runs the generator behind an HTTP API: GET /preview.png for a
display-scaled view of the current composition, POST /state to change it,
POST /randomize, POST /locks/{layer}, and POST /export to write a PNG.

The preview is the full export-resolution render scaled for display; it is
never a separate lower-resolution render.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8685", "Listen address")
	serveCmd.Flags().String("export-dir", "./exports", "Directory for exported PNGs")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"serve.addr", "addr"},
		{"serve.export_dir", "export-dir"},
	}
	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, serveCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	comp, err := compositionFromConfig()
	if err != nil {
		return err
	}

	loader, renderer, exporter, cleanup, err := buildPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	// Warm the caches behind the listener; rendering degrades gracefully
	// for anything not yet loaded.
	go func() {
		result := loader.PreloadAll(context.Background())
		logger.Info("Background preload finished",
			"loaded", len(result.Loaded),
			"failed", len(result.Failed),
		)
	}()

	srv := server.New(server.Config{
		Addr:      viper.GetString("serve.addr"),
		ExportDir: viper.GetString("serve.export_dir"),
	}, renderer, exporter, comp, logger)

	return srv.ListenAndServe()
}
