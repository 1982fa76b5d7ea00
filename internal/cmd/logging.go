package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *slog.Logger

// initLogging sets up the process logger. Logs go to stderr; when log.file
// is configured they additionally go to a size-rotated file.
func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if path := viper.GetString("log.file"); path != "" {
		rotated := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
		}
		if rotated.MaxSize <= 0 {
			rotated.MaxSize = 20
		}
		w = io.MultiWriter(os.Stderr, rotated)
	}

	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
