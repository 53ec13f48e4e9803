// Package logging configures the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup installs the default logger. LOG_LEVEL selects the minimum level
// (debug|info|warn|error); LOG_FORMAT=json switches to machine-readable
// output, anything else gets a colorized dev handler.
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = tint.NewHandler(os.Stderr, &tint.Options{Level: lvl, TimeFormat: time.TimeOnly})
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}
