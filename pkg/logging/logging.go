// Package logging keeps all logs on stderr; stdout carries the inventory.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// EnvFormat switches the handler to JSON when set to "json".
const EnvFormat = "OMD_INVENTORY_LOG_FORMAT"

// New returns a structured logger. format can be "json" or "text".
func New(level, format string) *slog.Logger {
	lvl := parseLevel(level)
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
