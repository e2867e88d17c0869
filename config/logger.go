package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger from GO_ENV and LOG_LEVEL. Production
// emits JSON for the log pipeline; any other environment gets human-readable
// text. An unset or unknown LOG_LEVEL falls back to info.
func NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(os.Getenv("GO_ENV"), "production") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
