// Package observability holds logger construction and relay telemetry.
package observability

import (
	"log/slog"
	"os"
	"strings"
)

// LoggerFromString builds the process logger from a level name. Unknown
// levels fall back to Info.
func LoggerFromString(level string) *slog.Logger {
	return LoggerFromLevel(parseLevel(level))
}

func LoggerFromLevel(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
