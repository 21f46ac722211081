// Package log provides structured logging setup for the engine. Every
// command calls Setup once with its --log-level flag and tags its logger
// with WithModule; libraries receive loggers, they never configure them.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a --log-level flag value to a slog level. Unknown
// values fall back to info so a typo never silences logging.
func ParseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Setup(logLevel string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(logLevel),
	})))
}

// WithModule returns the default logger tagged with the component name.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
