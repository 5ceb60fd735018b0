// Package logging configures the process wide slog logger for the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelFromFlags returns the level selected by the verbosity flags:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order, so vv wins over q.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel converts a level name such as "debug" or "WARN" to a level.
// The empty string is the default level, warn.
func ParseLevel(name string) (slog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Resolve picks the level from the verbosity flags when any is set, and from
// the configured level name otherwise.
func Resolve(vv, v, q bool, configured string) (slog.Level, error) {
	if vv || v || q {
		return LevelFromFlags(vv, v, q), nil
	}
	return ParseLevel(configured)
}

// Setup installs a text handler writing to w at the given level as the
// default logger and returns it.
func Setup(w io.Writer, level slog.Leveler) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}
