// Package logger builds the process-wide zerolog logger.
//
// Development gets a human-friendly console writer; every other environment
// writes one JSON object per line to stderr.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger for the given environment. level may be empty, in
// which case development logs at debug and everything else at info.
func New(env, level string) zerolog.Logger {
	return newWithWriter(os.Stderr, env, level)
}

func newWithWriter(w io.Writer, env, level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = w
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).
		Level(parseLevel(env, level)).
		With().
		Timestamp().
		Str("service", "movie-catalog").
		Logger()
}

func parseLevel(env, level string) zerolog.Level {
	if level = strings.TrimSpace(level); level != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
			return lvl
		}
	}
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
