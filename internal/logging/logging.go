// Package logging provides the zerolog setup shared by every component.
//
// Components obtain a logger from the context with FromContext and attach
// a "component" field via ComponentLogger, so calculation paths stay
// traceable without plumbing a logger through every signature.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Unparseable values fall back to info.
	Level string

	// Format selects the output encoding: "console" for human-readable
	// output, anything else for JSON.
	Format string

	// Output is the destination writer. Defaults to os.Stderr when nil.
	Output io.Writer
}

// New constructs a zerolog.Logger from cfg.
func New(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// ComponentLogger returns a child logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// WithContext stores the logger in ctx for retrieval with FromContext.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none is present. Calculation paths must never fail for lack of a logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
