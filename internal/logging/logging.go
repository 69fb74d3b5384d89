// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects the log level, format and destination.
type Options struct {
	// Level is a zerolog level name. Empty means "info".
	Level string
	// Format is "console" for human-readable output or "json".
	Format string
	// File, when set, receives the logs instead of stderr.
	File string
}

// Init installs the global logger. The returned function closes the log
// file, if one was opened.
func Init(opts Options) (func() error, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		level = l
	}

	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, f.Close
	}

	log.Logger = New(out, opts.Format, level)
	zerolog.SetGlobalLevel(level)
	return closeFn, nil
}

// New builds a logger writing to w.
func New(w io.Writer, format string, level zerolog.Level) zerolog.Logger {
	switch format {
	case "json":
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: w != os.Stderr}
	default:
		log.Warn().Str("format", format).Msg("Unknown log format, using console")
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
