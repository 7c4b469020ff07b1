// Package logging provides structured logging for dirctl using zerolog.
//
// Human-readable console output is used when stderr is a terminal and JSON
// otherwise. Components receive a logger explicitly or pull one from the
// context:
//
//	log := logging.FromContext(ctx)
//	log.Info().Str("entity", "users").Int("updated", n).Msg("sync finished")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

var defaultLogger = NewFromConfig(Config{})

// Nop discards everything.
var Nop = zerolog.Nop()

// Config controls logger construction.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Empty means info.
	Level string

	// Format is "console", "json" or "auto" (console on a terminal).
	Format string

	// Output receives log lines. Nil means os.Stderr.
	Output io.Writer
}

// NewFromConfig builds a logger from cfg.
func NewFromConfig(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	if useConsole(cfg.Format, out) {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := ParseLevel(cfg.Level)
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel converts a level name, falling back to info for unknown input.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func useConsole(format string, out io.Writer) bool {
	switch strings.ToLower(format) {
	case "json":
		return false
	case "console", "text":
		return true
	}
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}
