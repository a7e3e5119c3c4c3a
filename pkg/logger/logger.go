// Package logger builds the zerolog logger shared across the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level names the minimum level to emit (trace, debug, info, warn,
	// error). Unknown or empty values fall back to info.
	Level string
	// Pretty switches to the console writer. Production runs want JSON,
	// so leave this off outside development.
	Pretty bool
	// Output receives the log stream, os.Stdout when nil.
	Output io.Writer
}

// Init configures zerolog's globals and returns the root logger. Call it
// once from main before anything logs.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level := levelFor(opts.Level)
	zerolog.SetGlobalLevel(level)

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func levelFor(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
