// Package logging builds the zerolog logger shared by the application.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	Verbose bool      // debug level instead of info
	Writer  io.Writer // defaults to stderr
	JSON    bool      // raw JSON lines instead of the console format
}

// New returns a logger writing human-readable lines to stderr.
func New(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if !opts.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: opts.Writer != nil}
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
