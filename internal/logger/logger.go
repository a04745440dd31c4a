// Package logger builds the zerolog loggers used by the binaries.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// Options tune New.
type Options struct {
	// Output defaults to os.Stderr so that command output on stdout stays
	// machine readable.
	Output io.Writer
	// Console renders human-friendly lines instead of JSON.
	Console bool
	// Debug lowers the level from info to debug.
	Debug bool
}

var stackOnce sync.Once

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// installStackMarshalers makes .Stack() work for plain errors by attaching a
// pkg/errors stack at the logging call site.
func installStackMarshalers() {
	stackOnce.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
	})
}

// New returns a logger tagged with service.
func New(service string, o Options) zerolog.Logger {
	installStackMarshalers()

	out := o.Output
	if out == nil {
		out = os.Stderr
	}
	if o.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: !isTerminal(out)}
	}
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().
		Str("service", service).
		Timestamp().
		Logger()
}

// isTerminal reports whether w is a character device such as a TTY.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
