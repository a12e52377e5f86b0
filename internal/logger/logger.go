// Package logger wraps zerolog with the constructors the service needs.
//
// Logger embeds zerolog.Logger, so the whole zerolog API is available on
// *Logger. Request handlers get a request-scoped logger via FromContext.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// Options configures New.
type Options struct {
	Service string
	Level   string
	// File, when set, receives a copy of every entry, rotated by size.
	File string
}

// New builds a JSON logger writing to stdout and, optionally, a rotated file.
func New(opts Options) *Logger {
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}
	return newWithWriter(out, opts)
}

func newWithWriter(out io.Writer, opts Options) *Logger {
	l := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Str("service", opts.Service).
		Timestamp().
		Logger()

	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// FromContext returns the logger attached to ctx, or zerolog's disabled
// default when there is none.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

func parseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
