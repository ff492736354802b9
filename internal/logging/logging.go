// Package logging provides the leveled logger shared by all generator
// components.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger behind the small printf-style surface the
// rest of the generator uses.
type Logger struct {
	zl zerolog.Logger
}

// New returns a logger writing human-readable output to w. With debug set
// the logger also emits Debugf messages, otherwise Infof and up.
func New(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	return &Logger{
		zl: zerolog.New(console).Level(level).With().Timestamp().Logger(),
	}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}
