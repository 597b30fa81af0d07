package ui

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	Debug bool
	zl    zerolog.Logger
}

func NewLogger(debug bool) *Logger {
	return NewLoggerTo(os.Stderr, debug)
}

// NewLoggerTo writes human-readable log lines to w.
func NewLoggerTo(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	if f, ok := w.(*os.File); !ok || f != os.Stderr {
		out.NoColor = true
	}

	return &Logger{
		Debug: debug,
		zl:    zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

// NopLogger discards everything.
func NopLogger() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Msgf(trim(format), args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(trim(format), args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(trim(format), args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Msgf(trim(format), args...)
}

// the console writer adds its own line break
func trim(format string) string {
	return strings.TrimRight(format, "\n")
}
