package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the sink the container reports through. The container only ever
// emits informational notices (deferred providers) and errors (unresolved
// services, boot failures), so the surface is deliberately small.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// LogFunc adapts a bare printf-style function into half of a Logger.
type LogFunc func(format string, args ...any)

// New returns the default console logger, tagged with the application name.
func New(app string) Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	zl := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	return &zeroLogger{zl: zl}
}

// FromZerolog wraps an existing zerolog.Logger so applications that already
// configure their own logging can feed the container into it.
func FromZerolog(zl zerolog.Logger) Logger {
	return &zeroLogger{zl: zl}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l *zeroLogger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }

// Funcs builds a Logger from two plain functions. Either may be nil, in which
// case that level is discarded.
func Funcs(info, errf LogFunc) Logger {
	return &funcLogger{info: info, errf: errf}
}

type funcLogger struct {
	info LogFunc
	errf LogFunc
}

func (l *funcLogger) Infof(format string, args ...any) {
	if l.info != nil {
		l.info(format, args...)
	}
}

func (l *funcLogger) Errorf(format string, args ...any) {
	if l.errf != nil {
		l.errf(format, args...)
	}
}

// Nop discards everything. Used when log output is suppressed.
var Nop Logger = nopLogger{}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
