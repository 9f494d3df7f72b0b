package dpd

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(logger zerolog.Logger) Logger {
	return &zerologLogger{logger: logger}
}

// NewDefaultLogger returns a zerolog console logger writing to stderr,
// suitable for WithLogger during development.
func NewDefaultLogger() Logger {
	return NewLoggerWithWriter(zerolog.ConsoleWriter{Out: os.Stderr})
}

// NewLoggerWithWriter returns a zerolog-backed Logger writing to w.
func NewLoggerWithWriter(w io.Writer) Logger {
	return &zerologLogger{
		logger: zerolog.New(w).With().Timestamp().Str("component", "dpd").Logger(),
	}
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...any) {
	emit(l.logger.Debug(), msg, keysAndValues)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...any) {
	emit(l.logger.Info(), msg, keysAndValues)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...any) {
	emit(l.logger.Warn(), msg, keysAndValues)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...any) {
	emit(l.logger.Error(), msg, keysAndValues)
}

func emit(event *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	event.Msg(msg)
}
