package logger

import (
	"log/slog"
	"os"
)

// Logger wraps slog with a fixed JSON handler and service-level attrs so
// every line carries the service name and hostname.
type Logger struct {
	*slog.Logger
}

// New builds a JSON logger for the named service.
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return &Logger{
		Logger: slog.New(handler).With(
			slog.String("service", service),
			slog.String("hostname", hostname),
		),
	}
}

// With returns a child logger carrying extra attrs.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Err logs an error with a consistent attr key.
func (l *Logger) Err(msg string, err error, args ...any) {
	l.Logger.Error(msg, append([]any{slog.String("error", err.Error())}, args...)...)
}
