package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type LogLevel string

const (
	LogLevelNone  LogLevel = "none"
	LogLevelInfo  LogLevel = "info"
	LogLevelDebug LogLevel = "debug"
)

// ParseLevel accepts the same spellings as the --loglevel flag.
func ParseLevel(s string) (LogLevel, error) {
	switch level := LogLevel(s); level {
	case LogLevelNone, LogLevelInfo, LogLevelDebug:
		return level, nil
	default:
		return "", fmt.Errorf("unknown log level %q, expected none, info or debug", s)
	}
}

var logger *slog.Logger

func Setup(optslevel LogLevel) {
	SetupWriter(optslevel, os.Stderr)
}

// SetupWriter is Setup with an explicit sink.
func SetupWriter(optslevel LogLevel, sink io.Writer) {
	if optslevel == LogLevelNone {
		sink = io.Discard
	}

	level := slog.LevelDebug
	if optslevel == LogLevelInfo {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level: level,
	})
	logger = slog.New(handler)
}

// Reset drops the installed logger; Log and LogErr become no-ops again.
func Reset() {
	logger = nil
}
