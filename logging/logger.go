package logging

import (
	"errors"
)

// multiError matches errors.Join results and anything else that unwraps to
// several causes.
type multiError interface {
	Unwrap() []error
}

func Log(level LogLevel, msg string, args ...any) {
	if logger == nil {
		return
	}
	switch level {
	case LogLevelDebug:
		logger.Debug(msg, args...)
	case LogLevelInfo:
		logger.Info(msg, args...)
	default:
		panic("logging: Log only takes debug or info, use --loglevel=none to silence output")
	}
}

// LogErr logs err at error level. Extra key/value pairs are appended after
// the error, and errors that wrap several causes get a "causes" attribute.
func LogErr(err error, msg string, args ...any) {
	if err == nil || logger == nil {
		return
	}

	attrs := append([]any{"error", err.Error()}, args...)
	var multi multiError
	if errors.As(err, &multi) {
		var causes []string
		for _, cause := range multi.Unwrap() {
			if cause != nil {
				causes = append(causes, cause.Error())
			}
		}
		attrs = append(attrs, "causes", causes)
	}
	logger.Error(msg, attrs...)
}
