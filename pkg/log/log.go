// Package log adds a thin wrapper around logrus so packages can attach
// structured fields without importing it directly.
package log

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	l     = logrus.New()
	debug = false
)

// SetDebug controls debug logging.
func SetDebug(to bool) {
	debug = to
	if to {
		l.Level = logrus.DebugLevel
	} else {
		l.Level = logrus.InfoLevel
	}
}

// SetFormatter sets the formatter.
func SetFormatter(to logrus.Formatter) {
	l.Formatter = to
}

// SetOutput sets the output.
func SetOutput(to io.Writer) {
	l.Out = to
}

// Fields is a map of logging fields.
type Fields map[string]interface{}

// Err wraps an error into Fields so its message and concrete type are
// logged together.
func Err(e error) Fields {
	return Fields{
		"error": e.Error(),
		"type":  fmt.Sprintf("%T", e),
	}
}

func merge(fields []Fields) logrus.Fields {
	merged := make(logrus.Fields)
	for _, ff := range fields {
		for k, v := range ff {
			merged[k] = v
		}
	}
	return merged
}

// Debug logs at the debug level if debug logging is enabled.
func Debug(v interface{}, fields ...Fields) {
	if debug {
		l.WithFields(merge(fields)).Debug(v)
	}
}

// Info logs at the info level.
func Info(v interface{}, fields ...Fields) {
	l.WithFields(merge(fields)).Info(v)
}

// Warn logs at the warning level.
func Warn(v interface{}, fields ...Fields) {
	l.WithFields(merge(fields)).Warn(v)
}

// Error logs at the error level.
func Error(v interface{}, fields ...Fields) {
	l.WithFields(merge(fields)).Error(v)
}

// Fatal logs at the fatal level and exits with a status code != 0.
func Fatal(v interface{}, fields ...Fields) {
	l.WithFields(merge(fields)).Fatal(v)
}
