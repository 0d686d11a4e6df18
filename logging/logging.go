// Package logging builds the leveled logger shared by the server.
package logging

import (
	"io"
	stdlog "log"
	"strings"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       ParseFormatter(format),
		ReportTimestamp: true,
		Prefix:          "taskmanager",
	})
}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps text, json or logfmt to a formatter, defaulting to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Std adapts logger for APIs that want a *log.Logger from the standard library,
// such as the access log and panic recovery handlers.
func Std(logger *log.Logger, level log.Level) *stdlog.Logger {
	return logger.StandardLog(log.StandardLogOptions{ForceLevel: level})
}
