package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// ParseLogLevel maps user input onto a LogLevel, ignoring case and
// surrounding space. Unknown values are an error.
func ParseLogLevel(raw string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return "", fmt.Errorf("invalid log level: %q", raw)
	}
}

// SlogLevel converts the level to its slog equivalent.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// ParseLogFormat maps user input onto a LogFormat, ignoring case and
// surrounding space. Unknown values are an error.
func ParseLogFormat(raw string) (LogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "json":
		return LogFormatJSON, nil
	case "text":
		return LogFormatText, nil
	default:
		return "", fmt.Errorf("invalid log format: %q", raw)
	}
}

// normalizeLogging canonicalizes recognized level and format spellings from the
// config file. Unrecognized values are left for Validate to reject.
func normalizeLogging(l *LoggingConfig) {
	if lvl, err := ParseLogLevel(string(l.Level)); err == nil {
		l.Level = lvl
	}
	if f, err := ParseLogFormat(string(l.Format)); err == nil {
		l.Format = f
	}
}
