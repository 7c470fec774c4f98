package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStep       = "step"
	KeyState      = "state"
	KeySource     = "source"
	KeyPath       = "path"
	KeyCommand    = "command"
	KeyAttempt    = "attempt"
	KeyExitCode   = "exit_code"
	KeyDurationMS = "duration_ms"
	KeySubject    = "subject"
	KeyError      = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Source(src string) slog.Attr     { return slog.String(KeySource, src) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Command(c string) slog.Attr      { return slog.String(KeyCommand, c) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func ExitCode(code int) slog.Attr     { return slog.Int(KeyExitCode, code) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration converts d to a DurationMS attribute.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d) / float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
