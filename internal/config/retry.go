package config

import (
	"strings"
	"time"
)

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// NormalizeRetryBackoff converts arbitrary user input (case-insensitive) into a typed mode, returning empty string for unknown.
func NormalizeRetryBackoff(raw string) RetryBackoffMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(RetryBackoffFixed):
		return RetryBackoffFixed
	case string(RetryBackoffLinear):
		return RetryBackoffLinear
	case string(RetryBackoffExponential):
		return RetryBackoffExponential
	default:
		return ""
	}
}

// Initial returns the parsed initial delay, zero when unset.
func (r RetryConfig) Initial() time.Duration { return parseDurationOrZero(r.InitialDelay) }

// Max returns the parsed maximum delay, zero when unset.
func (r RetryConfig) Max() time.Duration { return parseDurationOrZero(r.MaxDelay) }

// TimeoutDuration returns the per-invocation timeout; zero means none.
func (t ToolchainConfig) TimeoutDuration() time.Duration { return parseDurationOrZero(t.Timeout) }

// DebounceDuration returns the watch debounce window.
func (w WatchConfig) DebounceDuration() time.Duration { return parseDurationOrZero(w.Debounce) }

// IntervalDuration returns the schedule interval.
func (s ScheduleConfig) IntervalDuration() time.Duration { return parseDurationOrZero(s.Interval) }

// parseDurationOrZero is used after Validate has rejected malformed values.
func parseDurationOrZero(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
