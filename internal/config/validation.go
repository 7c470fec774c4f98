package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration for values that would make a run write
// outside the output directory or invoke the toolchain incorrectly.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.URL) == "" {
		return errors.New("source.url cannot be empty")
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if len(c.Toolchain.Command) == 0 || strings.TrimSpace(c.Toolchain.Command[0]) == "" {
		return errors.New("toolchain.command cannot be empty")
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	durations := map[string]string{
		"toolchain.timeout": c.Toolchain.Timeout,
		"watch.debounce":    c.Watch.Debounce,
		"schedule.interval": c.Schedule.Interval,
	}
	for field, raw := range durations {
		if err := validateDuration(field, raw); err != nil {
			return err
		}
	}
	switch c.Logging.Level {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid logging.level: %s", c.Logging.Level)
	}
	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.Directory) == "" {
		return errors.New("output.directory cannot be empty")
	}
	if err := validateFileName("output.spec_file", c.Output.SpecFile); err != nil {
		return err
	}
	if err := validateFileName("output.html_file", c.Output.HTMLFile); err != nil {
		return err
	}
	if c.Output.SpecFile == c.Output.HTMLFile {
		return fmt.Errorf("output.spec_file and output.html_file must differ: %s", c.Output.SpecFile)
	}
	return nil
}

// validateFileName requires a bare file name so artifacts stay inside the output directory.
func validateFileName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%s must be a file name without directories: %s", field, name)
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries cannot be negative: %d", c.Retry.MaxRetries)
	}
	if NormalizeRetryBackoff(string(c.Retry.Backoff)) == "" {
		return fmt.Errorf("invalid retry.backoff: %s", c.Retry.Backoff)
	}
	if err := validateDuration("retry.initial_delay", c.Retry.InitialDelay); err != nil {
		return err
	}
	return validateDuration("retry.max_delay", c.Retry.MaxDelay)
}

func validateDuration(field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	if d < 0 {
		return fmt.Errorf("%s cannot be negative: %s", field, raw)
	}
	return nil
}
