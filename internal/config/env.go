package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file configuration.
const (
	EnvSourceURL = "APIDOCGEN_SOURCE_URL"
	EnvOutputDir = "APIDOCGEN_OUTPUT_DIR"
	EnvLogLevel  = "APIDOCGEN_LOG_LEVEL"
)

var errNoEnvFile = errors.New("no .env file found")

// envFiles are tried in order; the first one present is loaded.
var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads variables from the first .env file found. Existing process
// environment variables are not overwritten.
func loadEnvFile() error {
	for _, p := range envFiles {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		return nil
	}
	return errNoEnvFile
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvSourceURL); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Output.Directory = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := ParseLogLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.Logging.Level = lvl
	}
	return nil
}
