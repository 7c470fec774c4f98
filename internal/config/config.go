package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file looked up when --config is not given.
const DefaultConfigFile = "apidocgen.yaml"

// Default values for the documentation build. Running without a configuration
// file uses exactly these.
const (
	DefaultSourceURL   = "http://localhost:8080/v3/api-docs"
	DefaultOutputDir   = "./docs"
	DefaultSpecFile    = "openapi.json"
	DefaultHTMLFile    = "api-docs.html"
	DefaultNATSSubject = "apidocgen.runs"
	DefaultDebounce    = "2s"
	DefaultInterval    = "15m"
)

// DefaultToolchain is the documentation CLI invoked for bundling and rendering.
var DefaultToolchain = []string{"npx", "@redocly/cli"}

// Config represents the application configuration.
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Output    OutputConfig    `yaml:"output"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Retry     RetryConfig     `yaml:"retry"`
	Checks    ChecksConfig    `yaml:"checks"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Notify    NotifyConfig    `yaml:"notify"`
	Watch     WatchConfig     `yaml:"watch"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
}

// SourceConfig locates the OpenAPI document to bundle.
type SourceConfig struct {
	URL string `yaml:"url"` // http(s) URL or local file path
}

// OutputConfig describes where artifacts are written. SpecFile and HTMLFile are
// bare file names inside Directory.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	SpecFile  string `yaml:"spec_file"`
	HTMLFile  string `yaml:"html_file"`
}

// ToolchainConfig configures the external documentation CLI.
type ToolchainConfig struct {
	Command    []string `yaml:"command"`               // e.g. ["npx", "@redocly/cli"]
	BundleArgs []string `yaml:"bundle_args,omitempty"` // appended to the bundle invocation
	RenderArgs []string `yaml:"render_args,omitempty"` // appended to the build-docs invocation
	Timeout    string   `yaml:"timeout,omitempty"`     // per invocation; empty or 0 = none
}

// RetryConfig controls retries of the bundling step.
type RetryConfig struct {
	MaxRetries   int              `yaml:"max_retries"`
	Backoff      RetryBackoffMode `yaml:"backoff,omitempty"`
	InitialDelay string           `yaml:"initial_delay,omitempty"`
	MaxDelay     string           `yaml:"max_delay,omitempty"`
}

// ChecksConfig toggles the structural checks run on produced artifacts.
type ChecksConfig struct {
	Spec *bool `yaml:"spec,omitempty"` // inspect bundled document (default true)
	HTML *bool `yaml:"html,omitempty"` // inspect rendered page (default true)
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig enables Prometheus metrics export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // node-exporter textfile collector path
}

// NotifyConfig configures run-completion notifications over NATS.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"`
}

// ScheduleConfig configures periodic regeneration.
type ScheduleConfig struct {
	Interval string `yaml:"interval,omitempty"`
}

// Load loads configuration from configPath. When explicit is false and the file
// does not exist, defaults are returned so the tool runs with no configuration.
func Load(configPath string, explicit bool) (*Config, error) {
	if err := loadEnvFile(); err != nil && !errors.Is(err, errNoEnvFile) {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		// Expand environment variables in the YAML content
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no file: run on defaults
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration built only from defaults.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Source.URL == "" {
		cfg.Source.URL = DefaultSourceURL
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.SpecFile == "" {
		cfg.Output.SpecFile = DefaultSpecFile
	}
	if cfg.Output.HTMLFile == "" {
		cfg.Output.HTMLFile = DefaultHTMLFile
	}
	if len(cfg.Toolchain.Command) == 0 {
		cfg.Toolchain.Command = append([]string(nil), DefaultToolchain...)
	}
	if cfg.Retry.Backoff == "" {
		cfg.Retry.Backoff = RetryBackoffLinear
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	normalizeLogging(&cfg.Logging)
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNATSSubject
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Schedule.Interval == "" {
		cfg.Schedule.Interval = DefaultInterval
	}
}

// SpecPath is the bundled document location inside the output directory.
func (c *Config) SpecPath() string {
	return outputPath(c.Output.Directory, c.Output.SpecFile)
}

// HTMLPath is the rendered page location inside the output directory.
func (c *Config) HTMLPath() string {
	return outputPath(c.Output.Directory, c.Output.HTMLFile)
}

// outputPath joins name onto dir keeping dir exactly as configured, so the
// default reads "./docs/api-docs.html" rather than the cleaned "docs/...".
func outputPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + "/" + name
}

// SpecCheckEnabled reports whether the bundled document is inspected after bundling.
func (c *Config) SpecCheckEnabled() bool { return c.Checks.Spec == nil || *c.Checks.Spec }

// HTMLCheckEnabled reports whether the rendered page is inspected after rendering.
func (c *Config) HTMLCheckEnabled() bool { return c.Checks.HTML == nil || *c.Checks.HTML }
