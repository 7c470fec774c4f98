package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	"git.home.luguber.info/inful/apidocgen/internal/docgen"
	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	"git.home.luguber.info/inful/apidocgen/internal/notify"
	"git.home.luguber.info/inful/apidocgen/internal/toolchain"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: apidocgen.yaml, optional)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Bundle the OpenAPI spec and render HTML documentation (default)"`
	Inspect  InspectCmd  `cmd:"" help:"Inspect previously generated documentation without invoking the toolchain"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate documentation whenever a local source spec changes"`
	Schedule ScheduleCmd `cmd:"" help:"Regenerate documentation periodically"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// Test seams.
var (
	stdout       io.Writer = os.Stdout
	newRunner              = defaultRunner
	newPublisher           = notify.New
)

func defaultRunner(cfg *config.Config) toolchain.Runner {
	return toolchain.NewExecRunner(cfg.Toolchain.Command).
		WithTimeout(cfg.Toolchain.TimeoutDuration())
}

// configPath returns the configuration file to load and whether the user named it.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return config.DefaultConfigFile, false
}

// loadConfig loads configuration and reconfigures logging from it. --verbose
// always wins over the configured level.
func loadConfig(root *CLI) (*config.Config, error) {
	path, explicit := root.configPath()
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load configuration").
			WithContext("path", path).
			UserAction().
			Build()
	}
	configureLogging(cfg, root.Verbose)
	slog.Debug("Configuration loaded", logfields.Path(path), logfields.Source(cfg.Source.URL))
	return cfg, nil
}

func configureLogging(cfg *config.Config, verbose bool) {
	level := cfg.Logging.Level.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// validate re-checks configuration after command-line overrides.
func validate(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return ferrors.ValidationError(err.Error()).Build()
	}
	return nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// pipeline is an orchestrator plus the sinks that outlive a single run.
type pipeline struct {
	orchestrator *docgen.Orchestrator
	recorder     *metrics.PrometheusRecorder // nil unless metrics.textfile is set
	textfile     string
	publisher    notify.Publisher
}

func newPipeline(cfg *config.Config) *pipeline {
	p := &pipeline{textfile: cfg.Metrics.Textfile, publisher: notify.NoopPublisher{}}

	opts := []docgen.Option{
		docgen.WithOutput(stdout),
		docgen.WithObserver(docgen.NewLogObserver(slog.Default())),
	}
	if p.textfile != "" {
		p.recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, docgen.WithObserver(docgen.NewRecorderObserver(p.recorder)))
	}
	if cfg.Notify.NATSURL != "" {
		pub, err := newPublisher(cfg.Notify)
		if err != nil {
			// notifications are best-effort; the run proceeds without them
			nerr := ferrors.NotifyError("run notifications disabled").
				WithCause(err).
				WithContext("url", cfg.Notify.NATSURL).
				Build()
			slog.Warn(nerr.Message(), logfields.Error(nerr))
		} else {
			p.publisher = pub
			opts = append(opts, docgen.WithObserver(docgen.NewNotifyObserver(pub)))
		}
	}

	p.orchestrator = docgen.New(cfg, newRunner(cfg), opts...)
	return p
}

// run executes one documentation run and exports metrics.
func (p *pipeline) run(ctx context.Context) error {
	_, err := p.orchestrator.Run(ctx)
	if p.recorder != nil {
		if werr := p.recorder.WriteTextfile(p.textfile); werr != nil {
			slog.Warn("Failed to write metrics textfile", logfields.Path(p.textfile), logfields.Error(werr))
		}
	}
	return err
}

func (p *pipeline) close() {
	p.publisher.Close()
}
