package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// GenerateCmd implements the 'generate' command: bundle, then render.
type GenerateCmd struct {
	Source string `short:"s" help:"OpenAPI source URL or file (overrides source.url)"`
	Output string `short:"o" help:"Output directory (overrides output.directory)"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if g.Source != "" {
		cfg.Source.URL = g.Source
	}
	if g.Output != "" {
		cfg.Output.Directory = g.Output
	}
	if err := validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	p := newPipeline(cfg)
	defer p.close()

	slog.Debug("Starting documentation build", logfields.Source(cfg.Source.URL), logfields.Path(cfg.Output.Directory))
	return p.run(ctx)
}
