package commands

import (
	"context"
	"log/slog"
	"time"

	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce string `help:"Quiet period before regenerating (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if w.Debounce != "" {
		cfg.Watch.Debounce = w.Debounce
	}
	if err := validate(cfg); err != nil {
		return err
	}

	path, err := watch.LocalPath(cfg.Source.URL)
	if err != nil {
		return ferrors.ValidationError("watch mode requires a local source file").
			WithCause(err).
			WithContext("source", cfg.Source.URL).
			Build()
	}

	ctx, cancel := signalContext()
	defer cancel()

	p := newPipeline(cfg)
	defer p.close()
	return runWatch(ctx, path, cfg.Watch.DebounceDuration(), p)
}

// runWatch generates once, then regenerates on every debounced change until
// ctx is done.
func runWatch(ctx context.Context, path string, debounce time.Duration, p *pipeline) error {
	w, err := watch.New(path, debounce, p.run)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch source file").
			WithContext("path", path).
			Build()
	}
	if err := p.run(ctx); err != nil {
		slog.Error("Initial generation failed; waiting for changes", logfields.Path(path), logfields.Error(err))
	}
	return w.Run(ctx)
}
