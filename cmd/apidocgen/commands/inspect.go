package commands

import (
	"context"
	"fmt"
	"time"

	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/htmlcheck"
	"git.home.luguber.info/inful/apidocgen/internal/openapi"
	"git.home.luguber.info/inful/apidocgen/internal/toolchain"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Toolchain bool `help:"Also report the installed toolchain version"`
}

func (i *InspectCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	info, err := openapi.Inspect(cfg.SpecPath())
	if err != nil {
		return ferrors.ValidationError("bundled spec cannot be inspected").
			WithCause(err).
			WithContext("path", cfg.SpecPath()).
			Build()
	}
	_, _ = fmt.Fprintf(stdout, "Spec:  %s\n", cfg.SpecPath())
	_, _ = fmt.Fprintf(stdout, "  title:   %s\n", info.Title)
	_, _ = fmt.Fprintf(stdout, "  version: %s\n", info.Version)
	_, _ = fmt.Fprintf(stdout, "  openapi: %s\n", info.OpenAPIVersion)
	_, _ = fmt.Fprintf(stdout, "  paths:   %d\n", info.PathCount)
	if info.WebhookCount > 0 {
		_, _ = fmt.Fprintf(stdout, "  webhooks: %d\n", info.WebhookCount)
	}

	page, err := htmlcheck.Inspect(cfg.HTMLPath())
	if err != nil {
		return ferrors.ValidationError("rendered documentation cannot be inspected").
			WithCause(err).
			WithContext("path", cfg.HTMLPath()).
			Build()
	}
	_, _ = fmt.Fprintf(stdout, "HTML:  %s\n", cfg.HTMLPath())
	_, _ = fmt.Fprintf(stdout, "  title: %s\n", page.Title)
	_, _ = fmt.Fprintf(stdout, "  bytes: %d\n", page.Bytes)

	if i.Toolchain {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		runner := toolchain.NewExecRunner(cfg.Toolchain.Command)
		v := runner.Version(ctx)
		if v == "" {
			v = "unavailable"
		}
		_, _ = fmt.Fprintf(stdout, "Toolchain: %s (%s)\n", runner, v)
	}
	return nil
}
