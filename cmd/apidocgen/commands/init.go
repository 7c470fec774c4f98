package commands

import (
	"fmt"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	path, _ := root.configPath()
	return RunInit(path, i.Force)
}

func RunInit(configPath string, force bool) error {
	_, _ = fmt.Fprintf(stdout, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "initialization failed").
			WithContext("path", configPath).
			UserAction().
			Build()
	}
	_, _ = fmt.Fprintln(stdout, "initialized successfully")
	return nil
}
