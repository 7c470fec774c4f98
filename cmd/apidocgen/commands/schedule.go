package commands

import (
	"time"

	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/schedule"
)

// ScheduleCmd implements the 'schedule' command.
type ScheduleCmd struct {
	Every string `help:"Regeneration interval, e.g. 15m (overrides schedule.interval)"`
}

func (s *ScheduleCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if s.Every != "" {
		cfg.Schedule.Interval = s.Every
	}
	if err := validate(cfg); err != nil {
		return err
	}
	interval := cfg.Schedule.IntervalDuration()
	if interval < time.Second {
		return ferrors.ValidationError("schedule interval must be at least 1s").
			WithContext("interval", cfg.Schedule.Interval).
			Build()
	}

	ctx, cancel := signalContext()
	defer cancel()

	p := newPipeline(cfg)
	defer p.close()
	if err := schedule.Run(ctx, interval, p.run); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "scheduler failed").Build()
	}
	return nil
}
