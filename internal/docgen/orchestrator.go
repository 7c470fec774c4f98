package docgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/apidocgen/internal/config"
	ferrors "git.home.luguber.info/inful/apidocgen/internal/foundation/errors"
	"git.home.luguber.info/inful/apidocgen/internal/htmlcheck"
	"git.home.luguber.info/inful/apidocgen/internal/openapi"
	"git.home.luguber.info/inful/apidocgen/internal/retry"
	"git.home.luguber.info/inful/apidocgen/internal/toolchain"
)

// Progress lines written to the orchestrator's output.
const (
	MsgFetching   = "📥 Fetching OpenAPI spec..."
	MsgGenerating = "📄 Generating HTML documentation..."
	MsgGenerated  = "✅ API documentation generated:"
)

// Orchestrator runs the bundle and render steps against one configuration.
// It is safe to call Run repeatedly; callers serialize concurrent runs.
type Orchestrator struct {
	cfg       *config.Config
	runner    toolchain.Runner
	out       io.Writer
	observers []Observer
	policy    retry.Policy
	now       func() time.Time
	newID     func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithOutput sets where progress lines are written (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(o *Orchestrator) { o.out = w }
}

// WithObserver registers an observer. Observers are called in registration order.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithRetryPolicy overrides the bundling retry policy derived from configuration.
func WithRetryPolicy(p retry.Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator that invokes the toolchain through runner.
func New(cfg *config.Config, runner toolchain.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		runner: runner,
		out:    os.Stdout,
		policy: retry.FromConfig(cfg.Retry),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one documentation build. The returned report is never nil; err
// is the classified failure that moved the run to StateError.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	report := newReport(o.newID(), o.now())
	report.Source = o.cfg.Source.URL
	report.SpecPath = o.cfg.SpecPath()
	report.HTMLPath = o.cfg.HTMLPath()

	err := o.run(ctx, report)
	if err != nil {
		report.Err = err
		if !report.State.Terminal() {
			_ = o.transition(report, StateError)
		}
	}
	report.End = o.now()
	for _, obs := range o.observers {
		obs.OnRunComplete(report)
	}
	return report, err
}

func (o *Orchestrator) run(ctx context.Context, report *Report) error {
	if err := o.transition(report, StateBundling); err != nil {
		return err
	}
	report.FailedStep = StepBundle
	if err := ensureOutputDir(o.cfg.Output.Directory); err != nil {
		return err
	}
	o.println(MsgFetching)
	if err := o.bundle(ctx, report); err != nil {
		return err
	}

	if err := o.transition(report, StateRendering); err != nil {
		return err
	}
	report.FailedStep = StepRender
	o.println(MsgGenerating)
	if err := o.render(ctx, report); err != nil {
		return err
	}

	if err := o.transition(report, StateDone); err != nil {
		return err
	}
	report.FailedStep = ""
	o.println(MsgGenerated)
	o.println("   " + report.HTMLPath)
	return nil
}

func (o *Orchestrator) bundle(ctx context.Context, report *Report) error {
	args := append([]string{"bundle", report.Source, "-o", report.SpecPath}, o.cfg.Toolchain.BundleArgs...)
	start := o.now()

	attempts, err := o.policy.Do(ctx,
		func(int) error { return o.runner.Run(ctx, args...) },
		func(err error) bool { return retryableBundleError(ctx, err) },
		func(retryNum int, delay time.Duration, err error) {
			for _, obs := range o.observers {
				obs.OnRetry(report.RunID, StepBundle, retryNum, delay, err)
			}
		})
	report.BundleAttempts = attempts
	if err != nil {
		err = classifyStepError(ctx, StepBundle, err).
			WithContext("source", report.Source).
			WithContext("attempts", attempts)
	} else if o.cfg.SpecCheckEnabled() {
		info, inspectErr := openapi.Inspect(report.SpecPath)
		if inspectErr != nil {
			err = ferrors.BundleError("bundled document is not a valid OpenAPI document").
				WithCause(inspectErr).
				WithContext("path", report.SpecPath).
				Build()
		} else {
			report.Spec = info
		}
	}
	o.completeStep(report, StepBundle, start, err)
	return err
}

func (o *Orchestrator) render(ctx context.Context, report *Report) error {
	args := append([]string{"build-docs", report.SpecPath, "-o", report.HTMLPath}, o.cfg.Toolchain.RenderArgs...)
	start := o.now()

	err := o.runner.Run(ctx, args...)
	if err != nil {
		err = classifyStepError(ctx, StepRender, err).WithContext("path", report.SpecPath)
	} else if o.cfg.HTMLCheckEnabled() {
		page, inspectErr := htmlcheck.Inspect(report.HTMLPath)
		if inspectErr != nil {
			err = ferrors.RenderError("rendered documentation page is invalid").
				WithCause(inspectErr).
				WithContext("path", report.HTMLPath).
				Build()
		} else {
			report.HTMLTitle = page.Title
		}
	}
	o.completeStep(report, StepRender, start, err)
	return err
}

func (o *Orchestrator) completeStep(report *Report, step Step, start time.Time, err error) {
	d := o.now().Sub(start)
	report.StepDurations[step] = d
	for _, obs := range o.observers {
		obs.OnStepComplete(report.RunID, step, d, err)
	}
}

func (o *Orchestrator) transition(report *Report, to State) error {
	from := report.State
	if !CanTransition(from, to) {
		return ferrors.InternalError("invalid run state transition").
			WithCause(transitionError{from: from, to: to}).
			Build()
	}
	report.State = to
	for _, obs := range o.observers {
		obs.OnTransition(report.RunID, from, to)
	}
	return nil
}

func (o *Orchestrator) println(line string) {
	_, _ = fmt.Fprintln(o.out, line)
}

// ensureOutputDir creates dir (and parents) if absent and reuses it otherwise.
func ensureOutputDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return ferrors.FileSystemError("output path exists and is not a directory").
			WithContext("path", dir).
			Build()
	case err == nil:
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to stat output directory").
			WithContext("path", dir).
			Build()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", dir).
			Build()
	}
	return nil
}

// retryableBundleError reports whether a failed bundle invocation may be
// retried: the toolchain ran and exited non-zero, and the run is still live.
func retryableBundleError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return errors.Is(err, toolchain.ErrToolchainFailed) && !errors.Is(err, toolchain.ErrToolchainNotFound)
}

// classifyStepError maps a runner error to the classified error for step.
func classifyStepError(ctx context.Context, step Step, err error) *ferrors.ClassifiedError {
	switch {
	case errors.Is(err, toolchain.ErrToolchainNotFound):
		return ferrors.ToolchainError("documentation toolchain not found on PATH").
			WithCause(err).
			WithContext("step", string(step)).
			Build()
	case ctx.Err() != nil:
		return ferrors.RuntimeError("documentation run canceled").
			WithCause(errors.Join(ctx.Err(), err)).
			WithContext("step", string(step)).
			Build()
	case step == StepBundle:
		return ferrors.BundleError("failed to bundle OpenAPI spec").WithCause(err).Build()
	default:
		return ferrors.RenderError("failed to generate HTML documentation").WithCause(err).Build()
	}
}
