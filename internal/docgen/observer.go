package docgen

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
	"git.home.luguber.info/inful/apidocgen/internal/metrics"
	"git.home.luguber.info/inful/apidocgen/internal/notify"
)

// Observer receives callbacks around state transitions, step execution and run
// completion.
type Observer interface {
	OnTransition(runID string, from, to State)
	OnStepComplete(runID string, step Step, d time.Duration, err error)
	OnRetry(runID string, step Step, retry int, delay time.Duration, err error)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnTransition(string, State, State)                 {}
func (NoopObserver) OnStepComplete(string, Step, time.Duration, error) {}
func (NoopObserver) OnRetry(string, Step, int, time.Duration, error)   {}
func (NoopObserver) OnRunComplete(*Report)                             {}

// recorderObserver adapts metrics.Recorder into an Observer.
type recorderObserver struct {
	NoopObserver
	rec metrics.Recorder
}

// NewRecorderObserver reports step and run outcomes to rec.
func NewRecorderObserver(rec metrics.Recorder) Observer {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return recorderObserver{rec: rec}
}

func (r recorderObserver) OnStepComplete(_ string, step Step, d time.Duration, err error) {
	r.rec.ObserveStepDuration(string(step), d)
	r.rec.IncStepResult(string(step), resultLabel(err))
}

func (r recorderObserver) OnRetry(string, Step, int, time.Duration, error) {
	r.rec.IncBundleRetry()
}

func (r recorderObserver) OnRunComplete(report *Report) {
	r.rec.ObserveRunDuration(report.Duration())
	r.rec.IncRunOutcome(resultLabel(report.Err))
	if report.Succeeded() {
		r.rec.SetLastSuccess(report.End)
	}
}

func resultLabel(err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, context.Canceled):
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

// logObserver writes structured logs for a run.
type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs run progress to logger (slog.Default when nil).
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return logObserver{logger: logger}
}

func (l logObserver) OnTransition(runID string, from, to State) {
	l.logger.Debug("Run state changed", logfields.RunID(runID), slog.String("from", string(from)), logfields.State(string(to)))
}

func (l logObserver) OnStepComplete(runID string, step Step, d time.Duration, err error) {
	if err != nil {
		l.logger.Error("Step failed", logfields.RunID(runID), logfields.Step(string(step)), logfields.Duration(d), logfields.Error(err))
		return
	}
	l.logger.Info("Step completed", logfields.RunID(runID), logfields.Step(string(step)), logfields.Duration(d))
}

func (l logObserver) OnRetry(runID string, step Step, retry int, delay time.Duration, err error) {
	l.logger.Warn("Retrying step", logfields.RunID(runID), logfields.Step(string(step)),
		logfields.Attempt(retry+1), slog.Duration("delay", delay), logfields.Error(err))
}

func (l logObserver) OnRunComplete(report *Report) {
	attrs := []any{
		logfields.RunID(report.RunID),
		logfields.State(string(report.State)),
		logfields.Duration(report.Duration()),
	}
	if report.Succeeded() {
		l.logger.Info("Documentation run finished", append(attrs, logfields.Path(report.HTMLPath))...)
		return
	}
	l.logger.Error("Documentation run failed", append(attrs, logfields.Step(string(report.FailedStep)), logfields.Error(report.Err))...)
}

// notifyObserver publishes a notify.Event when a run completes.
type notifyObserver struct {
	NoopObserver
	pub notify.Publisher
}

// NewNotifyObserver publishes run results through pub. Publication failures
// are logged as warnings and never affect the run.
func NewNotifyObserver(pub notify.Publisher) Observer {
	return notifyObserver{pub: pub}
}

func (n notifyObserver) OnRunComplete(report *Report) {
	if err := n.pub.Publish(context.Background(), EventFromReport(report)); err != nil {
		slog.Warn("Failed to publish run event", logfields.RunID(report.RunID), logfields.Error(err))
	}
}

// EventFromReport converts a report into its notification payload.
func EventFromReport(report *Report) *notify.Event {
	ev := &notify.Event{
		RunID:      report.RunID,
		State:      string(report.State),
		FailedStep: string(report.FailedStep),
		Source:     report.Source,
		SpecPath:   report.SpecPath,
		HTMLPath:   report.HTMLPath,
		Attempts:   report.BundleAttempts,
		DurationMS: report.Duration().Milliseconds(),
		Timestamp:  report.End,
	}
	if report.Spec != nil {
		ev.SpecTitle = report.Spec.Title
	}
	if report.Err != nil {
		ev.Error = report.Err.Error()
	}
	return ev
}
