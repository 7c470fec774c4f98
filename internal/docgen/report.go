package docgen

import (
	"time"

	"git.home.luguber.info/inful/apidocgen/internal/openapi"
)

// Report summarizes one documentation run.
type Report struct {
	RunID          string
	Start          time.Time
	End            time.Time
	State          State
	FailedStep     Step // empty unless State is StateError
	Err            error
	StepDurations  map[Step]time.Duration
	BundleAttempts int
	Source         string
	SpecPath       string
	HTMLPath       string
	Spec           *openapi.Info // nil when the bundled document was not inspected
	HTMLTitle      string
}

func newReport(runID string, start time.Time) *Report {
	return &Report{
		RunID:         runID,
		Start:         start,
		State:         StatePending,
		StepDurations: make(map[Step]time.Duration, 2),
	}
}

// Duration is the wall time of the run; zero until the run has finished.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Succeeded reports whether the run reached StateDone.
func (r *Report) Succeeded() bool { return r.State == StateDone }
