package docgen

import "fmt"

// State is the lifecycle state of a documentation run.
type State string

const (
	StatePending   State = "pending"
	StateBundling  State = "bundling"
	StateRendering State = "rendering"
	StateDone      State = "done"
	StateError     State = "error"
)

// Step names an external tool invocation.
type Step string

const (
	StepBundle Step = "bundle"
	StepRender Step = "render"
)

var transitions = map[State][]State{
	StatePending:   {StateBundling},
	StateBundling:  {StateRendering, StateError},
	StateRendering: {StateDone, StateError},
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateError
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) String() string { return string(s) }

type transitionError struct {
	from, to State
}

func (e transitionError) Error() string {
	return fmt.Sprintf("invalid run state transition %s -> %s", e.from, e.to)
}
