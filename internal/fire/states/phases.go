package states

import "fmt"

// RunPhase represents the lifecycle phase of one simulation run
type RunPhase int

const (
	// PhaseInitializing - grid, agents and RNG being built
	PhaseInitializing RunPhase = iota

	// PhaseRunning - steps are being applied
	PhaseRunning

	// PhaseTerminated - no burning cell remains
	PhaseTerminated

	// PhaseCapped - the step budget ran out while fire remained
	PhaseCapped

	// PhaseAborted - the caller cancelled the run
	PhaseAborted

	// PhaseFailed - a run-internal error stopped the run
	PhaseFailed
)

// String returns the string representation of a RunPhase
func (p RunPhase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseRunning:
		return "Running"
	case PhaseTerminated:
		return "Terminated"
	case PhaseCapped:
		return "Capped"
	case PhaseAborted:
		return "Aborted"
	case PhaseFailed:
		return "Failed"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if no further steps can be applied in this phase
func (p RunPhase) IsTerminal() bool {
	return p == PhaseTerminated || p == PhaseCapped || p == PhaseAborted || p == PhaseFailed
}

// CanStep returns true if the run accepts another step in this phase
func (p RunPhase) CanStep() bool {
	return p == PhaseRunning
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p RunPhase) AllowedTransitions() []RunPhase {
	switch p {
	case PhaseInitializing:
		return []RunPhase{PhaseRunning, PhaseFailed}
	case PhaseRunning:
		return []RunPhase{PhaseTerminated, PhaseCapped, PhaseAborted, PhaseFailed}
	default:
		return []RunPhase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p RunPhase) CanTransitionTo(target RunPhase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
