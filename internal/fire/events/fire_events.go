package events

import (
	"time"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// Event type constants
const (
	TypeRunStarted      = "run.started"
	TypeStepCompleted   = "step.completed"
	TypeRunEnded        = "run.ended"
	TypeStateTransition = "state.transition"
)

// RunStartedEvent is published once a run is initialized
type RunStartedEvent struct {
	BaseEvent
	Seed       int64
	GridSize   int
	AgentCount int
	Ignition   core.Coordinate
}

// NewRunStartedEvent creates a new RunStartedEvent
func NewRunStartedEvent(runID string, seed int64, gridSize, agentCount int, ignition core.Coordinate) *RunStartedEvent {
	return &RunStartedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeRunStarted,
			Time:      time.Now(),
			Run:       runID,
		},
		Seed:       seed,
		GridSize:   gridSize,
		AgentCount: agentCount,
		Ignition:   ignition,
	}
}

// StepCompletedEvent carries the per-step output of a run.
// Previous and Current are never written again by the run and must be treated
// as read-only by handlers.
type StepCompletedEvent struct {
	BaseEvent
	Step     int
	Previous *core.Grid
	Current  *core.Grid
	// Ignited lists cells that caught fire this step
	Ignited      []core.Coordinate
	Extinguished []core.Coordinate
	Agents       []core.Agent
}

// NewStepCompletedEvent creates a new StepCompletedEvent
func NewStepCompletedEvent(runID string, step int, previous, current *core.Grid, ignited, extinguished []core.Coordinate, agents []core.Agent) *StepCompletedEvent {
	return &StepCompletedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeStepCompleted,
			Time:      time.Now(),
			Run:       runID,
		},
		Step:         step,
		Previous:     previous,
		Current:      current,
		Ignited:      ignited,
		Extinguished: extinguished,
		Agents:       agents,
	}
}

// NewIgnitionMask returns a row-major 0/1 mask of the cells ignited this step.
func (e *StepCompletedEvent) NewIgnitionMask() []uint8 {
	mask := make([]uint8, e.Current.Size*e.Current.Size)
	for _, c := range e.Ignited {
		mask[c.ToIndex(e.Current.Size)] = 1
	}
	return mask
}

// RunEndedEvent is published when a run reaches a terminal phase
type RunEndedEvent struct {
	BaseEvent
	Outcome      string
	Steps        int
	Ignited      int
	Extinguished int
	Duration     time.Duration
}

// NewRunEndedEvent creates a new RunEndedEvent
func NewRunEndedEvent(runID, outcome string, steps, ignited, extinguished int, duration time.Duration) *RunEndedEvent {
	return &RunEndedEvent{
		BaseEvent: BaseEvent{
			EventType: TypeRunEnded,
			Time:      time.Now(),
			Run:       runID,
		},
		Outcome:      outcome,
		Steps:        steps,
		Ignited:      ignited,
		Extinguished: extinguished,
		Duration:     duration,
	}
}

// StateTransitionEvent is published when the run state machine changes phase
type StateTransitionEvent struct {
	BaseEvent
	FromPhase string
	ToPhase   string
	Reason    string
}

// NewStateTransitionEvent creates a new StateTransitionEvent
func NewStateTransitionEvent(runID, fromPhase, toPhase, reason string) *StateTransitionEvent {
	return &StateTransitionEvent{
		BaseEvent: BaseEvent{
			EventType: TypeStateTransition,
			Time:      time.Now(),
			Run:       runID,
		},
		FromPhase: fromPhase,
		ToPhase:   toPhase,
		Reason:    reason,
	}
}
