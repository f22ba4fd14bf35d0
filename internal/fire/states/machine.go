package states

import (
	"fmt"
	"sync"
	"time"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
)

// State represents a run phase with lifecycle callbacks
type State interface {
	// Phase returns the RunPhase this state represents
	Phase() RunPhase

	// Enter is called when transitioning into this state
	Enter(ctx *RunContext) error

	// Exit is called when transitioning out of this state
	Exit(ctx *RunContext) error

	// Validate checks if the state can be entered given the context
	Validate(ctx *RunContext) error
}

// Transition represents a state transition in the history
type Transition struct {
	From      RunPhase
	To        RunPhase
	Timestamp time.Time
	Reason    string
}

// StateMachine manages run phase transitions and history
type StateMachine struct {
	mu           sync.RWMutex
	currentPhase RunPhase
	states       map[RunPhase]State
	context      *RunContext
	history      []Transition
	publisher    events.Publisher
}

// NewStateMachine creates a new state machine in PhaseInitializing.
// publisher may be nil.
func NewStateMachine(ctx *RunContext, publisher events.Publisher) *StateMachine {
	sm := &StateMachine{
		currentPhase: PhaseInitializing,
		states:       make(map[RunPhase]State),
		context:      ctx,
		history:      make([]Transition, 0, 4),
		publisher:    publisher,
	}

	sm.RegisterState(NewInitializingState())
	sm.RegisterState(NewRunningState())
	sm.RegisterState(NewTerminatedState())
	sm.RegisterState(NewCappedState())
	sm.RegisterState(NewAbortedState())
	sm.RegisterState(NewFailedState())

	return sm
}

// RegisterState registers a state implementation
func (sm *StateMachine) RegisterState(state State) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.states[state.Phase()] = state
}

// CurrentPhase returns the current run phase
func (sm *StateMachine) CurrentPhase() RunPhase {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase
}

// TransitionTo attempts to transition to the specified phase
func (sm *StateMachine) TransitionTo(targetPhase RunPhase, reason string) error {
	if err := sm.transition(targetPhase, reason); err != nil {
		return err
	}

	// Published outside the lock so handlers may query the machine.
	if sm.publisher != nil {
		sm.publisher.Publish(events.NewStateTransitionEvent(
			sm.context.RunID,
			sm.previousPhase(),
			targetPhase.String(),
			reason,
		))
	}
	return nil
}

func (sm *StateMachine) previousPhase() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.history[len(sm.history)-1].From.String()
}

func (sm *StateMachine) transition(targetPhase RunPhase, reason string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.currentPhase.CanTransitionTo(targetPhase) {
		return fmt.Errorf("invalid transition from %s to %s", sm.currentPhase, targetPhase)
	}

	currentState, hasCurrentState := sm.states[sm.currentPhase]
	targetState, hasTargetState := sm.states[targetPhase]

	if !hasTargetState {
		return fmt.Errorf("no state implementation for phase %s", targetPhase)
	}

	if err := targetState.Validate(sm.context); err != nil {
		return fmt.Errorf("target state validation failed: %w", err)
	}

	if hasCurrentState {
		if err := currentState.Exit(sm.context); err != nil {
			sm.context.Logger.Error().
				Err(err).
				Str("from_phase", sm.currentPhase.String()).
				Str("to_phase", targetPhase.String()).
				Msg("Error exiting state")
		}
	}

	sm.history = append(sm.history, Transition{
		From:      sm.currentPhase,
		To:        targetPhase,
		Timestamp: time.Now(),
		Reason:    reason,
	})

	previousPhase := sm.currentPhase
	sm.currentPhase = targetPhase

	if err := targetState.Enter(sm.context); err != nil {
		sm.currentPhase = previousPhase
		return fmt.Errorf("failed to enter state %s: %w", targetPhase, err)
	}

	sm.context.Logger.Debug().
		Str("from_phase", previousPhase.String()).
		Str("to_phase", targetPhase.String()).
		Str("reason", reason).
		Msg("State transition completed")

	return nil
}

// GetHistory returns a copy of the transition history
func (sm *StateMachine) GetHistory() []Transition {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	history := make([]Transition, len(sm.history))
	copy(history, sm.history)
	return history
}

// GetContext returns the run context
func (sm *StateMachine) GetContext() *RunContext {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.context
}

// CanTransitionTo checks if a transition to the target phase is allowed
func (sm *StateMachine) CanTransitionTo(targetPhase RunPhase) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.currentPhase.CanTransitionTo(targetPhase)
}
