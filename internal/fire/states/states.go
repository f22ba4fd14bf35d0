package states

import (
	"fmt"
	"time"
)

// InitializingState represents run construction
type InitializingState struct{}

func NewInitializingState() State {
	return &InitializingState{}
}

func (s *InitializingState) Phase() RunPhase {
	return PhaseInitializing
}

func (s *InitializingState) Enter(ctx *RunContext) error {
	ctx.Logger.Debug().Msg("Entering Initializing state")
	return nil
}

func (s *InitializingState) Exit(ctx *RunContext) error {
	return nil
}

func (s *InitializingState) Validate(ctx *RunContext) error {
	return nil
}

// RunningState represents active stepping
type RunningState struct{}

func NewRunningState() State {
	return &RunningState{}
}

func (s *RunningState) Phase() RunPhase {
	return PhaseRunning
}

func (s *RunningState) Enter(ctx *RunContext) error {
	ctx.StartTime = time.Now()
	ctx.Logger.Debug().
		Int("max_steps", ctx.MaxSteps).
		Msg("Run started")
	return nil
}

func (s *RunningState) Exit(ctx *RunContext) error {
	ctx.EndTime = time.Now()
	ctx.Logger.Debug().
		Dur("elapsed", ctx.GetElapsedTime()).
		Int("steps", ctx.Steps).
		Msg("Exiting running state")
	return nil
}

func (s *RunningState) Validate(ctx *RunContext) error {
	if ctx.MaxSteps < 0 {
		return fmt.Errorf("max steps must be non-negative, got %d", ctx.MaxSteps)
	}
	return nil
}

// TerminatedState represents natural extinction of the fire
type TerminatedState struct{}

func NewTerminatedState() State {
	return &TerminatedState{}
}

func (s *TerminatedState) Phase() RunPhase {
	return PhaseTerminated
}

func (s *TerminatedState) Enter(ctx *RunContext) error {
	ctx.Logger.Debug().Int("steps", ctx.Steps).Msg("Fire extinct, run terminated")
	return nil
}

func (s *TerminatedState) Exit(ctx *RunContext) error {
	return nil
}

func (s *TerminatedState) Validate(ctx *RunContext) error {
	return nil
}

// CappedState represents a run stopped by its step budget
type CappedState struct{}

func NewCappedState() State {
	return &CappedState{}
}

func (s *CappedState) Phase() RunPhase {
	return PhaseCapped
}

func (s *CappedState) Enter(ctx *RunContext) error {
	ctx.Logger.Debug().Int("steps", ctx.Steps).Msg("Step cap reached with fire still burning")
	return nil
}

func (s *CappedState) Exit(ctx *RunContext) error {
	return nil
}

func (s *CappedState) Validate(ctx *RunContext) error {
	if ctx.MaxSteps <= 0 {
		return fmt.Errorf("capped state requires a step cap")
	}
	if ctx.Steps < ctx.MaxSteps {
		return fmt.Errorf("step cap %d not reached (steps %d)", ctx.MaxSteps, ctx.Steps)
	}
	return nil
}

// AbortedState represents a run abandoned by its caller
type AbortedState struct{}

func NewAbortedState() State {
	return &AbortedState{}
}

func (s *AbortedState) Phase() RunPhase {
	return PhaseAborted
}

func (s *AbortedState) Enter(ctx *RunContext) error {
	ctx.Logger.Debug().Err(ctx.Error).Int("steps", ctx.Steps).Msg("Run aborted")
	return nil
}

func (s *AbortedState) Exit(ctx *RunContext) error {
	return nil
}

func (s *AbortedState) Validate(ctx *RunContext) error {
	return nil
}

// FailedState represents a run-internal error
type FailedState struct{}

func NewFailedState() State {
	return &FailedState{}
}

func (s *FailedState) Phase() RunPhase {
	return PhaseFailed
}

func (s *FailedState) Enter(ctx *RunContext) error {
	ctx.Logger.Error().
		Err(ctx.Error).
		Int("steps", ctx.Steps).
		Msg("Run entered failed state")
	return nil
}

func (s *FailedState) Exit(ctx *RunContext) error {
	return nil
}

func (s *FailedState) Validate(ctx *RunContext) error {
	if ctx.Error == nil {
		return fmt.Errorf("failed state requires an error in context")
	}
	return nil
}
