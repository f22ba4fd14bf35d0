package states

import (
	"time"

	"github.com/rs/zerolog"
)

// RunContext provides run-specific information to states
type RunContext struct {
	RunID  string
	Logger zerolog.Logger

	// StartTime is when PhaseRunning was entered
	StartTime time.Time
	// EndTime is when a terminal phase was entered
	EndTime time.Time

	// Steps is the number of completed steps, maintained by the simulation
	Steps int
	// MaxSteps is the step cap, 0 when uncapped
	MaxSteps int

	// Error holds the cause of PhaseFailed or PhaseAborted
	Error error
}

// NewRunContext creates a new run context
func NewRunContext(runID string, maxSteps int, logger zerolog.Logger) *RunContext {
	return &RunContext{
		RunID:    runID,
		MaxSteps: maxSteps,
		Logger:   logger.With().Str("run_id", runID).Logger(),
	}
}

// GetElapsedTime returns wall time spent running
func (rc *RunContext) GetElapsedTime() time.Duration {
	if rc.StartTime.IsZero() {
		return 0
	}
	if !rc.EndTime.IsZero() {
		return rc.EndTime.Sub(rc.StartTime)
	}
	return time.Since(rc.StartTime)
}
