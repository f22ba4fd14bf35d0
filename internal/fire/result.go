package fire

import (
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/states"
)

// Outcome is how a run ended.
type Outcome string

const (
	// OutcomeTerminated - no burning cell remained after a step
	OutcomeTerminated Outcome = "terminated"
	// OutcomeCapped - the step cap was reached while fire remained
	OutcomeCapped Outcome = "capped"
	// OutcomeAborted - the caller cancelled the run
	OutcomeAborted Outcome = "aborted"
	// OutcomeFailed - the run could not be built or hit an internal error
	OutcomeFailed Outcome = "failed"
)

func outcomeForPhase(p states.RunPhase) Outcome {
	switch p {
	case states.PhaseTerminated:
		return OutcomeTerminated
	case states.PhaseCapped:
		return OutcomeCapped
	case states.PhaseAborted:
		return OutcomeAborted
	default:
		return OutcomeFailed
	}
}

// Result is the summary record of one run. It is immutable once produced.
type Result struct {
	RunID      string          `json:"run_id" yaml:"run_id"`
	Seed       int64           `json:"seed" yaml:"seed"`
	AgentCount int             `json:"agent_count" yaml:"agent_count"`
	Ignition   core.Coordinate `json:"ignition" yaml:"ignition"`
	Outcome    Outcome         `json:"outcome" yaml:"outcome"`

	// Ignited counts every cell that ever burned, the ignition point included.
	Ignited      int `json:"ignited" yaml:"ignited"`
	Extinguished int `json:"extinguished" yaml:"extinguished"`
	BurnedOut    int `json:"burned_out" yaml:"burned_out"`

	Efficiency           float64 `json:"efficiency" yaml:"efficiency"`
	AvgStepsToExtinguish float64 `json:"avg_steps_to_extinguish" yaml:"avg_steps_to_extinguish"`
	PercentExtinguished  float64 `json:"percent_extinguished" yaml:"percent_extinguished"`

	Steps      int `json:"steps" yaml:"steps"`
	AgentMoves int `json:"agent_moves" yaml:"agent_moves"`

	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
}

// OK reports whether the run ended on its own, by extinction or step cap.
func (r Result) OK() bool {
	return r.Outcome == OutcomeTerminated || r.Outcome == OutcomeCapped
}

// NewFailedResult builds the record for a run that could not be created.
func NewFailedResult(runID string, cfg RunConfig, err error) Result {
	return Result{
		RunID:      runID,
		Seed:       cfg.Seed,
		AgentCount: cfg.AgentCount,
		Ignition:   cfg.Ignition,
		Outcome:    OutcomeFailed,
		Error:      err.Error(),
		ErrorKind:  core.ErrorKind(err),
	}
}

// computeRatios fills the derived ratio fields from the counters.
func (r *Result) computeRatios() {
	if r.Ignited > 0 {
		r.Efficiency = float64(r.Extinguished) / float64(r.Ignited)
	}
	if r.Extinguished > 0 {
		r.AvgStepsToExtinguish = float64(r.AgentMoves) / float64(r.Extinguished)
	}
	r.PercentExtinguished = r.Efficiency * 100
}

// StepReport describes what a single Step changed.
type StepReport struct {
	Step         int
	Ignited      []core.Coordinate
	Extinguished []core.Coordinate
	BurnedOut    []core.Coordinate
	Burning      int
	AgentMoves   int
	Phase        states.RunPhase
}
