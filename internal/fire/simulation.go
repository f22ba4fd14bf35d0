// Package fire runs a single wildfire simulation: fire spread followed by agent
// suppression, stepped until the fire is out, the step cap is hit, or the caller
// gives up.
package fire

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/agents"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/spread"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/states"
)

// Simulation owns one grid, its agents and RNG. It is not safe for concurrent use;
// run separate simulations on separate goroutines instead.
type Simulation struct {
	runID   string
	cfg     RunConfig
	params  core.Params
	rng     *rand.Rand
	grid    *core.Grid
	agents  []core.Agent
	bus     *events.EventBus
	machine *states.StateMachine
	logger  zerolog.Logger

	steps        int
	ignited      int
	extinguished int
	burnedOut    int
	agentMoves   int
	err          error
}

func (s *Simulation) RunID() string { return s.runID }

func (s *Simulation) Phase() states.RunPhase { return s.machine.CurrentPhase() }

func (s *Simulation) Steps() int { return s.steps }

// Grid returns the current grid. Callers must not modify it.
func (s *Simulation) Grid() *core.Grid { return s.grid }

// Agents returns a copy of the agents.
func (s *Simulation) Agents() []core.Agent {
	out := make([]core.Agent, len(s.agents))
	copy(out, s.agents)
	return out
}

func (s *Simulation) EventBus() *events.EventBus { return s.bus }

// History returns the phase transitions taken so far.
func (s *Simulation) History() []states.Transition { return s.machine.GetHistory() }

// Err returns the error that ended the run, if any.
func (s *Simulation) Err() error { return s.err }

// Step advances the run by one tick: spread on the current grid, then agent
// movement and suppression on the result. It returns core.ErrRunFinished once
// the run is in a terminal phase.
func (s *Simulation) Step() (report StepReport, err error) {
	if !s.Phase().CanStep() {
		return StepReport{Step: s.steps, Phase: s.Phase()}, core.ErrRunFinished
	}

	defer func() {
		if r := recover(); r != nil {
			s.fail(fmt.Errorf("%w: step %d: %v", core.ErrRunInternal, s.steps+1, r))
			report = StepReport{Step: s.steps, Phase: s.Phase()}
			err = s.err
		}
	}()

	previous := s.grid
	sr := spread.Step(previous, s.params, s.rng)
	out := agents.MoveAndSuppress(sr.Grid, s.agents, s.params.SuppressionBox)

	s.grid = sr.Grid
	s.steps++
	s.ignited += len(sr.Ignited)
	s.burnedOut += len(sr.BurnedOut)
	s.extinguished += len(out.Cells)
	s.agentMoves += out.TotalMoves()
	s.machine.GetContext().Steps = s.steps

	if s.bus.HasListeners(events.TypeStepCompleted) {
		s.bus.Publish(events.NewStepCompletedEvent(
			s.runID, s.steps, previous, s.grid, sr.Ignited, out.Cells, s.Agents(),
		))
	}

	burning := s.grid.Count(core.Burning)
	switch {
	case burning == 0:
		s.finish(states.PhaseTerminated, "no burning cells remain")
	case s.params.MaxSteps > 0 && s.steps >= s.params.MaxSteps:
		s.finish(states.PhaseCapped, fmt.Sprintf("step cap %d reached with %d cells burning", s.params.MaxSteps, burning))
	}

	return StepReport{
		Step:         s.steps,
		Ignited:      sr.Ignited,
		Extinguished: out.Cells,
		BurnedOut:    sr.BurnedOut,
		Burning:      burning,
		AgentMoves:   out.TotalMoves(),
		Phase:        s.Phase(),
	}, s.err
}

// Run steps until the run reaches a terminal phase. Cancellation is checked
// between steps; a cancelled run ends Aborted and returns ctx.Err() along with
// the partial result.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	for s.Phase().CanStep() {
		if err := ctx.Err(); err != nil {
			s.abort(err)
			break
		}
		if _, err := s.Step(); err != nil {
			break
		}
	}
	return s.Result(), s.err
}

// Result summarizes the run so far.
func (s *Simulation) Result() Result {
	r := Result{
		RunID:        s.runID,
		Seed:         s.cfg.Seed,
		AgentCount:   s.cfg.AgentCount,
		Ignition:     s.cfg.Ignition,
		Outcome:      outcomeForPhase(s.Phase()),
		Ignited:      s.ignited,
		Extinguished: s.extinguished,
		BurnedOut:    s.burnedOut,
		Steps:        s.steps,
		AgentMoves:   s.agentMoves,
	}
	r.computeRatios()
	if s.err != nil {
		r.Error = s.err.Error()
		r.ErrorKind = core.ErrorKind(s.err)
	}
	return r
}

func (s *Simulation) abort(err error) {
	s.err = err
	s.machine.GetContext().Error = err
	s.finish(states.PhaseAborted, "context cancelled")
}

func (s *Simulation) fail(err error) {
	s.err = err
	s.machine.GetContext().Error = err
	s.finish(states.PhaseFailed, "run-internal error")
}

func (s *Simulation) finish(phase states.RunPhase, reason string) {
	if err := s.machine.TransitionTo(phase, reason); err != nil {
		// Only reachable if the phase table is inconsistent with the loop.
		s.logger.Error().Err(err).Str("target_phase", phase.String()).Msg("Failed to end run")
		return
	}

	s.logger.Debug().
		Str("outcome", string(outcomeForPhase(phase))).
		Int("steps", s.steps).
		Int("ignited", s.ignited).
		Int("extinguished", s.extinguished).
		Msg("Simulation finished")

	s.bus.Publish(events.NewRunEndedEvent(
		s.runID,
		string(outcomeForPhase(phase)),
		s.steps,
		s.ignited,
		s.extinguished,
		s.machine.GetContext().GetElapsedTime(),
	))
}
