// Package batch runs many independent simulations concurrently and collects
// their result records in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/monitoring"
)

// RunSpec is one entry of a batch.
type RunSpec struct {
	Seed           int64             `yaml:"seed"`
	AgentCount     int               `yaml:"agents"`
	Ignition       core.Coordinate   `yaml:"ignition"`
	AgentPositions []core.Coordinate `yaml:"agent_positions,omitempty"`
}

// RunConfig converts the spec for fire.NewSimulation.
func (s RunSpec) RunConfig() fire.RunConfig {
	return fire.RunConfig{
		Seed:           s.Seed,
		AgentCount:     s.AgentCount,
		Ignition:       s.Ignition,
		AgentPositions: s.AgentPositions,
	}
}

// Runner executes batches of runs sharing one set of parameters.
type Runner struct {
	Params core.Params
	// Workers bounds concurrent runs; 0 means GOMAXPROCS.
	Workers int
	Logger  zerolog.Logger
	// Progress, when set, is told about every run start and finish.
	Progress *monitoring.Progress
	// Subscribers, when set, supplies extra event subscribers for run i.
	Subscribers func(index int, runID string, spec RunSpec) []events.Subscriber
}

// NewRunner creates a runner with the default worker count.
func NewRunner(params core.Params, logger zerolog.Logger) *Runner {
	return &Runner{
		Params: params,
		Logger: logger.With().Str("component", "BatchRunner").Logger(),
	}
}

// Run executes every spec on its own goroutine and returns one record per spec,
// in spec order. An invalid spec yields a failed record with ErrorKind "config"
// and does not affect the other runs.
//
// If ctx is cancelled, runs still in flight are abandoned and only the records of
// runs that had already completed are returned, together with ctx.Err().
func (r *Runner) Run(ctx context.Context, specs []RunSpec) ([]fire.Result, error) {
	if len(specs) == 0 {
		return []fire.Result{}, fmt.Errorf("%w: %w", core.ErrInvalidConfig, core.ErrNoRuns)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own slot; slots are read after Wait.
	results := make([]fire.Result, len(specs))
	completed := make([]bool, len(specs))

	var g errgroup.Group
	g.SetLimit(workers)

	r.Logger.Info().
		Int("runs", len(specs)).
		Int("workers", workers).
		Msg("Starting batch")

	for i, spec := range specs {
		if ctx.Err() != nil {
			break
		}
		i, spec := i, spec
		g.Go(func() error {
			results[i], completed[i] = r.runOne(ctx, i, spec)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		partial := make([]fire.Result, 0, len(specs))
		for i, ok := range completed {
			if ok {
				partial = append(partial, results[i])
			}
		}
		r.Logger.Warn().
			Err(err).
			Int("completed", len(partial)).
			Int("requested", len(specs)).
			Msg("Batch cancelled")
		return partial, err
	}

	return results, nil
}

// runOne builds and runs a single simulation. The boolean is false when the run
// was abandoned because ctx was cancelled.
func (r *Runner) runOne(ctx context.Context, index int, spec RunSpec) (res fire.Result, completed bool) {
	runID := uuid.NewString()
	logger := r.Logger.With().Int("index", index).Str("run_id", runID).Logger()

	if r.Progress != nil {
		r.Progress.RunStarted()
		defer func() { r.Progress.RunFinished(string(res.Outcome)) }()
	}

	opts := []fire.Option{fire.WithLogger(r.Logger), fire.WithRunID(runID)}
	if r.Subscribers != nil {
		for _, s := range r.Subscribers(index, runID, spec) {
			opts = append(opts, fire.WithSubscriber(s))
		}
	}

	cfg := spec.RunConfig()
	sim, err := fire.NewSimulation(cfg, r.Params, opts...)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected run configuration")
		return fire.NewFailedResult(runID, cfg, err), true
	}

	res, err = sim.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return res, false
	case err != nil:
		logger.Error().Err(err).Int("steps", res.Steps).Msg("Run failed")
	default:
		logger.Debug().
			Str("outcome", string(res.Outcome)).
			Int("steps", res.Steps).
			Float64("efficiency", res.Efficiency).
			Msg("Run completed")
	}
	return res, true
}
