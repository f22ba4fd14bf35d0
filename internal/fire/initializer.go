package fire

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/agents"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/states"
)

// RunConfig selects the stochastic inputs of one run.
type RunConfig struct {
	Seed       int64
	AgentCount int
	Ignition   core.Coordinate
	// AgentPositions places agents explicitly. When empty, AgentCount agents are
	// spawned on the top and bottom edges from the run's RNG.
	AgentPositions []core.Coordinate
}

// Validate checks cfg against the grid described by p.
func (cfg RunConfig) Validate(p core.Params) error {
	if cfg.AgentCount < 0 {
		return fmt.Errorf("%w: %w (got %d)", core.ErrInvalidConfig, core.ErrNegativeAgentCount, cfg.AgentCount)
	}
	if len(cfg.AgentPositions) > 0 && cfg.AgentCount != 0 && cfg.AgentCount != len(cfg.AgentPositions) {
		return fmt.Errorf("%w: agent count %d does not match %d explicit positions",
			core.ErrInvalidConfig, cfg.AgentCount, len(cfg.AgentPositions))
	}
	if !cfg.Ignition.IsValid(p.GridSize) {
		return fmt.Errorf("%w: %w: %s on %dx%d grid",
			core.ErrInvalidConfig, core.ErrIgnitionOutOfBounds, cfg.Ignition, p.GridSize, p.GridSize)
	}
	return nil
}

// Option customizes a Simulation.
type Option func(*options)

type options struct {
	logger      zerolog.Logger
	bus         *events.EventBus
	runID       string
	subscribers []events.Subscriber
}

// WithLogger sets the logger used by the run and its state machine.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithEventBus publishes run events on bus instead of a private one.
func WithEventBus(bus *events.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// WithSubscriber registers s on the run's bus before the run starts.
func WithSubscriber(s events.Subscriber) Option {
	return func(o *options) { o.subscribers = append(o.subscribers, s) }
}

// NewSimulation validates the configuration and builds a run in PhaseRunning.
// Configuration errors wrap core.ErrInvalidConfig and no run is created.
func NewSimulation(cfg RunConfig, params core.Params, opts ...Option) (*Simulation, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(params); err != nil {
		return nil, err
	}

	grid, err := core.NewGrid(params.GridSize, cfg.Ignition)
	if err != nil {
		return nil, err
	}

	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	if o.bus == nil {
		o.bus = events.NewEventBus(o.logger)
	}
	for _, s := range o.subscribers {
		o.bus.Subscribe(s)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	crew, err := buildAgents(cfg, params.GridSize, rng)
	if err != nil {
		return nil, err
	}

	logger := o.logger.With().Str("component", "Simulation").Str("run_id", o.runID).Logger()
	s := &Simulation{
		runID:   o.runID,
		cfg:     cfg,
		params:  params,
		rng:     rng,
		grid:    grid,
		agents:  crew,
		bus:     o.bus,
		logger:  logger,
		ignited: 1,
	}
	s.cfg.AgentCount = len(crew)

	runCtx := states.NewRunContext(o.runID, params.MaxSteps, o.logger)
	s.machine = states.NewStateMachine(runCtx, o.bus)

	s.bus.Publish(events.NewRunStartedEvent(o.runID, cfg.Seed, params.GridSize, len(crew), cfg.Ignition))

	if err := s.machine.TransitionTo(states.PhaseRunning, "grid and agents ready"); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRunInternal, err)
	}

	logger.Debug().
		Int64("seed", cfg.Seed).
		Int("grid_size", params.GridSize).
		Int("agents", len(crew)).
		Stringer("ignition", cfg.Ignition).
		Msg("Simulation created")

	return s, nil
}

func buildAgents(cfg RunConfig, size int, rng *rand.Rand) ([]core.Agent, error) {
	if len(cfg.AgentPositions) > 0 {
		return agents.Place(cfg.AgentPositions, size)
	}
	return agents.Spawn(cfg.AgentCount, size, rng), nil
}
