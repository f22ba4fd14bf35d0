package fire

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/events"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/states"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/testutil"
)

func TestSimulation_ZeroSpreadBurnsOutAlone(t *testing.T) {
	p := testutil.CalmParams(5, 0)
	center := core.NewCoordinate(2, 2)

	sim, err := NewSimulation(RunConfig{Seed: 1, Ignition: center}, p)
	require.NoError(t, err)
	assert.Equal(t, states.PhaseRunning, sim.Phase())

	report, err := sim.Step()
	require.NoError(t, err)
	assert.Empty(t, report.Ignited)
	assert.Equal(t, 2, sim.Grid().Duration[center.ToIndex(5)])

	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeTerminated, res.Outcome)
	assert.Equal(t, p.FireLifetime, res.Steps)
	assert.Equal(t, 1, res.Ignited)
	assert.Equal(t, 0, res.Extinguished)
	assert.Equal(t, 1, res.BurnedOut)
	assert.Zero(t, res.Efficiency)
	assert.Zero(t, res.AvgStepsToExtinguish)
	assert.Equal(t, core.Burned, sim.Grid().At(center))
	assert.True(t, res.OK())
}

func TestSimulation_AgentReachesIgnition(t *testing.T) {
	p := testutil.CalmParams(5, 0)
	cfg := RunConfig{
		Seed:           7,
		Ignition:       core.NewCoordinate(2, 2),
		AgentPositions: []core.Coordinate{{X: 0, Y: 0}},
	}

	sim, err := NewSimulation(cfg, p)
	require.NoError(t, err)

	report, err := sim.Step()
	require.NoError(t, err)
	assert.Equal(t, []core.Coordinate{{X: 2, Y: 2}}, report.Extinguished)
	assert.Equal(t, core.NewCoordinate(1, 1), sim.Agents()[0].Position)
	assert.Equal(t, states.PhaseTerminated, report.Phase)

	res := sim.Result()
	assert.Equal(t, 1, res.AgentCount)
	assert.Equal(t, 1, res.Extinguished)
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 1, res.AgentMoves)
	assert.InDelta(t, 1.0, res.Efficiency, 1e-9)
	assert.InDelta(t, 100.0, res.PercentExtinguished, 1e-9)
	assert.InDelta(t, 1.0, res.AvgStepsToExtinguish, 1e-9)

	_, err = sim.Step()
	assert.ErrorIs(t, err, core.ErrRunFinished)
}

func TestSimulation_Deterministic(t *testing.T) {
	p := core.DefaultParams()
	p.GridSize = 20
	cfg := RunConfig{Seed: 42, AgentCount: 3, Ignition: core.NewCoordinate(10, 10)}

	trace := func() ([][]uint8, Result) {
		var frames [][]uint8
		bus := events.NewEventBus(testutil.NopLogger())
		bus.SubscribeFunc(events.TypeStepCompleted, func(e events.Event) {
			frames = append(frames, e.(*events.StepCompletedEvent).Current.Codes())
		})
		sim, err := NewSimulation(cfg, p, WithEventBus(bus), WithRunID("fixed"))
		require.NoError(t, err)
		res, err := sim.Run(context.Background())
		require.NoError(t, err)
		return frames, res
	}

	framesA, resA := trace()
	framesB, resB := trace()
	assert.Equal(t, framesA, framesB)
	assert.Equal(t, resA, resB)
	assert.Len(t, framesA, resA.Steps)
}

func TestSimulation_AccountingHolds(t *testing.T) {
	p := core.DefaultParams()
	p.GridSize = 15

	for seed := int64(1); seed <= 20; seed++ {
		sim, err := NewSimulation(RunConfig{Seed: seed, AgentCount: int(seed % 4), Ignition: core.NewCoordinate(7, 7)}, p)
		require.NoError(t, err)
		res, err := sim.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, OutcomeTerminated, res.Outcome, "seed %d", seed)
		assert.GreaterOrEqual(t, res.Ignited, res.Extinguished, "seed %d", seed)
		assert.Equal(t, res.Ignited, res.Extinguished+res.BurnedOut, "seed %d", seed)
		assert.Equal(t, res.Ignited, sim.Grid().Count(core.Burned), "seed %d", seed)
		assert.LessOrEqual(t, res.Efficiency, 1.0)
	}
}

func TestSimulation_LifecycleIsMonotonic(t *testing.T) {
	sim, err := NewSimulation(RunConfig{Seed: 3, AgentCount: 2, Ignition: core.NewCoordinate(4, 4)}, testutil.CalmParams(9, 0.4))
	require.NoError(t, err)

	_, err = sim.Run(context.Background())
	require.NoError(t, err)

	history := sim.History()
	require.Len(t, history, 2)
	assert.Equal(t, states.PhaseInitializing, history[0].From)
	assert.Equal(t, states.PhaseRunning, history[0].To)
	assert.Equal(t, states.PhaseRunning, history[1].From)
	assert.True(t, history[1].To.IsTerminal())
}

func TestSimulation_StepCap(t *testing.T) {
	p := testutil.CalmParams(20, 1)
	p.MaxSteps = 3

	sim, err := NewSimulation(RunConfig{Seed: 1, Ignition: core.NewCoordinate(10, 10)}, p)
	require.NoError(t, err)

	res, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeCapped, res.Outcome)
	assert.Equal(t, 3, res.Steps)
	assert.True(t, sim.Grid().HasBurning())
	assert.Equal(t, 1+4+8+12, res.Ignited)

	_, err = sim.Step()
	assert.ErrorIs(t, err, core.ErrRunFinished)
}

func TestSimulation_CancelledRunAborts(t *testing.T) {
	sim, err := NewSimulation(RunConfig{Seed: 1, Ignition: core.NewCoordinate(2, 2)}, testutil.CalmParams(5, 0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := sim.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, OutcomeAborted, res.Outcome)
	assert.Equal(t, core.KindCanceled, res.ErrorKind)
	assert.Zero(t, res.Steps)
	assert.False(t, res.OK())
}

func TestSimulation_InvalidConfig(t *testing.T) {
	p := testutil.CalmParams(5, 0.2)

	tests := []struct {
		name   string
		cfg    RunConfig
		params core.Params
		target error
	}{
		{"negative agents", RunConfig{AgentCount: -1, Ignition: core.NewCoordinate(1, 1)}, p, core.ErrNegativeAgentCount},
		{"ignition outside", RunConfig{Ignition: core.NewCoordinate(5, 0)}, p, core.ErrIgnitionOutOfBounds},
		{"agent outside", RunConfig{Ignition: core.NewCoordinate(1, 1), AgentPositions: []core.Coordinate{{X: -1, Y: 0}}}, p, core.ErrAgentOutOfBounds},
		{"even box", RunConfig{Ignition: core.NewCoordinate(1, 1)}, func() core.Params { q := p; q.SuppressionBox = 2; return q }(), core.ErrEvenSuppressionBox},
		{"count mismatch", RunConfig{AgentCount: 2, Ignition: core.NewCoordinate(1, 1), AgentPositions: []core.Coordinate{{X: 0, Y: 0}}}, p, core.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := NewSimulation(tt.cfg, tt.params)
			assert.Nil(t, sim)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidConfig)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, core.KindConfig, core.ErrorKind(err))
		})
	}
}

func TestSimulation_InternalErrorFails(t *testing.T) {
	sim, err := NewSimulation(RunConfig{Seed: 1, Ignition: core.NewCoordinate(0, 0)}, testutil.CalmParams(5, 0))
	require.NoError(t, err)

	// A grid whose slices disagree with its size cannot be stepped.
	sim.grid = &core.Grid{Size: 5, State: make([]core.CellState, 1), Duration: make([]int, 1)}

	res, err := sim.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRunInternal))
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, core.KindInternal, res.ErrorKind)
	assert.Equal(t, states.PhaseFailed, sim.Phase())
}

func TestSimulation_SpawnsAgentsOnEdges(t *testing.T) {
	sim, err := NewSimulation(RunConfig{Seed: 9, AgentCount: 6, Ignition: core.NewCoordinate(5, 5)}, testutil.CalmParams(11, 0.3))
	require.NoError(t, err)

	crew := sim.Agents()
	require.Len(t, crew, 6)
	for i, a := range crew {
		assert.Equal(t, i, a.ID)
		assert.True(t, a.Position.Y == 0 || a.Position.Y == 10, "agent %d at %s", i, a.Position)
	}
	assert.NotEmpty(t, sim.RunID())
}

func TestSimulation_PublishesRunEvents(t *testing.T) {
	bus := events.NewEventBus(testutil.NopLogger())
	counts := map[string]int{}
	for _, typ := range []string{events.TypeRunStarted, events.TypeStepCompleted, events.TypeRunEnded, events.TypeStateTransition} {
		typ := typ
		bus.SubscribeFunc(typ, func(e events.Event) { counts[typ]++ })
	}

	var ended *events.RunEndedEvent
	bus.SubscribeFunc(events.TypeRunEnded, func(e events.Event) { ended = e.(*events.RunEndedEvent) })

	sim, err := NewSimulation(RunConfig{Seed: 5, AgentCount: 1, Ignition: core.NewCoordinate(3, 3)}, testutil.CalmParams(7, 0.25), WithEventBus(bus))
	require.NoError(t, err)
	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, counts[events.TypeRunStarted])
	assert.Equal(t, res.Steps, counts[events.TypeStepCompleted])
	assert.Equal(t, 1, counts[events.TypeRunEnded])
	assert.Equal(t, 2, counts[events.TypeStateTransition])
	require.NotNil(t, ended)
	assert.Equal(t, string(res.Outcome), ended.Outcome)
	assert.Equal(t, res.Ignited, ended.Ignited)
}

func TestSimulation_StepEventGridsAreStable(t *testing.T) {
	var recorded []*events.StepCompletedEvent
	var snapshots [][]uint8
	bus := events.NewEventBus(testutil.NopLogger())
	bus.SubscribeFunc(events.TypeStepCompleted, func(e events.Event) {
		se := e.(*events.StepCompletedEvent)
		recorded = append(recorded, se)
		snapshots = append(snapshots, se.Previous.Codes())
	})

	sim, err := NewSimulation(RunConfig{Seed: 11, AgentCount: 2, Ignition: core.NewCoordinate(4, 4)}, testutil.CalmParams(9, 0.5), WithEventBus(bus))
	require.NoError(t, err)
	_, err = sim.Run(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, recorded)
	for i, se := range recorded {
		assert.Equal(t, snapshots[i], se.Previous.Codes(), "step %d previous grid was modified", se.Step)
		if i > 0 {
			assert.Same(t, recorded[i-1].Current, se.Previous)
		}
	}
}

func TestRender(t *testing.T) {
	g := testutil.GridWithBurning(4, core.NewCoordinate(1, 1))
	g.State[g.Idx(3, 3)] = core.Burned

	out := Render(g, []core.Agent{{Position: core.NewCoordinate(0, 0)}})

	assert.Equal(t, 4+3, strings.Count(out, "\n"))
	assert.Contains(t, out, ColorRed+" "+BurningSymbol)
	assert.Contains(t, out, ColorGray+" "+BurnedSymbol)
	assert.Contains(t, out, ColorBlue+" "+AgentSymbol)
	assert.Contains(t, out, "=agent")
}
