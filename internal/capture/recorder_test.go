package capture

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/testutil"
)

func frame(step int) Frame {
	return Frame{RunID: "run", Step: step, Size: 1, Current: []uint8{1}, NewSources: []uint8{0}}
}

func TestRecorder_Creation(t *testing.T) {
	r := NewRecorder("rec", 0, zerolog.Nop())
	assert.Equal(t, DefaultCapacity, r.Capacity())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, "rec", r.ID())
}

func TestRecorder_DropsOldestWhenFull(t *testing.T) {
	r := NewRecorder("rec", 3, zerolog.Nop())
	for i := 1; i <= 5; i++ {
		require.NoError(t, r.Add(frame(i)))
	}

	stats := r.Stats()
	assert.Equal(t, 3, stats.Size)
	assert.Equal(t, int64(5), stats.TotalAdded)
	assert.Equal(t, int64(2), stats.TotalDropped)

	latest := r.Latest(2)
	require.Len(t, latest, 2)
	assert.Equal(t, 4, latest[0].Step)
	assert.Equal(t, 5, latest[1].Step)

	drained := r.Drain()
	require.Len(t, drained, 3)
	assert.Equal(t, []int{3, 4, 5}, []int{drained[0].Step, drained[1].Step, drained[2].Step})
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Drain())
}

func TestRecorder_Closed(t *testing.T) {
	r := NewRecorder("rec", 2, zerolog.Nop())
	require.NoError(t, r.Add(frame(1)))
	r.Close()

	assert.ErrorIs(t, r.Add(frame(2)), ErrRecorderClosed)
	assert.Len(t, r.Drain(), 1)
	assert.True(t, r.Stats().Closed)
}

func TestRecorder_ConcurrentAdd(t *testing.T) {
	r := NewRecorder("rec", 50, zerolog.Nop())

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_ = r.Add(frame(i))
			}
		}()
	}
	wg.Wait()

	stats := r.Stats()
	assert.Equal(t, 50, stats.Size)
	assert.Equal(t, int64(200), stats.TotalAdded)
	assert.Equal(t, int64(150), stats.TotalDropped)
}

func TestRecorder_CapturesSimulationFrames(t *testing.T) {
	r := NewRecorder("rec", 100, zerolog.Nop())
	p := testutil.CalmParams(5, 1)
	p.MaxSteps = 2

	sim, err := fire.NewSimulation(captureRunConfig(), p, fire.WithSubscriber(r))
	require.NoError(t, err)
	res, err := sim.Run(context.Background())
	require.NoError(t, err)

	frames := r.Drain()
	require.Len(t, frames, res.Steps)

	first := frames[0]
	assert.Equal(t, sim.RunID(), first.RunID)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, 5, first.Size)
	// Before step one only the ignition burns.
	assert.Equal(t, 1, countValue(first.Current, uint8(core.Burning)))
	assert.Equal(t, uint8(core.Burning), first.Current[core.NewCoordinate(2, 2).ToIndex(5)])
	// With certain spread all four neighbors ignite.
	assert.Equal(t, 4, countValue(first.NewSources, 1))
	assert.Equal(t, 5, countValue(frames[1].Current, uint8(core.Burning)))
}

func captureRunConfig() fire.RunConfig {
	return fire.RunConfig{Seed: 3, Ignition: core.NewCoordinate(2, 2)}
}

func countValue(codes []uint8, v uint8) int {
	n := 0
	for _, c := range codes {
		if c == v {
			n++
		}
	}
	return n
}
