package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

func TestSweep_Specs(t *testing.T) {
	s := Sweep{AgentCounts: []int{1, 5, 10, 20}, Repetitions: 3, Seed: 12}

	specs, err := s.Specs(50)
	require.NoError(t, err)
	require.Len(t, specs, 12)

	for rep := 0; rep < 3; rep++ {
		group := specs[rep*4 : rep*4+4]
		for i, spec := range group {
			assert.Equal(t, s.AgentCounts[i], spec.AgentCount)
			assert.Equal(t, group[0].Ignition, spec.Ignition, "repetition %d shares one ignition", rep)
			assert.True(t, spec.Ignition.IsValid(50))
			assert.GreaterOrEqual(t, spec.Seed, int64(0))
			assert.LessOrEqual(t, spec.Seed, int64(maxSweepSeed))
		}
	}

	again, err := s.Specs(50)
	require.NoError(t, err)
	assert.Equal(t, specs, again)
}

func TestSweep_Invalid(t *testing.T) {
	_, err := Sweep{Repetitions: 1}.Specs(10)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = Sweep{AgentCounts: []int{1}}.Specs(10)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = Sweep{AgentCounts: []int{1}, Repetitions: 1}.Specs(0)
	assert.ErrorIs(t, err, core.ErrInvalidGridSize)
}

const samplePlan = `
runs:
  - seed: 7
    agents: 2
    ignition: {x: 3, y: 4}
  - seed: 8
    ignition: {x: 1, y: 1}
    agent_positions:
      - {x: 0, y: 0}
      - {x: 9, y: 9}
sweep:
  agent_counts: [1, 3]
  repetitions: 2
  seed: 21
`

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlan), 0o644))

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, plan.Runs, 2)
	assert.Equal(t, RunSpec{Seed: 7, AgentCount: 2, Ignition: core.NewCoordinate(3, 4)}, plan.Runs[0])
	assert.Equal(t, []core.Coordinate{{X: 0, Y: 0}, {X: 9, Y: 9}}, plan.Runs[1].AgentPositions)
	require.NotNil(t, plan.Sweep)
	assert.Equal(t, []int{1, 3}, plan.Sweep.AgentCounts)

	specs, err := plan.Specs(10)
	require.NoError(t, err)
	require.Len(t, specs, 2+4)
	assert.Equal(t, plan.Runs[0], specs[0])
}

func TestParsePlan_Errors(t *testing.T) {
	_, err := ParsePlan([]byte("runs: [this is: not valid"))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = ParsePlan([]byte("runs: []\n"))
	assert.ErrorIs(t, err, core.ErrNoRuns)

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSummarize(t *testing.T) {
	results := []fire.Result{
		{AgentCount: 5, Outcome: fire.OutcomeTerminated, Ignited: 10, Extinguished: 5, Efficiency: 0.5, PercentExtinguished: 50, AvgStepsToExtinguish: 2, Steps: 8},
		{AgentCount: 1, Outcome: fire.OutcomeTerminated, Ignited: 20, Extinguished: 2, Efficiency: 0.1, PercentExtinguished: 10, AvgStepsToExtinguish: 6, Steps: 12},
		{AgentCount: 5, Outcome: fire.OutcomeCapped, Ignited: 30, Extinguished: 21, Efficiency: 0.7, PercentExtinguished: 70, AvgStepsToExtinguish: 4, Steps: 20},
		{AgentCount: 5, Outcome: fire.OutcomeFailed, ErrorKind: core.KindInternal},
		{AgentCount: -1, Outcome: fire.OutcomeFailed, ErrorKind: core.KindConfig},
	}

	summary := Summarize(results)
	require.Len(t, summary, 3)
	assert.Equal(t, []int{-1, 1, 5}, []int{summary[0].AgentCount, summary[1].AgentCount, summary[2].AgentCount})

	assert.Equal(t, 0, summary[0].Runs)
	assert.Equal(t, 1, summary[0].Failed)

	five := summary[2]
	assert.Equal(t, 2, five.Runs)
	assert.Equal(t, 1, five.Failed)
	assert.Equal(t, 1, five.Capped)
	assert.InDelta(t, 20.0, five.MeanIgnited, 1e-9)
	assert.InDelta(t, 13.0, five.MeanExtinguished, 1e-9)
	assert.InDelta(t, 0.6, five.MeanEfficiency, 1e-9)
	assert.InDelta(t, 60.0, five.MeanPercentExtinguished, 1e-9)
	assert.InDelta(t, 3.0, five.MeanAvgStepsToExtinguish, 1e-9)
	assert.InDelta(t, 14.0, five.MeanSteps, 1e-9)
}
