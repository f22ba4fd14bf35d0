package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/testutil"
)

func TestMoveAndSuppress_NoFireNoMove(t *testing.T) {
	g := testutil.GridWithBurning(5)
	agents := []core.Agent{{ID: 0, Position: core.NewCoordinate(1, 1)}}

	out := MoveAndSuppress(g, agents, 3)

	assert.Equal(t, core.NewCoordinate(1, 1), agents[0].Position)
	assert.Equal(t, []int{0}, out.Moves)
	assert.Zero(t, agents[0].Moves)
	assert.Empty(t, out.Cells)
}

func TestMoveAndSuppress_DiagonalApproachAndExtinguish(t *testing.T) {
	g := testutil.GridWithBurning(5, core.NewCoordinate(2, 2))
	agents := []core.Agent{{ID: 0, Position: core.NewCoordinate(0, 0)}}

	out := MoveAndSuppress(g, agents, 3)

	assert.Equal(t, core.NewCoordinate(1, 1), agents[0].Position)
	assert.Equal(t, []int{1}, out.Moves)
	assert.Equal(t, []int{1}, out.Extinguished)
	assert.Equal(t, []core.Coordinate{{X: 2, Y: 2}}, out.Cells)
	assert.Equal(t, core.Burned, g.At(core.NewCoordinate(2, 2)))
	assert.Equal(t, 1, agents[0].Moves)
	assert.Equal(t, 1, agents[0].Extinguished)
}

func TestMoveAndSuppress_OutOfRangeOnlyMoves(t *testing.T) {
	g := testutil.GridWithBurning(9, core.NewCoordinate(8, 4))
	agents := []core.Agent{{ID: 0, Position: core.NewCoordinate(0, 4)}}

	out := MoveAndSuppress(g, agents, 3)

	assert.Equal(t, core.NewCoordinate(1, 4), agents[0].Position, "same row: only x changes")
	assert.Equal(t, 1, out.TotalMoves())
	assert.Empty(t, out.Cells)
	assert.Equal(t, core.Burning, g.At(core.NewCoordinate(8, 4)))
}

func TestMoveAndSuppress_NearestTargetTieBreak(t *testing.T) {
	// (2,0) and (0,2) are both at squared distance 4; (2,0) comes first row-major.
	g := testutil.GridWithBurning(7, core.NewCoordinate(0, 2), core.NewCoordinate(2, 0))
	agents := []core.Agent{{ID: 0, Position: core.NewCoordinate(0, 0)}}

	MoveAndSuppress(g, agents, 1)

	assert.Equal(t, core.NewCoordinate(1, 0), agents[0].Position)
}

func TestMoveAndSuppress_BoxOneOnlyOwnCell(t *testing.T) {
	g := testutil.GridWithBurning(5, core.NewCoordinate(1, 1), core.NewCoordinate(2, 2))
	agents := []core.Agent{{ID: 0, Position: core.NewCoordinate(0, 0)}}

	out := MoveAndSuppress(g, agents, 1)

	assert.Equal(t, core.NewCoordinate(1, 1), agents[0].Position)
	assert.Equal(t, []core.Coordinate{{X: 1, Y: 1}}, out.Cells)
	assert.Equal(t, core.Burning, g.At(core.NewCoordinate(2, 2)))
}

func TestMoveAndSuppress_SequentialAgentsShareGrid(t *testing.T) {
	g := testutil.GridWithBurning(5, core.NewCoordinate(2, 2))
	agents := []core.Agent{
		{ID: 0, Position: core.NewCoordinate(0, 0)},
		{ID: 1, Position: core.NewCoordinate(4, 4)},
	}

	out := MoveAndSuppress(g, agents, 3)

	// Both agents chase the pre-step fire, but only the first gets credit.
	assert.Equal(t, core.NewCoordinate(1, 1), agents[0].Position)
	assert.Equal(t, core.NewCoordinate(3, 3), agents[1].Position)
	assert.Equal(t, []int{1, 0}, out.Extinguished)
	assert.Equal(t, []int{1, 1}, out.Moves)
	assert.Equal(t, 2, out.TotalMoves())
}

func TestMoveAndSuppress_ClampedAtBorder(t *testing.T) {
	g := testutil.GridWithBurning(3, core.NewCoordinate(2, 0))
	agents := []core.Agent{{ID: 0, Position: core.NewCoordinate(2, 0)}}

	out := MoveAndSuppress(g, agents, 1)

	assert.Equal(t, core.NewCoordinate(2, 0), agents[0].Position, "agent on its target stays put")
	assert.Equal(t, []int{1}, out.Moves)
	assert.Equal(t, []int{1}, out.Extinguished)
}

func TestSpawn(t *testing.T) {
	agents := Spawn(20, 10, testutil.NewTestRNG(9))

	require.Len(t, agents, 20)
	for i, a := range agents {
		assert.Equal(t, i, a.ID)
		assert.True(t, a.Position.IsValid(10))
		assert.True(t, a.Position.Y == 0 || a.Position.Y == 9, "agent %d spawned off the edges: %s", i, a.Position)
	}
	assert.Equal(t, agents, Spawn(20, 10, testutil.NewTestRNG(9)), "spawn is seeded")
}

func TestPlace(t *testing.T) {
	agents, err := Place([]core.Coordinate{{X: 0, Y: 0}, {X: 4, Y: 4}}, 5)
	require.NoError(t, err)
	assert.Len(t, agents, 2)
	assert.Equal(t, 1, agents[1].ID)

	_, err = Place([]core.Coordinate{{X: 5, Y: 0}}, 5)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	assert.ErrorIs(t, err, core.ErrAgentOutOfBounds)
}
