package testutil

import (
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// CalmParams returns parameters with no wind, no rain and the given spread probability.
func CalmParams(size int, spread float64) core.Params {
	return core.Params{
		GridSize:          size,
		SpreadProbability: spread,
		FireLifetime:      5,
		SuppressionBox:    3,
		Wind:              core.Wind{Direction: core.WindNorth, Strength: 0},
		Rain:              core.Rain{Probability: 0, Dampening: 0.5},
	}
}

// GridWithBurning builds a size x size grid whose listed cells burn with duration 1.
func GridWithBurning(size int, burning ...core.Coordinate) *core.Grid {
	g := &core.Grid{
		Size:     size,
		State:    make([]core.CellState, size*size),
		Duration: make([]int, size*size),
	}
	for _, c := range burning {
		idx := g.Idx(c.X, c.Y)
		g.State[idx] = core.Burning
		g.Duration[idx] = 1
	}
	return g
}
