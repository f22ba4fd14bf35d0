// Package agents implements the greedy suppression crews that chase the fire.
package agents

import (
	"fmt"
	"math/rand"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// Spawn places n agents at random columns on the top or bottom edge of the grid.
// Each agent consumes two draws from rng: column, then edge.
func Spawn(n, size int, rng *rand.Rand) []core.Agent {
	out := make([]core.Agent, n)
	edges := [2]int{0, size - 1}
	for i := range out {
		x := rng.Intn(size)
		y := edges[rng.Intn(2)]
		out[i] = core.Agent{ID: i, Position: core.NewCoordinate(x, y)}
	}
	return out
}

// Place builds agents at fixed positions, rejecting any outside the grid.
func Place(positions []core.Coordinate, size int) ([]core.Agent, error) {
	out := make([]core.Agent, len(positions))
	for i, p := range positions {
		if !p.IsValid(size) {
			return nil, fmt.Errorf("%w: %w: agent %d at %s", core.ErrInvalidConfig, core.ErrAgentOutOfBounds, i, p)
		}
		out[i] = core.Agent{ID: i, Position: p}
	}
	return out, nil
}
