// Package spread computes one fire-spread transition of a grid.
//
// Draw order is fixed so that a seeded run is reproducible: cells are visited
// row-major; each burning cell that does not burn out consumes one rain draw
// followed by one draw per eligible neighbor in north, south, east, west order.
package spread

import (
	"math/rand"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// Result is the outcome of one spread step.
type Result struct {
	Grid *core.Grid
	// Ignited holds each newly burning cell once, in ignition order.
	Ignited []core.Coordinate
	// BurnedOut holds cells that exceeded the fire lifetime this step.
	BurnedOut []core.Coordinate
}

// Step reads g and returns the next grid. g itself is never modified.
func Step(g *core.Grid, p core.Params, rng *rand.Rand) Result {
	next := g.Clone()
	res := Result{Grid: next}
	downwind := p.Wind.Direction.DownwindOffset()

	for y := 0; y < g.Size; y++ {
		for x := 0; x < g.Size; x++ {
			idx := g.Idx(x, y)
			if g.State[idx] != core.Burning {
				continue
			}

			duration := g.Duration[idx] + 1
			if duration > p.FireLifetime {
				next.State[idx] = core.Burned
				next.Duration[idx] = 0
				res.BurnedOut = append(res.BurnedOut, core.NewCoordinate(x, y))
				continue
			}
			next.Duration[idx] = duration

			prob := p.SpreadProbability
			if rng.Float64() < p.Rain.Probability {
				prob *= p.Rain.Dampening
			}

			src := core.NewCoordinate(x, y)
			windTarget := src.Add(downwind)
			for _, off := range core.NeighborOffsets {
				n := src.Add(off)
				if !g.InBounds(n.X, n.Y) {
					continue
				}
				nIdx := g.Idx(n.X, n.Y)
				if g.State[nIdx] != core.Unburned {
					continue
				}

				threshold := prob
				if n.Equal(windTarget) {
					threshold += p.Wind.Strength
				}
				if rng.Float64() >= threshold {
					continue
				}
				// Another source may already have lit this cell during the step.
				if next.State[nIdx] == core.Unburned {
					next.State[nIdx] = core.Burning
					next.Duration[nIdx] = 1
					res.Ignited = append(res.Ignited, n)
				}
			}
		}
	}

	return res
}
