package agents

import (
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/common"
	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// Outcome reports what each agent did during one step.
type Outcome struct {
	// Moves[i] is 1 if agent i had a target this step.
	Moves []int
	// Extinguished[i] counts cells put out by agent i.
	Extinguished []int
	// Cells lists every extinguished cell in processing order.
	Cells []core.Coordinate
}

// TotalMoves sums Moves.
func (o Outcome) TotalMoves() int {
	n := 0
	for _, m := range o.Moves {
		n += m
	}
	return n
}

// MoveAndSuppress advances every agent one step toward its nearest burning cell
// and extinguishes the burning cells inside its suppression box.
//
// Targets are chosen from the fire as it stood before any agent moved. Suppression
// is applied agent by agent on g, so later agents see earlier agents' work.
// Agent positions and counters are updated in place.
func MoveAndSuppress(g *core.Grid, agents []core.Agent, box int) Outcome {
	out := Outcome{
		Moves:        make([]int, len(agents)),
		Extinguished: make([]int, len(agents)),
	}
	targets := g.BurningCells()
	if len(targets) == 0 {
		return out
	}
	half := box / 2

	for i := range agents {
		a := &agents[i]
		target := nearest(a.Position, targets)

		a.Position = core.NewCoordinate(
			common.Clamp(a.Position.X+common.Sign(target.X-a.Position.X), 0, g.Size-1),
			common.Clamp(a.Position.Y+common.Sign(target.Y-a.Position.Y), 0, g.Size-1),
		)
		a.Moves++
		out.Moves[i] = 1

		for dy := -half; dy <= half; dy++ {
			for dx := -half; dx <= half; dx++ {
				c := a.Position.Add(core.NewCoordinate(dx, dy))
				if g.Extinguish(c) {
					a.Extinguished++
					out.Extinguished[i]++
					out.Cells = append(out.Cells, c)
				}
			}
		}
	}

	return out
}

// nearest returns the closest target by squared distance; the first minimum in
// targets order wins ties. targets must be non-empty.
func nearest(from core.Coordinate, targets []core.Coordinate) core.Coordinate {
	best := targets[0]
	bestDist := from.DistanceSquared(best)
	for _, t := range targets[1:] {
		if d := from.DistanceSquared(t); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}
