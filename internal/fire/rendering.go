package fire

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorGray   = "\033[90m"
)

const (
	UnburnedSymbol = "·"
	BurningSymbol  = "▲"
	BurnedSymbol   = "▪"
	AgentSymbol    = "A"
)

// Render draws g with agents overlaid, one row per line with column and row headers.
func Render(g *core.Grid, crew []core.Agent) string {
	occupied := make(map[int]bool, len(crew))
	for _, a := range crew {
		if a.Position.IsValid(g.Size) {
			occupied[a.Position.ToIndex(g.Size)] = true
		}
	}

	var sb strings.Builder
	// Each cell is a two-column glyph plus up to ten bytes of color codes.
	sb.Grow((g.Size*12+8)*(g.Size+3) + 80)

	sb.WriteString("   ")
	for x := 0; x < g.Size; x++ {
		fmt.Fprintf(&sb, "%2d", x%100)
	}
	sb.WriteString("\n")

	for y := 0; y < g.Size; y++ {
		fmt.Fprintf(&sb, "%2d ", y%100)
		for x := 0; x < g.Size; x++ {
			idx := g.Idx(x, y)
			writeCell(&sb, g.State[idx], occupied[idx])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(UnburnedSymbol + "=unburned " + BurningSymbol + "=burning " +
		BurnedSymbol + "=burned " + AgentSymbol + "=agent\n")
	return sb.String()
}

func writeCell(sb *strings.Builder, s core.CellState, agent bool) {
	switch {
	case agent && s == core.Burning:
		sb.WriteString(ColorYellow)
		sb.WriteString(" " + AgentSymbol)
	case agent:
		sb.WriteString(ColorBlue)
		sb.WriteString(" " + AgentSymbol)
	case s == core.Burning:
		sb.WriteString(ColorRed)
		sb.WriteString(" " + BurningSymbol)
	case s == core.Burned:
		sb.WriteString(ColorGray)
		sb.WriteString(" " + BurnedSymbol)
	default:
		sb.WriteString(ColorGreen)
		sb.WriteString(" " + UnburnedSymbol)
	}
	sb.WriteString(ColorReset)
}
