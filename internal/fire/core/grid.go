package core

import "fmt"

// CellState is the fire status of one grid cell.
// The numeric codes match the recorded snapshot encoding; 2 is unused.
type CellState uint8

const (
	Unburned CellState = 0
	Burning  CellState = 1
	Burned   CellState = 3
)

func (s CellState) String() string {
	switch s {
	case Unburned:
		return "unburned"
	case Burning:
		return "burning"
	case Burned:
		return "burned"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Grid is a square fire map paired with per-cell fire-duration counters.
// Duration[i] > 0 only while State[i] == Burning.
type Grid struct {
	Size     int
	State    []CellState // length = Size*Size (row-major)
	Duration []int
}

// NewGrid returns an unburned grid with a single burning cell at ignition.
func NewGrid(size int, ignition Coordinate) (*Grid, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrInvalidConfig, ErrInvalidGridSize, size)
	}
	if !ignition.IsValid(size) {
		return nil, fmt.Errorf("%w: %w: %s on %dx%d grid", ErrInvalidConfig, ErrIgnitionOutOfBounds, ignition, size, size)
	}
	g := newEmptyGrid(size)
	idx := g.Idx(ignition.X, ignition.Y)
	g.State[idx] = Burning
	g.Duration[idx] = 1
	return g, nil
}

func newEmptyGrid(size int) *Grid {
	return &Grid{
		Size:     size,
		State:    make([]CellState, size*size),
		Duration: make([]int, size*size),
	}
}

func (g *Grid) Idx(x, y int) int { return y*g.Size + x }

// InBounds checks if coordinates are within grid boundaries
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// At returns the state at c; out-of-bounds coordinates read as Unburned.
func (g *Grid) At(c Coordinate) CellState {
	if !g.InBounds(c.X, c.Y) {
		return Unburned
	}
	return g.State[g.Idx(c.X, c.Y)]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		Size:     g.Size,
		State:    make([]CellState, len(g.State)),
		Duration: make([]int, len(g.Duration)),
	}
	copy(c.State, g.State)
	copy(c.Duration, g.Duration)
	return c
}

// Count returns how many cells are in state s.
func (g *Grid) Count(s CellState) int {
	n := 0
	for _, st := range g.State {
		if st == s {
			n++
		}
	}
	return n
}

// HasBurning reports whether any cell is still burning.
func (g *Grid) HasBurning() bool {
	for _, st := range g.State {
		if st == Burning {
			return true
		}
	}
	return false
}

// BurningCells lists burning cells in row-major order.
func (g *Grid) BurningCells() []Coordinate {
	var cells []Coordinate
	for idx, st := range g.State {
		if st == Burning {
			cells = append(cells, FromIndex(idx, g.Size))
		}
	}
	return cells
}

// Extinguish marks a burning cell as burned. It reports whether the cell was burning.
func (g *Grid) Extinguish(c Coordinate) bool {
	if !g.InBounds(c.X, c.Y) {
		return false
	}
	idx := g.Idx(c.X, c.Y)
	if g.State[idx] != Burning {
		return false
	}
	g.State[idx] = Burned
	g.Duration[idx] = 0
	return true
}

// Codes returns the cell states as raw snapshot codes.
func (g *Grid) Codes() []uint8 {
	codes := make([]uint8, len(g.State))
	for i, st := range g.State {
		codes[i] = uint8(st)
	}
	return codes
}
