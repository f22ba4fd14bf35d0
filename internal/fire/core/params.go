package core

import (
	"fmt"
	"strings"
)

// WindDirection names the direction the wind blows from.
type WindDirection string

const (
	WindNorth WindDirection = "N"
	WindSouth WindDirection = "S"
	WindEast  WindDirection = "E"
	WindWest  WindDirection = "W"
)

// ParseWindDirection accepts N/S/E/W in either case.
func ParseWindDirection(s string) (WindDirection, error) {
	d := WindDirection(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case WindNorth, WindSouth, WindEast, WindWest:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown wind direction %q", ErrInvalidConfig, s)
}

// DownwindOffset returns the offset from a burning cell to the neighbor that
// receives the wind bonus. A north wind pushes fire to the cell below.
func (d WindDirection) DownwindOffset() Coordinate {
	switch d {
	case WindNorth:
		return Coordinate{X: 0, Y: 1}
	case WindSouth:
		return Coordinate{X: 0, Y: -1}
	case WindEast:
		return Coordinate{X: -1, Y: 0}
	case WindWest:
		return Coordinate{X: 1, Y: 0}
	default:
		return Coordinate{}
	}
}

type Wind struct {
	Direction WindDirection
	Strength  float64
}

type Rain struct {
	Probability float64
	// Dampening multiplies the spread probability on a rain hit.
	Dampening float64
}

// Params holds the per-run fire model constants. A run never mutates them.
type Params struct {
	GridSize          int
	SpreadProbability float64
	FireLifetime      int
	SuppressionBox    int
	Wind              Wind
	Rain              Rain
	// MaxSteps caps the run length; 0 disables the cap.
	MaxSteps int
}

// DefaultParams returns the reference experiment constants.
func DefaultParams() Params {
	return Params{
		GridSize:          50,
		SpreadProbability: 0.3,
		FireLifetime:      5,
		SuppressionBox:    3,
		Wind:              Wind{Direction: WindNorth, Strength: 0.5},
		Rain:              Rain{Probability: 0.1, Dampening: 0.5},
	}
}

// Validate checks the parameters. Every returned error wraps ErrInvalidConfig.
func (p Params) Validate() error {
	if p.GridSize <= 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidConfig, ErrInvalidGridSize, p.GridSize)
	}
	if p.SuppressionBox <= 0 || p.SuppressionBox%2 == 0 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalidConfig, ErrEvenSuppressionBox, p.SuppressionBox)
	}
	if p.FireLifetime <= 0 {
		return fmt.Errorf("%w: fire lifetime must be positive (got %d)", ErrInvalidConfig, p.FireLifetime)
	}
	if err := checkProbability("spread probability", p.SpreadProbability); err != nil {
		return err
	}
	if err := checkProbability("wind strength", p.Wind.Strength); err != nil {
		return err
	}
	if err := checkProbability("rain probability", p.Rain.Probability); err != nil {
		return err
	}
	if err := checkProbability("rain dampening", p.Rain.Dampening); err != nil {
		return err
	}
	if _, err := ParseWindDirection(string(p.Wind.Direction)); err != nil {
		return err
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps must be non-negative (got %d)", ErrInvalidConfig, p.MaxSteps)
	}
	return nil
}

func checkProbability(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be between 0 and 1 (got %g)", ErrInvalidConfig, name, v)
	}
	return nil
}

// Agent is a mobile suppression unit.
type Agent struct {
	ID           int
	Position     Coordinate
	Moves        int
	Extinguished int
}
