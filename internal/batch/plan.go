package batch

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire/core"
)

// maxSweepSeed bounds generated per-run seeds.
const maxSweepSeed = 1_000_000

// Sweep compares agent counts under shared fire conditions. Each repetition picks
// one random ignition point that every agent count in that repetition uses.
type Sweep struct {
	AgentCounts []int `yaml:"agent_counts"`
	Repetitions int   `yaml:"repetitions"`
	Seed        int64 `yaml:"seed"`
}

// Specs expands the sweep into run specs, repetition by repetition, in
// AgentCounts order. The same sweep seed always yields the same specs.
func (s Sweep) Specs(gridSize int) ([]RunSpec, error) {
	if len(s.AgentCounts) == 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one agent count", core.ErrInvalidConfig)
	}
	if s.Repetitions <= 0 {
		return nil, fmt.Errorf("%w: sweep repetitions must be positive (got %d)", core.ErrInvalidConfig, s.Repetitions)
	}
	if gridSize <= 0 {
		return nil, fmt.Errorf("%w: %w (got %d)", core.ErrInvalidConfig, core.ErrInvalidGridSize, gridSize)
	}

	rng := rand.New(rand.NewSource(s.Seed))
	specs := make([]RunSpec, 0, len(s.AgentCounts)*s.Repetitions)
	for rep := 0; rep < s.Repetitions; rep++ {
		ignition := core.NewCoordinate(rng.Intn(gridSize), rng.Intn(gridSize))
		for _, n := range s.AgentCounts {
			specs = append(specs, RunSpec{
				Seed:       rng.Int63n(maxSweepSeed + 1),
				AgentCount: n,
				Ignition:   ignition,
			})
		}
	}
	return specs, nil
}

// Plan is a batch description loaded from YAML. Explicit runs come first,
// followed by the expanded sweep if one is given.
type Plan struct {
	Runs  []RunSpec `yaml:"runs"`
	Sweep *Sweep    `yaml:"sweep,omitempty"`
}

// LoadPlan reads a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a YAML plan.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: plan: %v", core.ErrInvalidConfig, err)
	}
	if len(p.Runs) == 0 && p.Sweep == nil {
		return nil, fmt.Errorf("%w: %w: plan has neither runs nor a sweep", core.ErrInvalidConfig, core.ErrNoRuns)
	}
	return &p, nil
}

// Specs returns every run the plan describes.
func (p *Plan) Specs(gridSize int) ([]RunSpec, error) {
	specs := append([]RunSpec(nil), p.Runs...)
	if p.Sweep != nil {
		swept, err := p.Sweep.Specs(gridSize)
		if err != nil {
			return nil, err
		}
		specs = append(specs, swept...)
	}
	return specs, nil
}
