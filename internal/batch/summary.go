package batch

import (
	"sort"

	"github.com/mitchelldurbincs/WildfireSuppressionSim/internal/fire"
)

// AgentSummary aggregates the successful runs that used one agent count.
type AgentSummary struct {
	AgentCount int `json:"agent_count"`
	Runs       int `json:"runs"`
	Failed     int `json:"failed"`
	Capped     int `json:"capped"`

	MeanIgnited              float64 `json:"mean_ignited"`
	MeanExtinguished         float64 `json:"mean_extinguished"`
	MeanEfficiency           float64 `json:"mean_efficiency"`
	MeanPercentExtinguished  float64 `json:"mean_percent_extinguished"`
	MeanAvgStepsToExtinguish float64 `json:"mean_avg_steps_to_extinguish"`
	MeanSteps                float64 `json:"mean_steps"`
}

// Summarize groups results by agent count, ascending. Failed and aborted runs
// are counted but excluded from the means.
func Summarize(results []fire.Result) []AgentSummary {
	byCount := make(map[int]*AgentSummary)
	for _, r := range results {
		s, ok := byCount[r.AgentCount]
		if !ok {
			s = &AgentSummary{AgentCount: r.AgentCount}
			byCount[r.AgentCount] = s
		}
		if !r.OK() {
			s.Failed++
			continue
		}
		if r.Outcome == fire.OutcomeCapped {
			s.Capped++
		}
		s.Runs++
		s.MeanIgnited += float64(r.Ignited)
		s.MeanExtinguished += float64(r.Extinguished)
		s.MeanEfficiency += r.Efficiency
		s.MeanPercentExtinguished += r.PercentExtinguished
		s.MeanAvgStepsToExtinguish += r.AvgStepsToExtinguish
		s.MeanSteps += float64(r.Steps)
	}

	out := make([]AgentSummary, 0, len(byCount))
	for _, s := range byCount {
		if s.Runs > 0 {
			n := float64(s.Runs)
			s.MeanIgnited /= n
			s.MeanExtinguished /= n
			s.MeanEfficiency /= n
			s.MeanPercentExtinguished /= n
			s.MeanAvgStepsToExtinguish /= n
			s.MeanSteps /= n
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AgentCount < out[j].AgentCount })
	return out
}
