// Package rubric aggregates heterogeneous weighted scoring components into
// one normalized score and pass decision.
package rubric

import "math"

// Component is a single named scoring dimension. Weight is descriptive
// metadata for reporting only; the achieved/max sums are unweighted point
// totals.
type Component struct {
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Weight   float64 `json:"weight"`
}

// Result is derived from a rubric and a pass threshold, never constructed
// directly.
type Result struct {
	Achieved   float64 `json:"achieved"`
	Max        float64 `json:"max"`
	Percentage int     `json:"percentage"`
	Passed     bool    `json:"passed"`
}

// Aggregate sums the component scores, rounds the percentage, and compares
// it against the pass threshold (0-100). A rubric with zero max yields
// percentage 0, never a division error.
func Aggregate(components []Component, passThresholdPct int) Result {
	var r Result
	for _, c := range components {
		r.Achieved += c.Score
		r.Max += c.MaxScore
	}
	if r.Max > 0 {
		r.Percentage = int(math.Round(r.Achieved / r.Max * 100))
	}
	r.Passed = r.Percentage >= passThresholdPct
	return r
}
