package stats

import (
	"gonum.org/v1/gonum/stat"
)

// Descriptive summarizes a metric across a cohort. Std is the sample
// standard deviation (n-1); it is 0 for a single observation.
type Descriptive struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Summary
	Count int `json:"count"`
}

// Describe computes descriptive statistics over the finite entries of
// values. The second return is false when no finite entries remain, so
// callers can distinguish "no stats" from "stats are zero".
func Describe(values []float64) (Descriptive, bool) {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return Descriptive{}, false
	}

	d := Descriptive{
		Mean:   stat.Mean(sorted, nil),
		Median: Quantile(sorted, 0.50),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Summary: Summary{
			P10: Quantile(sorted, 0.10),
			P25: Quantile(sorted, 0.25),
			P50: Quantile(sorted, 0.50),
			P75: Quantile(sorted, 0.75),
			P90: Quantile(sorted, 0.90),
		},
		Count: len(sorted),
	}
	if len(sorted) > 1 {
		d.Std = stat.StdDev(sorted, nil)
	}

	return d, true
}
