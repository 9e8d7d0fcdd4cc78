package stats

import (
	"math"
	"sort"
)

// Summary holds the five percentile cut points used for cohort
// comparisons throughout the engine.
type Summary struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Percentiles computes the standard cut points for a set of values.
// Non-finite entries are dropped first. An empty or all-invalid input
// returns the zero Summary.
func Percentiles(values []float64) Summary {
	sorted := sortedFinite(values)
	if len(sorted) == 0 {
		return Summary{}
	}

	return Summary{
		P10: Quantile(sorted, 0.10),
		P25: Quantile(sorted, 0.25),
		P50: Quantile(sorted, 0.50),
		P75: Quantile(sorted, 0.75),
		P90: Quantile(sorted, 0.90),
	}
}

// Quantile returns the value at quantile q (0-1) of an ascending-sorted
// slice, interpolating linearly at index q*(n-1). This matches the
// interpolation used when the cohort summaries were originally
// calibrated, so Quantile over 1..100 gives 10.9 at q=0.10 and 50.5 at
// the median.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// sortedFinite returns an ascending-sorted copy of values with NaN and
// Inf entries removed.
func sortedFinite(values []float64) []float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		clean = append(clean, v)
	}
	sort.Float64s(clean)
	return clean
}
