package stats

import "math"

// RankResult locates one value within a population.
type RankResult struct {
	Rank       int     `json:"rank"`
	Total      int     `json:"total"`
	Percentile float64 `json:"percentile"`
}

// RankAndPercentile ranks value within population. Rank 1 is the highest
// value; ties share the rank implied by the count of strictly greater
// values plus one. Percentile is the share of the population strictly
// below value, times 100. The second return is false when value is not
// finite or the population has no finite entries, which callers must
// treat as "no rank available" rather than rank zero.
func RankAndPercentile(value float64, population []float64) (RankResult, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return RankResult{}, false
	}

	var total, greater, less int
	for _, v := range population {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total++
		if v > value {
			greater++
		}
		if v < value {
			less++
		}
	}

	if total == 0 {
		return RankResult{}, false
	}

	return RankResult{
		Rank:       greater + 1,
		Total:      total,
		Percentile: float64(less) / float64(total) * 100,
	}, true
}
