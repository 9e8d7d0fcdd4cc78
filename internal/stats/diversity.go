package stats

import "math"

// DiversityIndex computes the Simpson concentration complement
// 1 - sum(p_i^2) over demographic group proportions. Non-finite and
// negative entries are dropped and the remainder renormalized to sum to
// 1, which guards against partial or garbage demographic rows. Empty or
// all-invalid input returns 0, as does a single group holding the whole
// population; a uniform split across n groups approaches 1 - 1/n.
func DiversityIndex(proportions []float64) float64 {
	var total float64
	valid := make([]float64, 0, len(proportions))
	for _, p := range proportions {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			continue
		}
		valid = append(valid, p)
		total += p
	}

	if len(valid) == 0 || total == 0 {
		return 0
	}

	var sumSquared float64
	for _, p := range valid {
		normalized := p / total
		sumSquared += normalized * normalized
	}

	return 1 - sumSquared
}
