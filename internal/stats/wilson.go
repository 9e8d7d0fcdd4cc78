package stats

import (
	"fmt"
	"math"
)

// Confidence identifies a supported confidence level for interval
// estimation. Each level maps to a fixed z-value literal, so no
// distribution solver is needed.
type Confidence float64

const (
	Confidence90 Confidence = 0.90
	Confidence95 Confidence = 0.95
	Confidence99 Confidence = 0.99
)

// z returns the two-sided normal quantile for the confidence level.
func (c Confidence) z() (float64, bool) {
	switch c {
	case Confidence90:
		return 1.645, true
	case Confidence95:
		return 1.96, true
	case Confidence99:
		return 2.576, true
	default:
		return 0, false
	}
}

// Interval is a confidence interval on a proportion, in percent (0-100).
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// WilsonInterval computes the Wilson score interval for successes out of
// total trials, returned in percent. The Wilson form stays inside
// [0,100] and remains well-behaved near 0% and 100% success rates,
// which are common with small admitted cohorts. total == 0 yields the
// degenerate (0,0) interval. Negative counts, successes exceeding
// total, or an unsupported confidence level fail fast.
func WilsonInterval(successes, total int, conf Confidence) (Interval, error) {
	if successes < 0 || total < 0 {
		return Interval{}, fmt.Errorf("wilson interval: negative counts (successes=%d, total=%d)", successes, total)
	}
	if successes > total {
		return Interval{}, fmt.Errorf("wilson interval: successes %d exceed total %d", successes, total)
	}

	z, ok := conf.z()
	if !ok {
		return Interval{}, fmt.Errorf("wilson interval: unsupported confidence level %v", float64(conf))
	}

	if total == 0 {
		return Interval{}, nil
	}

	p := float64(successes) / float64(total)
	n := float64(total)

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	margin := z * math.Sqrt((p*(1-p)+z*z/(4*n))/n) / denominator

	return Interval{
		Lower: math.Max(0, center-margin) * 100,
		Upper: math.Min(1, center+margin) * 100,
	}, nil
}
