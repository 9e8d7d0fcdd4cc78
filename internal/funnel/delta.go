package funnel

import "math"

// Delta is an optional float. Valid is false when the quantity is
// undefined, most commonly a percentage change over a zero base.
type Delta struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// NewDelta returns a defined delta.
func NewDelta(value float64) Delta {
	return Delta{Value: value, Valid: true}
}

// PctChange returns the relative change from previous to current, in
// percent. Undefined over a zero or non-finite previous, or a
// non-finite current.
func PctChange(current, previous float64) Delta {
	if previous == 0 ||
		math.IsNaN(previous) || math.IsInf(previous, 0) ||
		math.IsNaN(current) || math.IsInf(current, 0) {
		return Delta{}
	}
	return NewDelta((current - previous) / previous * 100)
}

// PPChange returns the absolute change from previous to current, in
// percentage points. Undefined when either value is non-finite.
func PPChange(current, previous float64) Delta {
	if math.IsNaN(previous) || math.IsInf(previous, 0) ||
		math.IsNaN(current) || math.IsInf(current, 0) {
		return Delta{}
	}
	return NewDelta(current - previous)
}

// CountDelta is the year-over-year movement of one funnel count.
type CountDelta struct {
	Current   int   `json:"current"`
	Prior     int   `json:"prior"`
	Change    int   `json:"change"`
	PctChange Delta `json:"pct_change"`
}

// countDelta builds the movement between two counts. The percentage
// change is undefined over a zero prior.
func countDelta(current, prior int) CountDelta {
	cd := CountDelta{
		Current: current,
		Prior:   prior,
		Change:  current - prior,
	}
	if prior != 0 {
		cd.PctChange = NewDelta(float64(current-prior) / float64(prior) * 100)
	}
	return cd
}

// RateDelta is the year-over-year movement of one funnel rate, in
// percentage points.
type RateDelta struct {
	Current  float64 `json:"current"`
	Prior    float64 `json:"prior"`
	ChangePP float64 `json:"change_pp"`
}

func rateDelta(current, prior float64) RateDelta {
	return RateDelta{Current: current, Prior: prior, ChangePP: current - prior}
}
