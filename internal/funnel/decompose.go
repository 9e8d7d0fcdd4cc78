package funnel

import (
	"fmt"
	"math"
)

// Drivers name the funnel lever a decomposition attributes an
// enrollment change to. The direction suffix is appended by
// PrimaryDriver.
const (
	DriverApplicants = "applicants"
	DriverAdmitRate  = "admit_rate"
	DriverYieldRate  = "yield_rate"

	directionIncrease = "_increase"
	directionDecrease = "_decrease"
)

// Period is one side of a decomposition: applicant volume plus the two
// conversion rates. Rates may be supplied on either the 0-1 or the
// 0-100 scale; values above 1 are treated as percentages.
type Period struct {
	Applicants int     `json:"applicants"`
	AdmitRate  float64 `json:"admit_rate"`
	YieldRate  float64 `json:"yield_rate"`
}

// normalized returns applicants and the two rates on the 0-1 scale.
func (p Period) normalized() (float64, float64, float64) {
	r := p.AdmitRate
	if r > 1 {
		r /= 100
	}
	y := p.YieldRate
	if y > 1 {
		y /= 100
	}
	return float64(p.Applicants), r, y
}

// Decomposition attributes an enrollment change between two periods to
// its three multiplicative components. The identity
//
//	Total = EffectApplicants + EffectAdmit + EffectYield + Residual
//
// holds exactly; Residual carries the cross terms.
type Decomposition struct {
	EffectApplicants float64 `json:"effect_applicants"`
	EffectAdmit      float64 `json:"effect_admit"`
	EffectYield      float64 `json:"effect_yield"`
	Residual         float64 `json:"residual"`
	Total            float64 `json:"total"`
	PrimaryDriver    string  `json:"primary_driver"`
}

// Decompose explains the enrollment change from the base period to the
// current one. Each effect isolates one lever: applicant volume at base
// rates, admit rate at current volume and base yield, yield at current
// volume and current admit rate.
func Decompose(base, current Period) (Decomposition, error) {
	if err := validatePeriod("base", base); err != nil {
		return Decomposition{}, err
	}
	if err := validatePeriod("current", current); err != nil {
		return Decomposition{}, err
	}

	a0, r0, y0 := base.normalized()
	a1, r1, y1 := current.normalized()

	d := Decomposition{
		EffectApplicants: (a1 - a0) * r0 * y0,
		EffectAdmit:      a1 * (r1 - r0) * y0,
		EffectYield:      a1 * r1 * (y1 - y0),
		Total:            a1*r1*y1 - a0*r0*y0,
	}
	d.Residual = d.Total - d.EffectApplicants - d.EffectAdmit - d.EffectYield
	d.PrimaryDriver = primaryDriver(d)
	return d, nil
}

// primaryDriver names the largest-magnitude effect with its direction,
// or the empty string when all three effects are zero.
func primaryDriver(d Decomposition) string {
	effects := []struct {
		name  string
		value float64
	}{
		{DriverApplicants, d.EffectApplicants},
		{DriverAdmitRate, d.EffectAdmit},
		{DriverYieldRate, d.EffectYield},
	}

	best := effects[0]
	for _, e := range effects[1:] {
		if math.Abs(e.value) > math.Abs(best.value) {
			best = e
		}
	}
	if best.value == 0 {
		return ""
	}
	if best.value > 0 {
		return best.name + directionIncrease
	}
	return best.name + directionDecrease
}

func validatePeriod(label string, p Period) error {
	if p.Applicants < 0 {
		return fmt.Errorf("%s period: applicants must be non-negative, got %d", label, p.Applicants)
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"admit rate", p.AdmitRate},
		{"yield rate", p.YieldRate},
	} {
		if math.IsNaN(rate.value) || math.IsInf(rate.value, 0) {
			return fmt.Errorf("%s period: %s must be finite", label, rate.name)
		}
		if rate.value < 0 || rate.value > 100 {
			return fmt.Errorf("%s period: %s out of range [0, 100], got %g", label, rate.name, rate.value)
		}
	}
	return nil
}
