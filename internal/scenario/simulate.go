package scenario

import (
	"fmt"
	"math"

	"admitpulse/internal/funnel"
)

// Baseline is the current funnel a scenario starts from. Rates are
// percentages.
type Baseline struct {
	Applicants int     `json:"applicants"`
	AdmitRate  float64 `json:"admit_rate"`
	YieldRate  float64 `json:"yield_rate"`
}

// Enrolled projects the baseline's enrollment from its own funnel.
func (b Baseline) Enrolled() int {
	return projectEnrolled(float64(b.Applicants), b.AdmitRate, b.YieldRate)
}

func projectEnrolled(applicants, admitRate, yieldRate float64) int {
	return int(math.Round(applicants * admitRate / 100 * yieldRate / 100))
}

// Validate rejects baselines a simulation cannot start from.
func (b Baseline) Validate() error {
	if b.Applicants < 0 {
		return fmt.Errorf("baseline applicants must be non-negative, got %d", b.Applicants)
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"admit rate", b.AdmitRate},
		{"yield rate", b.YieldRate},
	} {
		if math.IsNaN(rate.value) || math.IsInf(rate.value, 0) {
			return fmt.Errorf("baseline %s must be finite", rate.name)
		}
		if rate.value < 0 || rate.value > 100 {
			return fmt.Errorf("baseline %s out of range [0, 100], got %g", rate.name, rate.value)
		}
	}
	return nil
}

// Adjustment describes the levers applied on top of a baseline:
// applicant growth in percent and rate lifts in percentage points.
// Negative values model shrinkage. The zero Adjustment reproduces the
// baseline.
type Adjustment struct {
	ApplicantGrowthPct float64 `json:"applicant_growth_pct"`
	AdmitRateLiftPP    float64 `json:"admit_rate_lift_pp"`
	YieldRateLiftPP    float64 `json:"yield_rate_lift_pp"`
}

func (a Adjustment) validate() error {
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"applicant growth", a.ApplicantGrowthPct},
		{"admit rate lift", a.AdmitRateLiftPP},
		{"yield rate lift", a.YieldRateLiftPP},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("adjustment %s must be finite", v.name)
		}
	}
	if a.ApplicantGrowthPct < -100 {
		return fmt.Errorf("applicant growth cannot shrink volume below zero, got %g%%", a.ApplicantGrowthPct)
	}
	return nil
}

// Projection is a simulated funnel outcome compared against its
// baseline. DeltaEnrolledPct is undefined when the baseline enrolled
// nobody.
type Projection struct {
	Applicants int     `json:"applicants"`
	AdmitRate  float64 `json:"admit_rate"`
	YieldRate  float64 `json:"yield_rate"`
	Enrolled   int     `json:"enrolled"`

	BaselineEnrolled int          `json:"baseline_enrolled"`
	DeltaEnrolled    int          `json:"delta_enrolled"`
	DeltaEnrolledPct funnel.Delta `json:"delta_enrolled_pct"`
}

// Simulate applies the adjustment to the baseline. Adjusted rates are
// clamped to [0, 100]; applicant volume is rounded to a whole count.
func Simulate(base Baseline, adj Adjustment) (Projection, error) {
	if err := base.Validate(); err != nil {
		return Projection{}, err
	}
	if err := adj.validate(); err != nil {
		return Projection{}, err
	}

	applicants := math.Round(float64(base.Applicants) * (1 + adj.ApplicantGrowthPct/100))
	admitRate := clampRate(base.AdmitRate + adj.AdmitRateLiftPP)
	yieldRate := clampRate(base.YieldRate + adj.YieldRateLiftPP)

	p := Projection{
		Applicants:       int(applicants),
		AdmitRate:        admitRate,
		YieldRate:        yieldRate,
		Enrolled:         projectEnrolled(applicants, admitRate, yieldRate),
		BaselineEnrolled: base.Enrolled(),
	}
	p.DeltaEnrolled = p.Enrolled - p.BaselineEnrolled
	if p.BaselineEnrolled != 0 {
		p.DeltaEnrolledPct = funnel.NewDelta(float64(p.DeltaEnrolled) / float64(p.BaselineEnrolled) * 100)
	}
	return p, nil
}

func clampRate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
