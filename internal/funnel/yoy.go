package funnel

import "admitpulse/internal/dataset"

// Metrics is the year-over-year comparison of a funnel, either for one
// institution or for a pooled group of facts. When HasPrior is false
// only the Current sides are populated and every delta is undefined.
type Metrics struct {
	Year      int  `json:"year"`
	PriorYear int  `json:"prior_year"`
	HasPrior  bool `json:"has_prior"`

	Applicants CountDelta `json:"applicants"`
	Admitted   CountDelta `json:"admitted"`
	Enrolled   CountDelta `json:"enrolled"`

	AdmitRate         RateDelta `json:"admit_rate"`
	YieldRate         RateDelta `json:"yield_rate"`
	OverallConversion RateDelta `json:"overall_conversion"`
}

// YoYMetrics compares the pooled funnel of the given year against the
// prior year within the supplied facts. Rates are recomputed from the
// pooled counts, not averaged across rows. The second return is false
// when the year itself has no facts; a missing prior year still
// returns the current side, with HasPrior false.
func YoYMetrics(facts []dataset.Fact, year int) (Metrics, bool) {
	current := factsForYear(facts, year)
	if len(current) == 0 {
		return Metrics{}, false
	}
	cur := dataset.AggregateMetrics(current)

	prior := factsForYear(facts, year-1)
	if len(prior) == 0 {
		return Metrics{
			Year: year,

			Applicants: CountDelta{Current: cur.TotalApplicants},
			Admitted:   CountDelta{Current: cur.TotalAdmitted},
			Enrolled:   CountDelta{Current: cur.TotalEnrolled},

			AdmitRate:         RateDelta{Current: cur.AdmitRate},
			YieldRate:         RateDelta{Current: cur.YieldRate},
			OverallConversion: RateDelta{Current: cur.OverallConversion},
		}, true
	}
	prev := dataset.AggregateMetrics(prior)

	return Metrics{
		Year:      year,
		PriorYear: year - 1,
		HasPrior:  true,

		Applicants: countDelta(cur.TotalApplicants, prev.TotalApplicants),
		Admitted:   countDelta(cur.TotalAdmitted, prev.TotalAdmitted),
		Enrolled:   countDelta(cur.TotalEnrolled, prev.TotalEnrolled),

		AdmitRate:         rateDelta(cur.AdmitRate, prev.AdmitRate),
		YieldRate:         rateDelta(cur.YieldRate, prev.YieldRate),
		OverallConversion: rateDelta(cur.OverallConversion, prev.OverallConversion),
	}, true
}

func factsForYear(facts []dataset.Fact, year int) []dataset.Fact {
	var out []dataset.Fact
	for _, f := range facts {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out
}
