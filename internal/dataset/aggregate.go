package dataset

import "sort"

// Aggregate holds funnel totals and pooled rates for a set of facts.
// Rates are computed from the summed counts, not averaged across rows.
type Aggregate struct {
	TotalApplicants   int     `json:"total_applicants"`
	TotalAdmitted     int     `json:"total_admitted"`
	TotalEnrolled     int     `json:"total_enrolled"`
	AdmitRate         float64 `json:"admit_rate"`
	YieldRate         float64 `json:"yield_rate"`
	OverallConversion float64 `json:"overall_conversion"`
	InstitutionCount  int     `json:"institution_count"`
	AvgDiversity      float64 `json:"avg_diversity"`
}

// AggregateMetrics pools the supplied facts into overall funnel totals
// and rates. An empty input returns the zero Aggregate.
func AggregateMetrics(facts []Fact) Aggregate {
	if len(facts) == 0 {
		return Aggregate{}
	}

	var agg Aggregate
	var diversitySum float64
	institutions := make(map[int]bool)

	for _, f := range facts {
		agg.TotalApplicants += f.Applicants
		agg.TotalAdmitted += f.Admitted
		agg.TotalEnrolled += f.Enrolled
		diversitySum += f.DiversityIndex
		institutions[f.UnitID] = true
	}

	agg.AdmitRate = safeRate(agg.TotalAdmitted, agg.TotalApplicants)
	agg.YieldRate = safeRate(agg.TotalEnrolled, agg.TotalAdmitted)
	agg.OverallConversion = safeRate(agg.TotalEnrolled, agg.TotalApplicants)
	agg.InstitutionCount = len(institutions)
	agg.AvgDiversity = diversitySum / float64(len(facts))

	return agg
}

// YearTrend is one year's pooled funnel totals.
type YearTrend struct {
	Year             int     `json:"year"`
	Applicants       int     `json:"applicants"`
	Admitted         int     `json:"admitted"`
	Enrolled         int     `json:"enrolled"`
	AdmitRate        float64 `json:"admit_rate"`
	YieldRate        float64 `json:"yield_rate"`
	OverallRate      float64 `json:"overall_rate"`
	InstitutionCount int     `json:"institution_count"`
}

// TrendsByYear pools the supplied facts per year, ascending.
func TrendsByYear(facts []Fact) []YearTrend {
	byYear := make(map[int][]Fact)
	for _, f := range facts {
		byYear[f.Year] = append(byYear[f.Year], f)
	}

	trends := make([]YearTrend, 0, len(byYear))
	for year, yearFacts := range byYear {
		agg := AggregateMetrics(yearFacts)
		trends = append(trends, YearTrend{
			Year:             year,
			Applicants:       agg.TotalApplicants,
			Admitted:         agg.TotalAdmitted,
			Enrolled:         agg.TotalEnrolled,
			AdmitRate:        agg.AdmitRate,
			YieldRate:        agg.YieldRate,
			OverallRate:      agg.OverallConversion,
			InstitutionCount: agg.InstitutionCount,
		})
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].Year < trends[j].Year })
	return trends
}

// minEnrolledForRanking filters out institutions with too little
// enrollment history for their pooled rates to mean anything.
const minEnrolledForRanking = 100

// InstitutionTotals is one institution's funnel pooled across years.
type InstitutionTotals struct {
	UnitID     int     `json:"unit_id"`
	Name       string  `json:"name"`
	Applicants int     `json:"applicants"`
	Admitted   int     `json:"admitted"`
	Enrolled   int     `json:"enrolled"`
	AdmitRate  float64 `json:"admit_rate"`
	YieldRate  float64 `json:"yield_rate"`
	YearCount  int     `json:"year_count"`
}

// TopInstitutions pools each institution across the supplied facts,
// drops those under the enrollment floor, and returns the n largest by
// the given metric (enrolled when the metric is not rankable here).
func TopInstitutions(facts []Fact, metric Metric, n int) []InstitutionTotals {
	if n <= 0 {
		return nil
	}

	byUnit := make(map[int]*InstitutionTotals)
	var order []int
	for _, f := range facts {
		totals, ok := byUnit[f.UnitID]
		if !ok {
			totals = &InstitutionTotals{UnitID: f.UnitID, Name: f.Name}
			byUnit[f.UnitID] = totals
			order = append(order, f.UnitID)
		}
		totals.Applicants += f.Applicants
		totals.Admitted += f.Admitted
		totals.Enrolled += f.Enrolled
		totals.YearCount++
	}

	ranked := make([]InstitutionTotals, 0, len(order))
	for _, unitID := range order {
		totals := byUnit[unitID]
		if totals.Enrolled < minEnrolledForRanking {
			continue
		}
		totals.AdmitRate = safeRate(totals.Admitted, totals.Applicants)
		totals.YieldRate = safeRate(totals.Enrolled, totals.Admitted)
		ranked = append(ranked, *totals)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankValue(ranked[i], metric) > rankValue(ranked[j], metric)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// rankValue maps a metric onto pooled institution totals, falling back
// to enrollment for metrics that only exist per-year.
func rankValue(t InstitutionTotals, metric Metric) float64 {
	switch metric {
	case MetricApplicants:
		return float64(t.Applicants)
	case MetricAdmitted:
		return float64(t.Admitted)
	case MetricAdmitRate:
		return t.AdmitRate
	case MetricYieldRate:
		return t.YieldRate
	default:
		return float64(t.Enrolled)
	}
}

// Growth is one institution's enrollment change between the first and
// last year present in a fact set.
type Growth struct {
	UnitID        int     `json:"unit_id"`
	Name          string  `json:"name"`
	EnrolledFirst int     `json:"enrolled_first"`
	EnrolledLast  int     `json:"enrolled_last"`
	Growth        int     `json:"growth"`
	GrowthPct     float64 `json:"growth_pct"`
}

// EnrollmentGrowth compares each institution's enrollment in the first
// and last year of the supplied facts. Institutions missing either
// endpoint are omitted; fewer than two distinct years yields nil.
func EnrollmentGrowth(facts []Fact) []Growth {
	yearSet := make(map[int]bool)
	for _, f := range facts {
		yearSet[f.Year] = true
	}
	if len(yearSet) < 2 {
		return nil
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)
	firstYear, lastYear := years[0], years[len(years)-1]

	type endpoints struct {
		name     string
		first    int
		last     int
		hasFirst bool
		hasLast  bool
	}
	byUnit := make(map[int]*endpoints)
	var order []int

	for _, f := range facts {
		e, ok := byUnit[f.UnitID]
		if !ok {
			e = &endpoints{name: f.Name}
			byUnit[f.UnitID] = e
			order = append(order, f.UnitID)
		}
		switch f.Year {
		case firstYear:
			e.first += f.Enrolled
			e.hasFirst = true
		case lastYear:
			e.last += f.Enrolled
			e.hasLast = true
		}
	}

	var out []Growth
	for _, unitID := range order {
		e := byUnit[unitID]
		if !e.hasFirst || !e.hasLast {
			continue
		}
		g := Growth{
			UnitID:        unitID,
			Name:          e.name,
			EnrolledFirst: e.first,
			EnrolledLast:  e.last,
			Growth:        e.last - e.first,
		}
		if e.first > 0 {
			g.GrowthPct = float64(e.last-e.first) / float64(e.first) * 100
		}
		out = append(out, g)
	}
	return out
}
