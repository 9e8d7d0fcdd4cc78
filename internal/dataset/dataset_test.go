package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFact() Fact {
	return Fact{
		UnitID:     100654,
		Name:       "Alpha State University",
		Year:       2023,
		Applicants: 10000,
		Admitted:   6500,
		Enrolled:   2100,
		State:      "CA",
		Region:     "West",
		SizeBand:   "Large",
		Shares: map[string]float64{
			ShareHispanic: 0.25,
			ShareWhite:    0.40,
			ShareBlack:    0.15,
			ShareAsian:    0.20,
		},
	}
}

func TestNewTable(t *testing.T) {
	t.Run("derives rates and leakage at ingestion", func(t *testing.T) {
		table, err := NewTable([]Fact{validFact()}, Options{})
		require.NoError(t, err)

		f, ok := table.Get(100654, 2023)
		require.True(t, ok)
		assert.InDelta(t, 65.0, f.AdmitRate, 1e-9)
		assert.InDelta(t, 2100.0/6500.0*100, f.YieldRate, 1e-9)
		assert.InDelta(t, 21.0, f.OverallConversion, 1e-9)
		assert.Equal(t, 3500, f.LeakageStage1)
		assert.Equal(t, 4400, f.LeakageStage2)
		assert.Greater(t, f.DiversityIndex, 0.0)
	})

	t.Run("zero denominators yield zero rates", func(t *testing.T) {
		f := validFact()
		f.Applicants = 0
		f.Admitted = 0
		f.Enrolled = 0

		table, err := NewTable([]Fact{f}, Options{})
		require.NoError(t, err)

		got, ok := table.Get(f.UnitID, f.Year)
		require.True(t, ok)
		assert.Equal(t, 0.0, got.AdmitRate)
		assert.Equal(t, 0.0, got.YieldRate)
		assert.Equal(t, 0.0, got.OverallConversion)
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		f := validFact()
		f.Applicants = -5

		_, err := NewTable([]Fact{f}, Options{})
		require.Error(t, err)

		var ve ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Applicants", ve.Field)
	})

	t.Run("rejects missing name and zero unit id", func(t *testing.T) {
		f := validFact()
		f.Name = ""
		_, err := NewTable([]Fact{f}, Options{})
		assert.Error(t, err)

		f = validFact()
		f.UnitID = 0
		_, err = NewTable([]Fact{f}, Options{})
		assert.Error(t, err)
	})

	t.Run("rejects duplicate institution-year", func(t *testing.T) {
		_, err := NewTable([]Fact{validFact(), validFact()}, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("does not retain the caller's slice", func(t *testing.T) {
		input := []Fact{validFact()}
		table, err := NewTable(input, Options{})
		require.NoError(t, err)

		input[0].Applicants = 1
		f, _ := table.Get(100654, 2023)
		assert.Equal(t, 10000, f.Applicants)
	})
}

func TestShareNormalization(t *testing.T) {
	t.Run("auto divides percent-scale values", func(t *testing.T) {
		f := validFact()
		f.Shares = map[string]float64{ShareHispanic: 25, ShareWhite: 75}

		table, err := NewTable([]Fact{f}, Options{})
		require.NoError(t, err)

		got, _ := table.Get(f.UnitID, f.Year)
		assert.InDelta(t, 0.25, got.Shares[ShareHispanic], 1e-9)
		assert.InDelta(t, 0.75, got.Shares[ShareWhite], 1e-9)
	})

	t.Run("auto keeps fraction-scale values", func(t *testing.T) {
		table, err := NewTable([]Fact{validFact()}, Options{})
		require.NoError(t, err)

		got, _ := table.Get(100654, 2023)
		assert.InDelta(t, 0.25, got.Shares[ShareHispanic], 1e-9)
	})

	t.Run("explicit percent scale", func(t *testing.T) {
		f := validFact()
		f.Shares = map[string]float64{ShareHispanic: 0.5, ShareWhite: 99.5}

		table, err := NewTable([]Fact{f}, Options{ShareScale: ScalePercent})
		require.NoError(t, err)

		got, _ := table.Get(f.UnitID, f.Year)
		assert.InDelta(t, 0.005, got.Shares[ShareHispanic], 1e-9)
		assert.InDelta(t, 0.995, got.Shares[ShareWhite], 1e-9)
	})

	t.Run("fraction scale rejects values above 1", func(t *testing.T) {
		f := validFact()
		f.Shares = map[string]float64{ShareHispanic: 25}

		_, err := NewTable([]Fact{f}, Options{ShareScale: ScaleFraction})
		assert.Error(t, err)
	})

	t.Run("rejects negative shares", func(t *testing.T) {
		f := validFact()
		f.Shares[ShareOther] = -0.1

		_, err := NewTable([]Fact{f}, Options{})
		assert.Error(t, err)
	})
}

func buildTestTable(t *testing.T) *Table {
	t.Helper()

	facts := []Fact{
		{UnitID: 1, Name: "Alpha", Year: 2022, Applicants: 8000, Admitted: 5000, Enrolled: 1500, State: "CA", Region: "West", SizeBand: "Large"},
		{UnitID: 1, Name: "Alpha", Year: 2023, Applicants: 9000, Admitted: 5400, Enrolled: 1700, State: "CA", Region: "West", SizeBand: "Large"},
		{UnitID: 2, Name: "Beta", Year: 2022, Applicants: 3000, Admitted: 2400, Enrolled: 900, State: "TX", Region: "South", SizeBand: "Medium"},
		{UnitID: 2, Name: "Beta", Year: 2023, Applicants: 3200, Admitted: 2500, Enrolled: 950, State: "TX", Region: "South", SizeBand: "Medium"},
		{UnitID: 3, Name: "Gamma", Year: 2023, Applicants: 500, Admitted: 450, Enrolled: 90, State: "CA", Region: "West", SizeBand: "Small"},
	}

	table, err := NewTable(facts, Options{})
	require.NoError(t, err)
	return table
}

func TestTableQueries(t *testing.T) {
	table := buildTestTable(t)

	t.Run("years ascending", func(t *testing.T) {
		assert.Equal(t, []int{2022, 2023}, table.Years())
	})

	t.Run("year slice", func(t *testing.T) {
		assert.Len(t, table.Year(2023), 3)
		assert.Empty(t, table.Year(2019))
	})

	t.Run("institution history is year ordered", func(t *testing.T) {
		history := table.Institution(1)
		require.Len(t, history, 2)
		assert.Equal(t, 2022, history[0].Year)
		assert.Equal(t, 2023, history[1].Year)
	})

	t.Run("get missing row", func(t *testing.T) {
		_, ok := table.Get(99, 2023)
		assert.False(t, ok)
	})

	t.Run("select by region and year", func(t *testing.T) {
		got := table.Select(Filter{Years: []int{2023}, Regions: []string{"West"}})
		require.Len(t, got, 2)
		for _, f := range got {
			assert.Equal(t, "West", f.Region)
			assert.Equal(t, 2023, f.Year)
		}
	})

	t.Run("empty filter returns everything", func(t *testing.T) {
		assert.Len(t, table.Select(Filter{}), table.Len())
	})

	t.Run("unmatched filter returns nothing", func(t *testing.T) {
		assert.Empty(t, table.Select(Filter{States: []string{"NY"}}))
	})
}

func TestAggregateMetrics(t *testing.T) {
	table := buildTestTable(t)

	t.Run("rates come from pooled counts", func(t *testing.T) {
		agg := AggregateMetrics(table.Year(2023))
		assert.Equal(t, 12700, agg.TotalApplicants)
		assert.Equal(t, 8350, agg.TotalAdmitted)
		assert.Equal(t, 2740, agg.TotalEnrolled)
		assert.InDelta(t, 8350.0/12700.0*100, agg.AdmitRate, 1e-9)
		assert.InDelta(t, 2740.0/8350.0*100, agg.YieldRate, 1e-9)
		assert.Equal(t, 3, agg.InstitutionCount)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, Aggregate{}, AggregateMetrics(nil))
	})
}

func TestTrendsByYear(t *testing.T) {
	table := buildTestTable(t)

	trends := TrendsByYear(table.Facts())
	require.Len(t, trends, 2)
	assert.Equal(t, 2022, trends[0].Year)
	assert.Equal(t, 11000, trends[0].Applicants)
	assert.Equal(t, 2, trends[0].InstitutionCount)
	assert.Equal(t, 2023, trends[1].Year)
	assert.Equal(t, 3, trends[1].InstitutionCount)
}

func TestTopInstitutions(t *testing.T) {
	table := buildTestTable(t)

	t.Run("ranks by enrollment and applies the floor", func(t *testing.T) {
		top := TopInstitutions(table.Facts(), MetricEnrolled, 10)
		require.Len(t, top, 2) // Gamma's 90 enrolled is under the floor
		assert.Equal(t, "Alpha", top[0].Name)
		assert.Equal(t, 3200, top[0].Enrolled)
		assert.Equal(t, "Beta", top[1].Name)
	})

	t.Run("truncates to n", func(t *testing.T) {
		top := TopInstitutions(table.Facts(), MetricApplicants, 1)
		require.Len(t, top, 1)
		assert.Equal(t, "Alpha", top[0].Name)
	})

	t.Run("non-positive n", func(t *testing.T) {
		assert.Nil(t, TopInstitutions(table.Facts(), MetricEnrolled, 0))
	})
}

func TestEnrollmentGrowth(t *testing.T) {
	table := buildTestTable(t)

	t.Run("first versus last year", func(t *testing.T) {
		growth := EnrollmentGrowth(table.Facts())
		require.Len(t, growth, 2) // Gamma lacks a 2022 row

		byName := make(map[string]Growth)
		for _, g := range growth {
			byName[g.Name] = g
		}

		alpha := byName["Alpha"]
		assert.Equal(t, 1500, alpha.EnrolledFirst)
		assert.Equal(t, 1700, alpha.EnrolledLast)
		assert.Equal(t, 200, alpha.Growth)
		assert.InDelta(t, 200.0/1500.0*100, alpha.GrowthPct, 1e-9)
	})

	t.Run("single year yields nil", func(t *testing.T) {
		assert.Nil(t, EnrollmentGrowth(table.Year(2023)))
	})
}

func TestMetricValue(t *testing.T) {
	f := validFact()
	f.AdmitRate = 65

	v, ok := MetricApplicants.Value(f)
	require.True(t, ok)
	assert.Equal(t, 10000.0, v)

	v, ok = MetricAdmitRate.Value(f)
	require.True(t, ok)
	assert.Equal(t, 65.0, v)

	_, ok = Metric("bogus").Value(f)
	assert.False(t, ok)
}
