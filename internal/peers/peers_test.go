package peers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admitpulse/internal/dataset"
	"admitpulse/internal/similarity"
)

func buildTable(t *testing.T) *dataset.Table {
	t.Helper()

	facts := []dataset.Fact{
		{UnitID: 1, Name: "Alpha", Year: 2023, Applicants: 10000, Admitted: 6000, Enrolled: 2000, State: "CA", Region: "West", SizeBand: "Large"},
		{UnitID: 2, Name: "Beta", Year: 2023, Applicants: 9500, Admitted: 5700, Enrolled: 1900, State: "CA", Region: "West", SizeBand: "Large"},
		{UnitID: 3, Name: "Gamma", Year: 2023, Applicants: 4000, Admitted: 3000, Enrolled: 900, State: "OR", Region: "West", SizeBand: "Medium"},
		{UnitID: 4, Name: "Delta", Year: 2023, Applicants: 7000, Admitted: 3500, Enrolled: 1400, State: "TX", Region: "South", SizeBand: "Large"},
		{UnitID: 5, Name: "Epsilon", Year: 2023, Applicants: 800, Admitted: 700, Enrolled: 200, State: "TX", Region: "South", SizeBand: "Small"},
	}

	table, err := dataset.NewTable(facts, dataset.Options{})
	require.NoError(t, err)
	return table
}

func newSelector() *Selector {
	return NewSelector(similarity.NewEngine(nil), nil)
}

func unitIDs(group []dataset.Fact) []int {
	ids := make([]int, 0, len(group))
	for _, f := range group {
		ids = append(ids, f.UnitID)
	}
	return ids
}

func TestSelect(t *testing.T) {
	table := buildTable(t)
	selector := newSelector()

	t.Run("national is the whole cohort", func(t *testing.T) {
		group, err := selector.Select(table, 1, 2023, ModeNational, 0)
		require.NoError(t, err)
		assert.Len(t, group, 5)
	})

	t.Run("same region", func(t *testing.T) {
		group, err := selector.Select(table, 1, 2023, ModeSameRegion, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 2, 3}, unitIDs(group))
	})

	t.Run("same state", func(t *testing.T) {
		group, err := selector.Select(table, 4, 2023, ModeSameState, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{4, 5}, unitIDs(group))
	})

	t.Run("same size band", func(t *testing.T) {
		group, err := selector.Select(table, 1, 2023, ModeSameSize, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []int{1, 2, 4}, unitIDs(group))
	})

	t.Run("top n by applicants includes target even below cutoff", func(t *testing.T) {
		group, err := selector.Select(table, 5, 2023, ModeTopNApplicants, 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 5}, unitIDs(group))
	})

	t.Run("similar mode returns neighbors plus target", func(t *testing.T) {
		group, err := selector.Select(table, 1, 2023, ModeSimilar, 2)
		require.NoError(t, err)
		require.Len(t, group, 3)
		assert.Contains(t, unitIDs(group), 1)
	})

	t.Run("missing target falls open to national", func(t *testing.T) {
		group, err := selector.Select(table, 999, 2023, ModeSameRegion, 0)
		require.NoError(t, err)
		assert.Len(t, group, 5)
	})

	t.Run("sized modes reject non-positive n", func(t *testing.T) {
		_, err := selector.Select(table, 1, 2023, ModeTopNApplicants, 0)
		assert.Error(t, err)

		_, err = selector.Select(table, 1, 2023, ModeSimilar, -1)
		assert.Error(t, err)
	})

	t.Run("unknown mode fails fast", func(t *testing.T) {
		_, err := selector.Select(table, 1, 2023, Mode("bogus"), 0)
		assert.Error(t, err)
	})

	t.Run("target is in its group for every mode", func(t *testing.T) {
		for _, mode := range Modes {
			group, err := selector.Select(table, 3, 2023, mode, 2)
			require.NoError(t, err, "mode %s", mode)
			assert.Contains(t, unitIDs(group), 3, "mode %s", mode)
		}
	})
}

func TestStatistics(t *testing.T) {
	table := buildTable(t)

	t.Run("describes a metric across the group", func(t *testing.T) {
		d, ok := Statistics(table.Year(2023), dataset.MetricApplicants)
		require.True(t, ok)
		assert.Equal(t, 5, d.Count)
		assert.Equal(t, 800.0, d.Min)
		assert.Equal(t, 10000.0, d.Max)
		assert.InDelta(t, 6260.0, d.Mean, 1e-9)
	})

	t.Run("unknown metric", func(t *testing.T) {
		_, ok := Statistics(table.Year(2023), dataset.Metric("bogus"))
		assert.False(t, ok)
	})

	t.Run("empty group", func(t *testing.T) {
		_, ok := Statistics(nil, dataset.MetricApplicants)
		assert.False(t, ok)
	})
}

func TestPercentileSummaries(t *testing.T) {
	table := buildTable(t)

	summaries := PercentileSummaries(table.Year(2023), []dataset.Metric{
		dataset.MetricAdmitRate,
		dataset.Metric("bogus"),
	})

	require.Contains(t, summaries, dataset.MetricAdmitRate)
	assert.NotContains(t, summaries, dataset.Metric("bogus"))

	s := summaries[dataset.MetricAdmitRate]
	assert.Greater(t, s.P75, s.P25)
}
