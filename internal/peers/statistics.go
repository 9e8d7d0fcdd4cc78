package peers

import (
	"admitpulse/internal/dataset"
	"admitpulse/internal/stats"
)

// Statistics describes one metric across a peer group. The second
// return is false when the metric is unknown or the group holds no
// finite values for it.
func Statistics(group []dataset.Fact, metric dataset.Metric) (stats.Descriptive, bool) {
	values := MetricValues(group, metric)
	if values == nil {
		return stats.Descriptive{}, false
	}
	return stats.Describe(values)
}

// PercentileSummaries computes the percentile summary of each
// requested metric across the group. Unknown metrics are skipped.
func PercentileSummaries(group []dataset.Fact, metrics []dataset.Metric) map[dataset.Metric]stats.Summary {
	out := make(map[dataset.Metric]stats.Summary, len(metrics))
	for _, metric := range metrics {
		values := MetricValues(group, metric)
		if values == nil {
			continue
		}
		out[metric] = stats.Percentiles(values)
	}
	return out
}

// MetricValues extracts one metric from every fact in the group. Nil
// means the metric name itself is unknown.
func MetricValues(group []dataset.Fact, metric dataset.Metric) []float64 {
	values := make([]float64, 0, len(group))
	for _, f := range group {
		v, ok := metric.Value(f)
		if !ok {
			return nil
		}
		values = append(values, v)
	}
	return values
}
