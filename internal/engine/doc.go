// Package engine is the top-level facade of the admissions analytics
// engine. It composes the dataset table, funnel math, similarity
// lookups, peer grouping, insight rules, and scenario planning behind
// a small set of operations:
//
//   - Profile: one institution's funnel, confidence intervals,
//     year-over-year movement, and enrollment-change decomposition.
//   - Benchmark: the institution against a peer group, with ranks,
//     percentiles, and narrative insights.
//   - BenchmarkAll: Benchmark across a whole year cohort, bounded by
//     the configured concurrency.
//   - Simulate and GoalSeek: what-if projections under the configured
//     realism bounds.
//
// The engine is stateless apart from the similarity cache and safe for
// concurrent use.
package engine
