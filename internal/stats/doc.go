// Package stats provides the statistical primitives shared by the
// admissions analytics engine: linear-interpolation percentiles,
// rank/percentile placement within a cohort, Wilson score confidence
// intervals for funnel proportions, the Simpson diversity index over
// demographic shares, and descriptive cohort summaries.
//
// All functions are pure and operate on plain float64 slices. Undefined
// results (empty input, non-finite target values) are signalled through
// ok-style second returns or zero-value structs as documented per
// function; only malformed inputs such as negative trial counts produce
// errors.
package stats
