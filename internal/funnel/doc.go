// Package funnel computes admissions funnel dynamics on top of the
// dataset fact table: year-over-year movement, stage leakage, and the
// multiplicative decomposition that attributes an enrollment change to
// its applicant-volume, admit-rate, and yield-rate components.
//
// Quantities that can be absent (a percentage change over a zero base,
// a prior year that was never recorded) are modeled with Delta's Valid
// flag or an ok-style second return rather than NaN or magic zeros.
package funnel
