// Package scenario projects enrollment under what-if funnel
// adjustments and searches for the cheapest realistic path to an
// enrollment target. Rates are percentages throughout; adjusted rates
// are clamped to [0, 100] so a simulated funnel can never admit more
// students than applied.
package scenario
