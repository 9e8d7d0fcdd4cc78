// Package insights turns an institution's metrics and peer context
// into short narrative findings. Each rule is deliberately simple (a
// percentile cutoff or a year-over-year band); the value is in
// surfacing the handful that fire, capped so a dashboard never drowns
// in them.
package insights
