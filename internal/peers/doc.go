// Package peers builds comparison groups around a target institution
// and summarizes metrics across them. Group membership can be
// geographic, size-based, popularity-based, or driven by the
// similarity engine; the target is always part of its own group so
// ranks and percentiles are computed against a population that
// contains it.
package peers
