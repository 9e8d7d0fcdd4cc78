// Package similarity finds an institution's nearest statistical
// neighbors within a year cohort. Features are z-scored across the
// cohort so count-scale and rate-scale dimensions weigh equally, and
// distances are Euclidean in that standardized space.
//
// Lookups are cached per (table version, target, year, k); a rebuilt
// table carries a fresh version, so stale entries are never served.
package similarity
