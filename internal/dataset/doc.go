// Package dataset defines the canonical institution-year fact table the
// analytics engine computes over.
//
// A Fact is one institution's admissions funnel for one year: raw
// applicant/admitted/enrolled counts, categorical attributes (state,
// region, size band), demographic shares, and the derived rates and
// diversity index. Facts are validated once at ingestion through
// NewTable, which is the single boundary where demographic share scale
// (percent vs fraction) is normalized; downstream packages read
// strongly typed fields and never re-interpret scale.
//
// A Table is immutable after construction and carries a version
// identifier so derived results (for example cached similarity
// lookups) can be keyed to the exact dataset they were computed from.
// The table never retains or mutates the caller's input slice.
package dataset
