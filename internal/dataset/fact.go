package dataset

import (
	"fmt"
	"math"
)

// Canonical demographic share groups carried on each fact. Loaders may
// supply any subset; missing groups simply do not contribute to the
// diversity index.
const (
	ShareHispanic    = "hispanic"
	ShareWhite       = "white"
	ShareBlack       = "black"
	ShareAsian       = "asian"
	ShareOther       = "other"
	ShareNonResident = "nonresident"
)

// ShareGroups lists the canonical groups in display order.
var ShareGroups = []string{
	ShareHispanic,
	ShareWhite,
	ShareBlack,
	ShareAsian,
	ShareOther,
	ShareNonResident,
}

// Fact is one institution-year admissions funnel record. Counts and
// categorical attributes are supplied by the loader; rate, leakage, and
// diversity fields are derived during ingestion and should not be set
// by callers. Shares hold demographic fractions on the 0-1 scale after
// ingestion, regardless of the scale they arrived in.
type Fact struct {
	UnitID     int    `json:"unit_id" validate:"gt=0"`
	Name       string `json:"name" validate:"required"`
	Year       int    `json:"year" validate:"gt=0"`
	Applicants int    `json:"applicants" validate:"gte=0"`
	Admitted   int    `json:"admitted" validate:"gte=0"`
	Enrolled   int    `json:"enrolled" validate:"gte=0"`

	State    string `json:"state"`
	Region   string `json:"region"`
	City     string `json:"city"`
	SizeBand string `json:"size_band"`

	Shares map[string]float64 `json:"shares"`

	// Derived at ingestion. Rates are percentages (0-100) and default
	// to 0 when the denominator is 0.
	AdmitRate         float64 `json:"admit_rate"`
	YieldRate         float64 `json:"yield_rate"`
	OverallConversion float64 `json:"overall_conversion"`
	DiversityIndex    float64 `json:"diversity_index"`
	LeakageStage1     int     `json:"leakage_stage1"`
	LeakageStage2     int     `json:"leakage_stage2"`
}

// ShareValues returns the fact's demographic shares in canonical group
// order, skipping groups the fact does not carry.
func (f Fact) ShareValues() []float64 {
	values := make([]float64, 0, len(ShareGroups))
	for _, group := range ShareGroups {
		if v, ok := f.Shares[group]; ok {
			values = append(values, v)
		}
	}
	return values
}

// Metric names a numeric column of the fact table, as used by the peer
// statistics and similarity components.
type Metric string

const (
	MetricApplicants        Metric = "applicants"
	MetricAdmitted          Metric = "admitted"
	MetricEnrolled          Metric = "enrolled"
	MetricAdmitRate         Metric = "admit_rate"
	MetricYieldRate         Metric = "yield_rate"
	MetricOverallConversion Metric = "overall_conversion"
	MetricDiversityIndex    Metric = "diversity_index"
)

// Value extracts the metric from a fact. The second return is false for
// unknown metric names.
func (m Metric) Value(f Fact) (float64, bool) {
	switch m {
	case MetricApplicants:
		return float64(f.Applicants), true
	case MetricAdmitted:
		return float64(f.Admitted), true
	case MetricEnrolled:
		return float64(f.Enrolled), true
	case MetricAdmitRate:
		return f.AdmitRate, true
	case MetricYieldRate:
		return f.YieldRate, true
	case MetricOverallConversion:
		return f.OverallConversion, true
	case MetricDiversityIndex:
		return f.DiversityIndex, true
	default:
		return 0, false
	}
}

// ShareScale declares the scale demographic shares arrive in. It is set
// once per ingestion; per-value guessing at call sites is deliberately
// not supported.
type ShareScale int

const (
	// ScaleAuto treats any share value greater than 1 as a percentage.
	// The heuristic runs exactly once, at ingestion, and misreads a
	// legitimate fraction above 1 only if the loader mixed scales
	// within a row; prefer the explicit scales when the source is known.
	ScaleAuto ShareScale = iota
	// ScaleFraction declares shares already on the 0-1 scale.
	ScaleFraction
	// ScalePercent declares shares on the 0-100 scale.
	ScalePercent
)

// String returns the scale name.
func (s ShareScale) String() string {
	switch s {
	case ScaleAuto:
		return "auto"
	case ScaleFraction:
		return "fraction"
	case ScalePercent:
		return "percent"
	default:
		return "unknown"
	}
}

// ValidationError reports a single malformed field in an ingested
// record.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// normalizeShare converts a single share value to the 0-1 scale.
func normalizeShare(value float64, scale ShareScale) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ValidationError{Field: "shares", Message: "share value must be finite", Value: value}
	}
	if value < 0 {
		return 0, ValidationError{Field: "shares", Message: "share value must be non-negative", Value: value}
	}

	switch scale {
	case ScaleFraction:
		if value > 1 {
			return 0, ValidationError{Field: "shares", Message: "fraction-scale share exceeds 1", Value: value}
		}
		return value, nil
	case ScalePercent:
		if value > 100 {
			return 0, ValidationError{Field: "shares", Message: "percent-scale share exceeds 100", Value: value}
		}
		return value / 100, nil
	case ScaleAuto:
		if value > 100 {
			return 0, ValidationError{Field: "shares", Message: "share exceeds 100", Value: value}
		}
		if value > 1 {
			return value / 100, nil
		}
		return value, nil
	default:
		return 0, ValidationError{Field: "shares", Message: "unknown share scale", Value: scale}
	}
}
