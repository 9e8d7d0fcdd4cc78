package insights

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"admitpulse/internal/dataset"
	"admitpulse/internal/funnel"
	"admitpulse/internal/stats"
)

// Type is the display level of an insight.
type Type string

const (
	TypeSuccess Type = "success"
	TypeInfo    Type = "info"
	TypeWarning Type = "warning"
	TypeDanger  Type = "danger"
)

// Insight is one narrative finding about an institution.
type Insight struct {
	Type    Type           `json:"type"`
	Metric  dataset.Metric `json:"metric"`
	Message string         `json:"message"`
	Detail  string         `json:"detail,omitempty"`
}

// Thresholds tune when rules fire. Percentile cutoffs are fixed at the
// 75th and 25th; these control the year-over-year bands and the output
// cap.
type Thresholds struct {
	// DeclinePct flags enrollment shrinking faster than this, in
	// percent (negative).
	DeclinePct float64
	// GrowthPct flags enrollment growing faster than this, in percent.
	GrowthPct float64
	// MaxInsights caps the findings returned per institution.
	MaxInsights int
}

// DefaultThresholds returns the standard rule tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DeclinePct:  -5,
		GrowthPct:   10,
		MaxInsights: 6,
	}
}

// Input carries everything the rules read: the institution's fact, the
// peer percentile summaries to compare against, and the optional
// year-over-year context with its decomposition driver.
type Input struct {
	Fact    dataset.Fact
	HasFact bool

	Percentiles map[dataset.Metric]stats.Summary

	YoY           *funnel.Metrics
	PrimaryDriver string
}

// Generator evaluates the insight rules.
type Generator struct {
	thresholds Thresholds
	logger     *slog.Logger
}

// NewGenerator creates a generator. Zero-valued threshold fields fall
// back to the defaults; a nil logger defaults to the process logger.
func NewGenerator(thresholds Thresholds, logger *slog.Logger) *Generator {
	defaults := DefaultThresholds()
	if thresholds.DeclinePct == 0 {
		thresholds.DeclinePct = defaults.DeclinePct
	}
	if thresholds.GrowthPct == 0 {
		thresholds.GrowthPct = defaults.GrowthPct
	}
	if thresholds.MaxInsights <= 0 {
		thresholds.MaxInsights = defaults.MaxInsights
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{thresholds: thresholds, logger: logger}
}

// Generate runs every rule against the input and returns the findings
// that fired, capped at MaxInsights. No fact means no findings.
func (g *Generator) Generate(in Input) []Insight {
	if !in.HasFact {
		return nil
	}

	var out []Insight
	if found, ok := g.yieldRate(in); ok {
		out = append(out, found)
	}
	if found, ok := g.selectivity(in); ok {
		out = append(out, found)
	}
	out = append(out, g.enrollmentTrend(in)...)
	if found, ok := g.diversity(in); ok {
		out = append(out, found)
	}

	if len(out) > g.thresholds.MaxInsights {
		out = out[:g.thresholds.MaxInsights]
	}
	return out
}

// yieldRate fires on either tail of the peer distribution: above the
// 75th percentile is a strength, below the 25th a conversion risk. At
// most one branch fires.
func (g *Generator) yieldRate(in Input) (Insight, bool) {
	summary, ok := in.Percentiles[dataset.MetricYieldRate]
	if !ok {
		return Insight{}, false
	}
	switch {
	case in.Fact.YieldRate > summary.P75:
		return Insight{
			Type:    TypeSuccess,
			Metric:  dataset.MetricYieldRate,
			Message: fmt.Sprintf("Strong yield rate (%.1f%%) above 75th percentile (%.1f%%)", in.Fact.YieldRate, summary.P75),
			Detail:  "Indicates strong student intent and institutional attractiveness",
		}, true
	case in.Fact.YieldRate < summary.P25:
		return Insight{
			Type:    TypeWarning,
			Metric:  dataset.MetricYieldRate,
			Message: fmt.Sprintf("Yield rate (%.1f%%) below 25th percentile (%.1f%%)", in.Fact.YieldRate, summary.P25),
			Detail:  "Consider strategies to improve conversion of admitted students",
		}, true
	default:
		return Insight{}, false
	}
}

// selectivity fires when the admit rate is below the peer group's 25th
// percentile.
func (g *Generator) selectivity(in Input) (Insight, bool) {
	summary, ok := in.Percentiles[dataset.MetricAdmitRate]
	if !ok || in.Fact.AdmitRate >= summary.P25 {
		return Insight{}, false
	}
	return Insight{
		Type:    TypeInfo,
		Metric:  dataset.MetricAdmitRate,
		Message: fmt.Sprintf("High selectivity with %.1f%% admit rate", in.Fact.AdmitRate),
		Detail:  "Below 25th percentile indicates competitive admissions",
	}, true
}

// enrollmentTrend fires on enrollment moving outside the year-over-year
// bands. A decline names the decomposition driver when one is known.
func (g *Generator) enrollmentTrend(in Input) []Insight {
	if in.YoY == nil || !in.YoY.Enrolled.PctChange.Valid {
		return nil
	}
	change := in.YoY.Enrolled.PctChange.Value

	switch {
	case change < g.thresholds.DeclinePct:
		detail := "Insufficient data to compute drivers for this institution"
		if in.PrimaryDriver != "" {
			detail = fmt.Sprintf("Primary driver: %s", humanizeDriver(in.PrimaryDriver))
		}
		return []Insight{{
			Type:    TypeDanger,
			Metric:  dataset.MetricEnrolled,
			Message: fmt.Sprintf("Enrollment declined %.1f%% year-over-year", math.Abs(change)),
			Detail:  detail,
		}}
	case change > g.thresholds.GrowthPct:
		return []Insight{{
			Type:    TypeSuccess,
			Metric:  dataset.MetricEnrolled,
			Message: fmt.Sprintf("Strong enrollment growth of %.1f%% year-over-year", change),
			Detail:  "Positive momentum in student recruitment",
		}}
	default:
		return nil
	}
}

// humanizeDriver turns a driver token like "yield_rate_decrease" into
// display form ("Yield Rate Decrease").
func humanizeDriver(driver string) string {
	words := strings.Split(driver, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// diversity fires when the diversity index clears the peer group's
// 75th percentile.
func (g *Generator) diversity(in Input) (Insight, bool) {
	summary, ok := in.Percentiles[dataset.MetricDiversityIndex]
	if !ok || in.Fact.DiversityIndex <= summary.P75 {
		return Insight{}, false
	}
	return Insight{
		Type:    TypeInfo,
		Metric:  dataset.MetricDiversityIndex,
		Message: fmt.Sprintf("High diversity composition (index: %.3f)", in.Fact.DiversityIndex),
		Detail:  "Above 75th percentile relative to peers",
	}, true
}
