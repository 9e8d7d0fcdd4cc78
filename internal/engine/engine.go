package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"admitpulse/internal/config"
	"admitpulse/internal/dataset"
	"admitpulse/internal/funnel"
	"admitpulse/internal/insights"
	"admitpulse/internal/peers"
	"admitpulse/internal/scenario"
	"admitpulse/internal/similarity"
	"admitpulse/internal/stats"
)

// ErrInstitutionNotFound is returned when the requested institution
// has no fact for the requested year.
var ErrInstitutionNotFound = errors.New("institution not found for year")

// BenchmarkMetrics are the columns summarized for every peer group.
var BenchmarkMetrics = []dataset.Metric{
	dataset.MetricApplicants,
	dataset.MetricAdmitted,
	dataset.MetricEnrolled,
	dataset.MetricAdmitRate,
	dataset.MetricYieldRate,
	dataset.MetricOverallConversion,
	dataset.MetricDiversityIndex,
}

// Engine composes the analytics components.
type Engine struct {
	cfg      config.EngineConfig
	logger   *slog.Logger
	similar  *similarity.Engine
	selector *peers.Selector
	insights *insights.Generator
}

// New builds an engine from the given configuration. A nil logger
// defaults to the process logger.
func New(cfg *config.Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	similar := similarity.NewEngine(logger)
	return &Engine{
		cfg:      cfg.Engine,
		logger:   logger,
		similar:  similar,
		selector: peers.NewSelector(similar, logger),
		insights: insights.NewGenerator(insights.Thresholds{
			DeclinePct:  cfg.Engine.DeclineAlertPct,
			GrowthPct:   cfg.Engine.GrowthAlertPct,
			MaxInsights: cfg.Engine.MaxInsights,
		}, logger),
	}
}

// Profile is one institution's standalone analytical view for a year.
// YoY and Decomposition are nil when no prior-year fact exists.
type Profile struct {
	Fact dataset.Fact `json:"fact"`

	AdmitCI stats.Interval `json:"admit_ci"`
	YieldCI stats.Interval `json:"yield_ci"`

	Leakage funnel.LeakageBreakdown `json:"leakage"`

	YoY           *funnel.Metrics       `json:"yoy,omitempty"`
	Decomposition *funnel.Decomposition `json:"decomposition,omitempty"`
}

// Profile assembles the institution's funnel view for a year.
func (e *Engine) Profile(ctx context.Context, table *dataset.Table, unitID, year int) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	fact, ok := table.Get(unitID, year)
	if !ok {
		return Profile{}, fmt.Errorf("%w: unit %d, year %d", ErrInstitutionNotFound, unitID, year)
	}
	e.logger.DebugContext(ctx, "building profile",
		slog.Int("unit_id", unitID),
		slog.Int("year", year))

	conf := stats.Confidence(e.cfg.Confidence)
	admitCI, err := stats.WilsonInterval(fact.Admitted, fact.Applicants, conf)
	if err != nil {
		return Profile{}, fmt.Errorf("admit rate interval: %w", err)
	}
	yieldCI, err := stats.WilsonInterval(fact.Enrolled, fact.Admitted, conf)
	if err != nil {
		return Profile{}, fmt.Errorf("yield rate interval: %w", err)
	}

	p := Profile{
		Fact:    fact,
		AdmitCI: admitCI,
		YieldCI: yieldCI,
		Leakage: funnel.Leakage(fact),
	}

	history := table.Institution(unitID)
	if yoy, ok := funnel.YoYMetrics(history, year); ok && yoy.HasPrior {
		p.YoY = &yoy
	}
	if prior, ok := table.Get(unitID, year-1); ok {
		d, err := funnel.Decompose(
			funnel.Period{Applicants: prior.Applicants, AdmitRate: prior.AdmitRate, YieldRate: prior.YieldRate},
			funnel.Period{Applicants: fact.Applicants, AdmitRate: fact.AdmitRate, YieldRate: fact.YieldRate},
		)
		if err != nil {
			return Profile{}, fmt.Errorf("enrollment decomposition: %w", err)
		}
		p.Decomposition = &d
	}

	return p, nil
}

// Benchmark compares one institution against a peer group. HasTarget
// is false when the institution has no fact for the year; the group
// context is still returned so callers can render something useful.
type Benchmark struct {
	Target    dataset.Fact `json:"target"`
	HasTarget bool         `json:"has_target"`

	Group []dataset.Fact `json:"group"`

	Stats    stats.Descriptive `json:"stats"`
	HasStats bool              `json:"has_stats"`

	Rank    stats.RankResult `json:"rank"`
	HasRank bool             `json:"has_rank"`

	Percentiles map[dataset.Metric]stats.Summary `json:"percentiles"`

	Insights []insights.Insight `json:"insights"`
}

// Benchmark builds the peer comparison for one institution, ranking it
// on the given metric. A non-positive group size falls back to the
// configured default.
func (e *Engine) Benchmark(ctx context.Context, table *dataset.Table, unitID, year int, mode peers.Mode, n int, metric dataset.Metric) (Benchmark, error) {
	if err := ctx.Err(); err != nil {
		return Benchmark{}, err
	}
	if n <= 0 {
		if mode == peers.ModeSimilar {
			n = e.cfg.DefaultNeighbors
		} else {
			n = e.cfg.DefaultPeerGroupSize
		}
	}

	group, err := e.selector.Select(table, unitID, year, mode, n)
	if err != nil {
		return Benchmark{}, fmt.Errorf("select peer group: %w", err)
	}

	b := Benchmark{
		Group:       group,
		Percentiles: peers.PercentileSummaries(group, BenchmarkMetrics),
	}
	b.Target, b.HasTarget = table.Get(unitID, year)
	b.Stats, b.HasStats = peers.Statistics(group, metric)

	if b.HasTarget {
		if value, ok := metric.Value(b.Target); ok {
			b.Rank, b.HasRank = stats.RankAndPercentile(value, peers.MetricValues(group, metric))
		}
	}

	b.Insights = e.insights.Generate(e.insightInput(table, b, unitID, year))
	return b, nil
}

// insightInput gathers the year-over-year context the insight rules
// read alongside the benchmark itself.
func (e *Engine) insightInput(table *dataset.Table, b Benchmark, unitID, year int) insights.Input {
	in := insights.Input{
		Fact:        b.Target,
		HasFact:     b.HasTarget,
		Percentiles: b.Percentiles,
	}
	if !b.HasTarget {
		return in
	}

	history := table.Institution(unitID)
	if yoy, ok := funnel.YoYMetrics(history, year); ok && yoy.HasPrior {
		in.YoY = &yoy
	}
	if prior, ok := table.Get(unitID, year-1); ok {
		d, err := funnel.Decompose(
			funnel.Period{Applicants: prior.Applicants, AdmitRate: prior.AdmitRate, YieldRate: prior.YieldRate},
			funnel.Period{Applicants: b.Target.Applicants, AdmitRate: b.Target.AdmitRate, YieldRate: b.Target.YieldRate},
		)
		if err == nil {
			in.PrimaryDriver = d.PrimaryDriver
		}
	}
	return in
}

// BenchmarkAll benchmarks every institution in the year cohort,
// bounded by the configured concurrency. Results are keyed by unit id.
func (e *Engine) BenchmarkAll(ctx context.Context, table *dataset.Table, year int, mode peers.Mode, n int, metric dataset.Metric) (map[int]Benchmark, error) {
	unitIDs := table.UnitIDs(year)
	results := make([]Benchmark, len(unitIDs))

	e.logger.InfoContext(ctx, "benchmarking cohort",
		slog.Int("year", year),
		slog.String("mode", string(mode)),
		slog.Int("institutions", len(unitIDs)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrency)

	for i, unitID := range unitIDs {
		i, unitID := i, unitID
		g.Go(func() error {
			b, err := e.Benchmark(ctx, table, unitID, year, mode, n, metric)
			if err != nil {
				return fmt.Errorf("benchmark unit %d: %w", unitID, err)
			}
			results[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int]Benchmark, len(unitIDs))
	for i, unitID := range unitIDs {
		out[unitID] = results[i]
	}
	return out, nil
}

// Simulate projects enrollment under the given funnel adjustment.
func (e *Engine) Simulate(base scenario.Baseline, adj scenario.Adjustment) (scenario.Projection, error) {
	return scenario.Simulate(base, adj)
}

// GoalSeek plans a path to the enrollment target under the configured
// realism bounds.
func (e *Engine) GoalSeek(base scenario.Baseline, targetEnrolled int) (scenario.Plan, error) {
	return scenario.GoalSeek(base, targetEnrolled, scenario.Bounds{
		MaxRateLiftPP:         e.cfg.MaxRateLiftPP,
		MaxApplicantGrowthPct: e.cfg.MaxApplicantGrowthPct,
	})
}

// SimulateFromFact seeds a scenario baseline from an ingested fact.
func SimulateFromFact(f dataset.Fact) scenario.Baseline {
	return scenario.Baseline{
		Applicants: f.Applicants,
		AdmitRate:  f.AdmitRate,
		YieldRate:  f.YieldRate,
	}
}
