package similarity

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"admitpulse/internal/dataset"
)

// Features compared when measuring institutional similarity, in vector
// order.
var featureMetrics = []dataset.Metric{
	dataset.MetricApplicants,
	dataset.MetricAdmitRate,
	dataset.MetricYieldRate,
	dataset.MetricEnrolled,
	dataset.MetricDiversityIndex,
}

// Neighbor is one similar institution with its distance in
// standardized feature space. The fact row is carried so callers can
// show raw values without a second table lookup.
type Neighbor struct {
	UnitID   int          `json:"unit_id"`
	Name     string       `json:"name"`
	Distance float64      `json:"distance"`
	Fact     dataset.Fact `json:"fact"`
}

type cacheKey struct {
	version  uuid.UUID
	targetID int
	year     int
	k        int
}

// Engine computes and caches nearest-neighbor lookups. Safe for
// concurrent use.
type Engine struct {
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey][]Neighbor
}

// NewEngine creates a similarity engine. A nil logger defaults to the
// process logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger,
		cache:  make(map[cacheKey][]Neighbor),
	}
}

// Neighbors returns the k institutions closest to the target within
// its year cohort, ascending by distance. A non-positive k is a caller
// error; a target absent from the cohort returns an empty result with
// no error so callers can degrade gracefully. k is capped at the
// cohort size minus the target itself.
func (e *Engine) Neighbors(table *dataset.Table, targetID, year, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("neighbor count must be positive, got %d", k)
	}

	key := cacheKey{version: table.Version(), targetID: targetID, year: year, k: k}
	e.mu.RLock()
	cached, ok := e.cache[key]
	e.mu.RUnlock()
	if ok {
		return append([]Neighbor(nil), cached...), nil
	}

	neighbors := e.compute(table, targetID, year, k)

	e.mu.Lock()
	e.cache[key] = neighbors
	e.mu.Unlock()

	return append([]Neighbor(nil), neighbors...), nil
}

func (e *Engine) compute(table *dataset.Table, targetID, year, k int) []Neighbor {
	cohort := table.Year(year)

	targetIdx := -1
	for i, f := range cohort {
		if f.UnitID == targetID {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		e.logger.Debug("similarity target not in cohort",
			slog.Int("unit_id", targetID),
			slog.Int("year", year))
		return []Neighbor{}
	}
	if len(cohort) < 2 {
		return []Neighbor{}
	}

	vectors := standardize(cohort)
	target := vectors[targetIdx]

	neighbors := make([]Neighbor, 0, len(cohort)-1)
	for i, f := range cohort {
		if i == targetIdx {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			UnitID:   f.UnitID,
			Name:     f.Name,
			Distance: floats.Distance(target, vectors[i], 2),
			Fact:     f,
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].UnitID < neighbors[j].UnitID
	})

	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k]
}

// standardize z-scores each feature across the cohort. A feature with
// zero spread contributes zeros, so it drops out of every distance
// instead of producing NaN.
func standardize(cohort []dataset.Fact) [][]float64 {
	columns := make([][]float64, len(featureMetrics))
	for c, metric := range featureMetrics {
		column := make([]float64, len(cohort))
		for i, f := range cohort {
			v, _ := metric.Value(f)
			column[i] = v
		}
		mean := stat.Mean(column, nil)
		std := stat.StdDev(column, nil)
		for i := range column {
			if std > 0 {
				column[i] = (column[i] - mean) / std
			} else {
				column[i] = 0
			}
		}
		columns[c] = column
	}

	vectors := make([][]float64, len(cohort))
	for i := range cohort {
		vec := make([]float64, len(featureMetrics))
		for c := range featureMetrics {
			vec[c] = columns[c][i]
		}
		vectors[i] = vec
	}
	return vectors
}
