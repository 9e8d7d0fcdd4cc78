package peers

import (
	"fmt"
	"log/slog"
	"sort"

	"admitpulse/internal/dataset"
	"admitpulse/internal/similarity"
)

// Mode selects the peer group construction strategy.
type Mode string

const (
	ModeNational       Mode = "national"
	ModeSameRegion     Mode = "same_region"
	ModeSameState      Mode = "same_state"
	ModeSameSize       Mode = "same_size"
	ModeTopNApplicants Mode = "top_n_applicants"
	ModeSimilar        Mode = "similar"
)

// Modes lists every supported peer group mode.
var Modes = []Mode{
	ModeNational,
	ModeSameRegion,
	ModeSameState,
	ModeSameSize,
	ModeTopNApplicants,
	ModeSimilar,
}

// Selector assembles peer groups within a year cohort.
type Selector struct {
	similar *similarity.Engine
	logger  *slog.Logger
}

// NewSelector creates a peer selector. The similarity engine backs the
// similar mode; a nil logger defaults to the process logger.
func NewSelector(similar *similarity.Engine, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{similar: similar, logger: logger}
}

// Select returns the target's peer group for the given year and mode.
// The target's own fact is always part of the group when it exists.
// When the target has no fact for the year, attribute-based modes fall
// open to the national cohort rather than failing, so callers still
// get context to display. Unknown modes are a caller error.
func (s *Selector) Select(table *dataset.Table, targetID, year int, mode Mode, n int) ([]dataset.Fact, error) {
	if n <= 0 && (mode == ModeTopNApplicants || mode == ModeSimilar) {
		return nil, fmt.Errorf("peer group size must be positive for mode %q, got %d", mode, n)
	}
	cohort := table.Year(year)

	target, hasTarget := table.Get(targetID, year)
	if !hasTarget && mode != ModeNational {
		s.logger.Warn("peer target missing from cohort, falling back to national",
			slog.Int("unit_id", targetID),
			slog.Int("year", year),
			slog.String("mode", string(mode)))
		return cohort, nil
	}

	var group []dataset.Fact
	switch mode {
	case ModeNational:
		group = cohort
	case ModeSameRegion:
		group = matching(cohort, func(f dataset.Fact) bool { return f.Region == target.Region })
	case ModeSameState:
		group = matching(cohort, func(f dataset.Fact) bool { return f.State == target.State })
	case ModeSameSize:
		group = matching(cohort, func(f dataset.Fact) bool { return f.SizeBand == target.SizeBand })
	case ModeTopNApplicants:
		group = topByApplicants(cohort, n)
	case ModeSimilar:
		neighbors, err := s.similar.Neighbors(table, targetID, year, n)
		if err != nil {
			return nil, fmt.Errorf("similar peer group: %w", err)
		}
		group = make([]dataset.Fact, 0, len(neighbors))
		for _, nb := range neighbors {
			group = append(group, nb.Fact)
		}
	default:
		return nil, fmt.Errorf("unknown peer group mode %q", mode)
	}

	if hasTarget {
		group = ensureMember(group, target)
	}
	return group, nil
}

func matching(cohort []dataset.Fact, keep func(dataset.Fact) bool) []dataset.Fact {
	var out []dataset.Fact
	for _, f := range cohort {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// topByApplicants returns the n largest institutions by applicant
// volume, ties broken by unit id for determinism.
func topByApplicants(cohort []dataset.Fact, n int) []dataset.Fact {
	sorted := append([]dataset.Fact(nil), cohort...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Applicants != sorted[j].Applicants {
			return sorted[i].Applicants > sorted[j].Applicants
		}
		return sorted[i].UnitID < sorted[j].UnitID
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// ensureMember appends the target unless the group already holds it.
func ensureMember(group []dataset.Fact, target dataset.Fact) []dataset.Fact {
	for _, f := range group {
		if f.UnitID == target.UnitID {
			return group
		}
	}
	return append(group, target)
}
