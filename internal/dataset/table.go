package dataset

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"admitpulse/internal/stats"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Options configures table ingestion.
type Options struct {
	// ShareScale declares the scale of incoming demographic shares.
	// The zero value is ScaleAuto.
	ShareScale ShareScale
}

type factKey struct {
	unitID int
	year   int
}

// Table is an immutable, validated institution-year fact table. All
// derived fields are computed once during construction; query methods
// return views that must not be mutated by callers.
type Table struct {
	version uuid.UUID
	facts   []Fact
	byYear  map[int][]int
	byKey   map[factKey]int
	byUnit  map[int][]int
}

// NewTable validates and ingests the supplied facts. Every record is
// checked (fail fast with a field-specific error), demographic shares
// are normalized to the 0-1 scale at this single boundary, and the
// derived rate, leakage, and diversity fields are computed. The input
// slice is copied; the caller's data is never retained or mutated.
func NewTable(facts []Fact, opts Options) (*Table, error) {
	t := &Table{
		version: uuid.New(),
		facts:   make([]Fact, 0, len(facts)),
		byYear:  make(map[int][]int),
		byKey:   make(map[factKey]int),
		byUnit:  make(map[int][]int),
	}

	for i, f := range facts {
		ingested, err := ingestFact(f, opts.ShareScale)
		if err != nil {
			return nil, fmt.Errorf("ingest fact %d (%s, %d): %w", i, f.Name, f.Year, err)
		}

		key := factKey{unitID: ingested.UnitID, year: ingested.Year}
		if _, dup := t.byKey[key]; dup {
			return nil, ValidationError{
				Field:   "unit_id",
				Message: fmt.Sprintf("duplicate record for institution %d in year %d", ingested.UnitID, ingested.Year),
				Value:   ingested.UnitID,
			}
		}

		idx := len(t.facts)
		t.facts = append(t.facts, ingested)
		t.byKey[key] = idx
		t.byYear[ingested.Year] = append(t.byYear[ingested.Year], idx)
		t.byUnit[ingested.UnitID] = append(t.byUnit[ingested.UnitID], idx)
	}

	// Keep per-institution rows in year order for YoY walks.
	for unitID := range t.byUnit {
		indexes := t.byUnit[unitID]
		sort.Slice(indexes, func(i, j int) bool {
			return t.facts[indexes[i]].Year < t.facts[indexes[j]].Year
		})
	}

	return t, nil
}

// ingestFact validates one record, normalizes its shares, and fills the
// derived fields.
func ingestFact(f Fact, scale ShareScale) (Fact, error) {
	if err := validate.Struct(f); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return Fact{}, ValidationError{
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
				Value:   fe.Value(),
			}
		}
		return Fact{}, err
	}

	if len(f.Shares) > 0 {
		normalized := make(map[string]float64, len(f.Shares))
		for group, value := range f.Shares {
			nv, err := normalizeShare(value, scale)
			if err != nil {
				return Fact{}, fmt.Errorf("share %q: %w", group, err)
			}
			normalized[group] = nv
		}
		f.Shares = normalized
	}

	f.AdmitRate = safeRate(f.Admitted, f.Applicants)
	f.YieldRate = safeRate(f.Enrolled, f.Admitted)
	f.OverallConversion = safeRate(f.Enrolled, f.Applicants)
	f.DiversityIndex = stats.DiversityIndex(f.ShareValues())
	f.LeakageStage1 = f.Applicants - f.Admitted
	f.LeakageStage2 = f.Admitted - f.Enrolled

	return f, nil
}

// safeRate returns numerator/denominator as a percentage, 0 by
// convention when the denominator is 0.
func safeRate(numerator, denominator int) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

// Version identifies this exact ingested dataset. Derived-result caches
// key on it so a reloaded table never serves stale entries.
func (t *Table) Version() uuid.UUID {
	return t.version
}

// Len returns the number of fact rows.
func (t *Table) Len() int {
	return len(t.facts)
}

// Facts returns all fact rows in ingestion order.
func (t *Table) Facts() []Fact {
	out := make([]Fact, len(t.facts))
	copy(out, t.facts)
	return out
}

// Year returns the facts for a single year, in ingestion order.
func (t *Table) Year(year int) []Fact {
	indexes := t.byYear[year]
	out := make([]Fact, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, t.facts[idx])
	}
	return out
}

// Years returns the distinct years present, ascending.
func (t *Table) Years() []int {
	years := make([]int, 0, len(t.byYear))
	for y := range t.byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Get returns the fact for one institution-year, if present.
func (t *Table) Get(unitID, year int) (Fact, bool) {
	idx, ok := t.byKey[factKey{unitID: unitID, year: year}]
	if !ok {
		return Fact{}, false
	}
	return t.facts[idx], true
}

// Institution returns all years of one institution, ascending by year.
func (t *Table) Institution(unitID int) []Fact {
	indexes := t.byUnit[unitID]
	out := make([]Fact, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, t.facts[idx])
	}
	return out
}

// UnitIDs returns the distinct institution identifiers present for a
// year, in ingestion order.
func (t *Table) UnitIDs(year int) []int {
	indexes := t.byYear[year]
	ids := make([]int, 0, len(indexes))
	for _, idx := range indexes {
		ids = append(ids, t.facts[idx].UnitID)
	}
	return ids
}

// Filter narrows the fact rows by the given criteria. Nil or empty
// slices leave that dimension unfiltered.
type Filter struct {
	Years     []int
	Regions   []string
	States    []string
	SizeBands []string
	Names     []string
}

// Select returns the facts matching every populated filter dimension.
func (t *Table) Select(f Filter) []Fact {
	years := intSet(f.Years)
	regions := stringSet(f.Regions)
	states := stringSet(f.States)
	sizes := stringSet(f.SizeBands)
	names := stringSet(f.Names)

	var out []Fact
	for _, fact := range t.facts {
		if years != nil && !years[fact.Year] {
			continue
		}
		if regions != nil && !regions[fact.Region] {
			continue
		}
		if states != nil && !states[fact.State] {
			continue
		}
		if sizes != nil && !sizes[fact.SizeBand] {
			continue
		}
		if names != nil && !names[fact.Name] {
			continue
		}
		out = append(out, fact)
	}
	return out
}

func intSet(values []int) map[int]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[int]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func stringSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
