package engine

import (
	"census/internal/models"
	"fmt"
	"sort"
)

// Comparator selects the side of a threshold filter. Both sides are
// inclusive: a record exactly on the bound is kept by either.
type Comparator int

const (
	AtLeast Comparator = iota // value >= threshold
	AtMost                    // value <= threshold
)

func (c Comparator) keep(v, threshold float64) bool {
	if c == AtLeast {
		return v >= threshold
	}
	return v <= threshold
}

// FieldNotFoundError is returned by threshold filters when a record does
// not carry the requested field.
type FieldNotFoundError struct {
	County string
	State  string
	Field  models.Field
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found for %s, %s", e.Field.Label, e.County, e.State)
}

// TotalPopulation sums the 2014 population of subset.
func TotalPopulation(subset []models.CountyRecord) int {
	total := 0
	for _, r := range subset {
		total += r.Population2014()
	}
	return total
}

// FilterByState keeps the records whose state matches exactly.
func FilterByState(subset []models.CountyRecord, state string) []models.CountyRecord {
	out := []models.CountyRecord{}
	for _, r := range subset {
		if r.State == state {
			out = append(out, r)
		}
	}
	return out
}

// routed reports whether f is one of the fields the library computes
// over: any Education or Ethnicities label, or the poverty level.
func routed(f models.Field) bool {
	switch f.Category {
	case models.CategoryEducation, models.CategoryEthnicities:
		return true
	case models.CategoryIncome:
		return f.Label == models.LabelBelowPoverty
	}
	return false
}

// SubPopulation estimates how many people fall in f across subset.
// Records without the field add nothing, and fields the library does not
// route yield 0.
func SubPopulation(subset []models.CountyRecord, f models.Field) float64 {
	if !routed(f) {
		return 0
	}
	var n float64
	for _, r := range subset {
		pct, ok := r.Values(f.Category)[f.Label]
		if !ok {
			continue
		}
		n += pct / 100 * float64(r.Population2014())
	}
	return n
}

// PercentOfTotal is SubPopulation as a share of TotalPopulation, or 0 for
// an empty population.
func PercentOfTotal(subset []models.CountyRecord, f models.Field) float64 {
	total := TotalPopulation(subset)
	if total == 0 {
		return 0
	}
	return SubPopulation(subset, f) / float64(total) * 100
}

// FilterByThreshold keeps the records whose value for f satisfies cmp.
// Unlike the aggregates, a missing field is an error. Fields the library
// does not route leave subset as it is.
func FilterByThreshold(subset []models.CountyRecord, f models.Field, threshold float64, cmp Comparator) ([]models.CountyRecord, error) {
	if !routed(f) {
		return subset, nil
	}
	out := []models.CountyRecord{}
	for _, r := range subset {
		v, ok := r.Values(f.Category)[f.Label]
		if !ok {
			return nil, &FieldNotFoundError{County: r.County, State: r.State, Field: f}
		}
		if cmp.keep(v, threshold) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Summarize builds the per-state table, largest population first.
func (s *Store) Summarize() *models.Summary {
	byState := make(map[string][]models.CountyRecord)
	var order []string
	for _, r := range s.records {
		if _, seen := byState[r.State]; !seen {
			order = append(order, r.State)
		}
		byState[r.State] = append(byState[r.State], r)
	}

	poverty := models.Field{Category: models.CategoryIncome, Label: models.LabelBelowPoverty}
	bachelors := models.Field{Category: models.CategoryEducation, Label: models.LabelBachelors}

	data := &models.Summary{
		Counties:   len(s.records),
		Population: TotalPopulation(s.records),
		States:     make([]models.StateStat, 0, len(order)),
	}
	for _, st := range order {
		counties := byState[st]
		data.States = append(data.States, models.StateStat{
			State:            st,
			Counties:         len(counties),
			Population:       TotalPopulation(counties),
			PovertyPercent:   PercentOfTotal(counties, poverty),
			BachelorsPercent: PercentOfTotal(counties, bachelors),
		})
	}
	sort.SliceStable(data.States, func(i, j int) bool { return data.States[i].Population > data.States[j].Population })
	return data
}
