package engine

import (
	"census/internal/models"
	"fmt"
)

type countyKey struct {
	county string
	state  string
}

// Store holds every county record, in load order. It is read-only once
// built and may be shared between runs.
type Store struct {
	records []models.CountyRecord
	index   map[countyKey]int
}

// NewStore indexes records by (county, state). Duplicate keys are rejected.
func NewStore(records []models.CountyRecord) (*Store, error) {
	s := &Store{
		records: make([]models.CountyRecord, len(records)),
		index:   make(map[countyKey]int, len(records)),
	}
	for i, r := range records {
		k := countyKey{r.County, r.State}
		if prev, dup := s.index[k]; dup {
			return nil, fmt.Errorf("duplicate county %s, %s (records %d and %d)", r.County, r.State, prev, i)
		}
		s.index[k] = i
		s.records[i] = r
	}
	return s, nil
}

// Len returns the number of counties.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns the full table as a fresh slice; callers may reslice it
// freely without touching the store.
func (s *Store) Records() []models.CountyRecord {
	out := make([]models.CountyRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup finds one county.
func (s *Store) Lookup(county, state string) (models.CountyRecord, bool) {
	i, ok := s.index[countyKey{county, state}]
	if !ok {
		return models.CountyRecord{}, false
	}
	return s.records[i], true
}
