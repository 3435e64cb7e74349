package engine

import (
	"census/internal/models"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	columnCounty = "County"
	columnState  = "State"
)

// column maps one CSV column onto a record field.
type column struct {
	index    int
	category models.Category
	label    string
}

// LoadCSV reads the county table at path.
func LoadCSV(path string, logger *zap.Logger) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open county data: %w", err)
	}
	defer f.Close()
	return Load(f, logger)
}

// Load reads a county table. The header names County, State and any
// number of Category.Label columns; columns outside the catalogue are
// skipped.
func Load(r io.Reader, logger *zap.Logger) (*Store, error) {
	start := time.Now()
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// A. Header
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("county data is empty")
	} else if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	countyIdx, stateIdx, cols, skipped := mapHeader(header)
	if countyIdx < 0 || stateIdx < 0 {
		return nil, fmt.Errorf("header must contain %q and %q columns", columnCounty, columnState)
	}
	if len(skipped) > 0 {
		logger.Debug("skipping uncatalogued columns", zap.Strings("columns", skipped))
	}

	// B. Rows
	var records []models.CountyRecord
	for row := 1; ; row++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}
		rec, err := buildRecord(fields, countyIdx, stateIdx, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		records = append(records, rec)
	}

	store, err := NewStore(records)
	if err != nil {
		return nil, err
	}
	logger.Info("county data loaded", zap.Int("counties", store.Len()), zap.Duration("took", time.Since(start)))
	return store, nil
}

func mapHeader(header []string) (countyIdx, stateIdx int, cols []column, skipped []string) {
	countyIdx, stateIdx = -1, -1
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch name {
		case columnCounty:
			countyIdx = i
			continue
		case columnState:
			stateIdx = i
			continue
		}
		cat, label, found := strings.Cut(name, ".")
		if !found || !models.Known(models.Category(cat), label) {
			skipped = append(skipped, name)
			continue
		}
		cols = append(cols, column{index: i, category: models.Category(cat), label: label})
	}
	return countyIdx, stateIdx, cols, skipped
}

func buildRecord(fields []string, countyIdx, stateIdx int, cols []column) (models.CountyRecord, error) {
	rec := models.CountyRecord{
		County:      fields[countyIdx],
		State:       fields[stateIdx],
		Population:  map[string]int{},
		Education:   map[string]float64{},
		Ethnicities: map[string]float64{},
		Income:      map[string]float64{},
		Age:         map[string]float64{},
	}
	for _, c := range cols {
		raw := strings.TrimSpace(fields[c.index])
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rec, fmt.Errorf("column %s.%s: non-numeric value %q", c.category, c.label, raw)
		}
		if c.category == models.CategoryPopulation {
			rec.Population[c.label] = int(math.Round(v))
			continue
		}
		rec.Values(c.category)[c.label] = v
	}
	return rec, nil
}
