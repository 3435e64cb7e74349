// Package directive turns the lines of an operations file into validated
// directives. Bad lines are reported and skipped; they never stop the batch.
package directive

import (
	"census/internal/models"
	"fmt"
	"strconv"
	"strings"
)

// Op is the operation named by the first colon-delimited token of a line.
type Op string

const (
	OpDisplay         Op = "display"
	OpFilterState     Op = "filter-state"
	OpFilterGT        Op = "filter-gt"
	OpFilterLT        Op = "filter-lt"
	OpPopulationTotal Op = "population-total"
	OpPopulation      Op = "population"
	OpPercent         Op = "percent"
)

// arity is the exact argument (colon) count for every recognised op.
var arity = map[Op]int{
	OpDisplay:         0,
	OpFilterState:     1,
	OpFilterGT:        2,
	OpFilterLT:        2,
	OpPopulationTotal: 0,
	OpPopulation:      1,
	OpPercent:         1,
}

// Arity returns the argument count of op and whether op is recognised.
func Arity(op Op) (int, bool) {
	n, ok := arity[op]
	return n, ok
}

// Directive is one accepted line.
type Directive struct {
	Op   Op
	Args []string
	Line int    // 1-based line number in the source
	Text string // trimmed source line
}

func (d Directive) String() string {
	return d.Text
}

// Field parses the field argument of population, percent and the
// threshold filters.
func (d Directive) Field() (models.Field, error) {
	switch d.Op {
	case OpPopulation, OpPercent, OpFilterGT, OpFilterLT:
		return ParseField(d.Args[0]), nil
	}
	return models.Field{}, fmt.Errorf("%s takes no field", d.Op)
}

// Threshold parses the numeric bound of a threshold filter.
func (d Directive) Threshold() (float64, error) {
	if d.Op != OpFilterGT && d.Op != OpFilterLT {
		return 0, fmt.Errorf("%s takes no threshold", d.Op)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(d.Args[1]), 64)
	if err != nil {
		return 0, fmt.Errorf("could not convert %q to a number: %w", d.Args[1], err)
	}
	return v, nil
}

// ParseField splits "Category.Label" on the first dot. A bare label keeps
// an empty category; the executor resolves it against the catalogue.
func ParseField(arg string) models.Field {
	f := models.Field{Raw: arg, Label: arg}
	if cat, label, found := strings.Cut(arg, "."); found {
		f.Category = models.Category(cat)
		f.Label = label
	}
	return f
}

// Catalogued reports whether f names a field the store can carry.
func Catalogued(f models.Field) bool {
	if f.Category == "" {
		_, ok := models.Resolve(f.Label)
		return ok
	}
	return models.Known(f.Category, f.Label)
}
