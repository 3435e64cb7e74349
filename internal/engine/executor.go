package engine

import (
	"census/internal/directive"
	"census/internal/models"
	"fmt"

	"go.uber.org/zap"
)

// Result is the outcome of one directive. Subset is the working subset
// after the directive: the filtered records on a successful filter, the
// input unchanged for reports and for any failure.
type Result struct {
	Directive directive.Directive
	Subset    []models.CountyRecord
	Message   string
	Err       error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// Report collects the results of a run in directive order.
type Report struct {
	Results []Result
	Final   []models.CountyRecord
}

// Failures counts the directives that did not apply.
func (r *Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Failed() {
			n++
		}
	}
	return n
}

// Executor replays directives against a store.
type Executor struct {
	store  *Store
	logger *zap.Logger
}

func NewExecutor(store *Store, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{store: store, logger: logger}
}

// Run executes directives in order, starting from the full store. A
// failed directive leaves the working subset as it was and the run
// carries on.
func (e *Executor) Run(directives []directive.Directive) *Report {
	subset := e.store.Records()
	report := &Report{Results: make([]Result, 0, len(directives))}
	for _, d := range directives {
		res := e.Execute(subset, d)
		if res.Failed() {
			e.logger.Debug("directive failed",
				zap.Int("line", d.Line),
				zap.String("directive", d.Text),
				zap.Error(res.Err))
		} else {
			subset = res.Subset
		}
		report.Results = append(report.Results, res)
	}
	report.Final = subset
	return report
}

// Execute applies one directive to subset.
func (e *Executor) Execute(subset []models.CountyRecord, d directive.Directive) Result {
	res := Result{Directive: d, Subset: subset}
	switch d.Op {
	case directive.OpDisplay:
		res.Message = formatDisplay(subset)

	case directive.OpFilterState:
		state := d.Args[0]
		res.Subset = FilterByState(subset, state)
		res.Message = fmt.Sprintf("Filter: state == %s (%d entries)", state, len(res.Subset))

	case directive.OpFilterGT, directive.OpFilterLT:
		return e.threshold(subset, d)

	case directive.OpPopulationTotal:
		res.Message = fmt.Sprintf("2014 population: %d", TotalPopulation(subset))

	case directive.OpPopulation:
		f := e.field(d)
		res.Message = fmt.Sprintf("2014 %s population: %s", f, formatFloat(SubPopulation(subset, f)))

	case directive.OpPercent:
		f := e.field(d)
		res.Message = fmt.Sprintf("2014 %s percentage: %s", f, formatFloat(PercentOfTotal(subset, f)))

	default:
		res.Err = fmt.Errorf("the operation you provided (%s) is not supported", d.Op)
	}
	return res
}

func (e *Executor) threshold(subset []models.CountyRecord, d directive.Directive) Result {
	res := Result{Directive: d, Subset: subset}
	value, err := d.Threshold()
	if err != nil {
		res.Err = err
		return res
	}
	cmp, word := AtLeast, "gt"
	if d.Op == directive.OpFilterLT {
		cmp, word = AtMost, "lt"
	}
	f := e.field(d)
	filtered, err := FilterByThreshold(subset, f, value, cmp)
	if err != nil {
		res.Err = err
		return res
	}
	res.Subset = filtered
	res.Message = fmt.Sprintf("Filter: %s %s %s (%d entries)", f, word, formatFloat(value), len(filtered))
	return res
}

// field parses the directive's field. A bare label takes the category it
// is catalogued under; failing that, the label doubles as the category,
// so a bare category name reaches its filter and fails there.
func (e *Executor) field(d directive.Directive) models.Field {
	f, err := d.Field()
	if err != nil {
		return models.Field{}
	}
	if f.Category == "" {
		if c, ok := models.Resolve(f.Label); ok {
			f.Category = c
		} else {
			f.Category = models.Category(f.Label)
			e.logger.Debug("bare label matches no catalogued field", zap.String("label", f.Label))
		}
	}
	return f
}
