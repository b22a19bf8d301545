package report

import (
	"fmt"

	"github.com/aevon-lab/aevon-consumption/internal/core/consumption"
	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/shopspring/decimal"
)

const (
	KindCurrentSum  = "current_sum"
	KindPreviousSum = "previous_sum"
	KindAverage     = "average"
)

// Records is the data a report is evaluated over. Days may be nil when no
// report reads day-grained records.
type Records struct {
	Years *measurement.Aggregates[measurement.YearRecord]
	Days  *measurement.Aggregates[measurement.DayRecord]
}

// Result is the evaluated value of one report.
type Result struct {
	Name            string             `json:"name"`
	Kind            string             `json:"kind"`
	Unit            period.Unit        `json:"unit"`
	ToNow           bool               `json:"to_now"`
	Period          *period.Period     `json:"period,omitempty"`
	Value           decimal.Decimal    `json:"value"`
	Samples         *consumption.Tally `json:"samples,omitempty"`
	Windows         int                `json:"windows,omitempty"`
	CompleteWindows int                `json:"complete_windows,omitempty"`
	Fingerprint     string             `json:"fingerprint"`
}

// Evaluator computes one kind of report.
// To add a new kind: implement Evaluator and register it in Kinds.
type Evaluator interface {
	Evaluate(calc *consumption.Calculator, rep Report, recs Records) (Result, error)
}

// Kinds is the registry of supported report kinds.
var Kinds = map[string]Evaluator{
	KindCurrentSum:  currentSum{},
	KindPreviousSum: previousSum{},
	KindAverage:     average{},
}

// ValidKind reports whether kind is a registered report kind.
func ValidKind(kind string) bool {
	_, ok := Kinds[kind]
	return ok
}

// Evaluate runs rep through its registered evaluator.
func Evaluate(calc *consumption.Calculator, rep Report, recs Records) (Result, error) {
	ev, ok := Kinds[rep.Kind]
	if !ok {
		return Result{}, fmt.Errorf("report %q: unsupported kind %q", rep.Name, rep.Kind)
	}
	res, err := ev.Evaluate(calc, rep, recs)
	if err != nil {
		return Result{}, fmt.Errorf("report %q: %w", rep.Name, err)
	}
	res.Name = rep.Name
	res.Kind = rep.Kind
	res.Unit = rep.Unit
	res.ToNow = rep.ToNow
	res.Fingerprint = rep.Fingerprint
	return res, nil
}

type currentSum struct{}

func (currentSum) Evaluate(calc *consumption.Calculator, rep Report, recs Records) (Result, error) {
	p, err := calc.Resolver().Current(rep.Unit, rep.ToNow)
	if err != nil {
		return Result{}, err
	}
	return sumOver(calc, p, rep.ToNow, recs)
}

type previousSum struct{}

func (previousSum) Evaluate(calc *consumption.Calculator, rep Report, recs Records) (Result, error) {
	p, err := calc.Resolver().Previous(rep.SubtractUnit, rep.Unit, rep.ToNow, rep.OffsetNumber)
	if err != nil {
		return Result{}, err
	}
	return sumOver(calc, p, rep.ToNow, recs)
}

func sumOver(calc *consumption.Calculator, p period.Period, toNow bool, recs Records) (Result, error) {
	var (
		samples []measurement.Sample
		total   decimal.Decimal
		err     error
	)
	if toNow {
		if recs.Days != nil {
			opts := calc.Options()
			samples = consumption.ExtractDayWindow(p, recs.Days, opts.Source, opts.MeasurementType)
		}
		total, err = calc.SumOverPeriodToNow(p, recs.Days, samples)
	} else {
		if recs.Years != nil {
			samples = consumption.ExtractYearWindow(p, recs.Years)
		}
		total, err = calc.SumOverPeriod(p, recs.Years, samples)
	}
	if err != nil {
		return Result{}, err
	}
	tally := consumption.Count(samples)
	return Result{Period: &p, Value: total, Samples: &tally}, nil
}

type average struct{}

func (average) Evaluate(calc *consumption.Calculator, rep Report, recs Records) (Result, error) {
	var (
		sums []consumption.WindowSum
		err  error
	)
	if rep.ToNow {
		sums, err = calc.RollingSumsToNow(recs.Days, rep.Unit, rep.OffsetNumber)
	} else {
		sums, err = calc.RollingSums(recs.Years, rep.Unit, rep.OffsetNumber)
	}
	if err != nil {
		return Result{}, err
	}
	complete := 0
	for _, s := range sums {
		if s.Complete {
			complete++
		}
	}
	return Result{
		Value:           calc.Mean(sums),
		Windows:         len(sums),
		CompleteWindows: complete,
	}, nil
}
