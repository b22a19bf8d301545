package consumption

import (
	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// WindowSum is the outcome of one sub-window of a rolling average.
type WindowSum struct {
	Period   period.Period   `json:"period"`
	Sum      decimal.Decimal `json:"sum"`
	Samples  int             `json:"samples"`
	Invalid  int             `json:"invalid,omitempty"`
	Complete bool            `json:"complete"`
}

// AverageOverPeriod averages the full-unit sums of the past year, one window
// every offset units, over year records. Incomplete windows are left out of
// both numerator and denominator; no complete window yields zero.
func (c *Calculator) AverageOverPeriod(
	records *measurement.Aggregates[measurement.YearRecord],
	unit period.Unit,
	offset int,
) (decimal.Decimal, error) {
	sums, err := c.RollingSums(records, unit, offset)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Mean(sums), nil
}

// AverageOverPeriodToNow is AverageOverPeriod over day records, with every
// window truncated at the same point in its unit as now is in the current one.
func (c *Calculator) AverageOverPeriodToNow(
	records *measurement.Aggregates[measurement.DayRecord],
	unit period.Unit,
	offset int,
) (decimal.Decimal, error) {
	sums, err := c.RollingSumsToNow(records, unit, offset)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Mean(sums), nil
}

// RollingSums returns the per-window series behind AverageOverPeriod, most
// recent window first.
func (c *Calculator) RollingSums(
	records *measurement.Aggregates[measurement.YearRecord],
	unit period.Unit,
	offset int,
) ([]WindowSum, error) {
	if records == nil {
		return nil, contractViolationf("year records collection is nil")
	}
	return c.rolling(unit, offset, false, func(p period.Period) []measurement.Sample {
		return ExtractYearWindow(p, records)
	})
}

// RollingSumsToNow returns the per-window series behind AverageOverPeriodToNow.
func (c *Calculator) RollingSumsToNow(
	records *measurement.Aggregates[measurement.DayRecord],
	unit period.Unit,
	offset int,
) ([]WindowSum, error) {
	if records == nil {
		return nil, contractViolationf("day records collection is nil")
	}
	return c.rolling(unit, offset, true, func(p period.Period) []measurement.Sample {
		return ExtractDayWindow(p, records, c.opts.Source, c.opts.MeasurementType)
	})
}

// Mean averages the complete windows, rounded to the calculator's scale.
func (c *Calculator) Mean(sums []WindowSum) decimal.Decimal {
	total := decimal.Zero
	n := int64(0)
	for _, s := range sums {
		if !s.Complete {
			continue
		}
		total = total.Add(s.Sum)
		n++
	}
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(n)).Round(c.opts.Scale)
}

func (c *Calculator) rolling(
	unit period.Unit,
	offset int,
	toNow bool,
	extract func(period.Period) []measurement.Sample,
) ([]WindowSum, error) {
	if !unit.Valid() {
		return nil, contractViolationf("unsupported period unit %q", unit)
	}
	if offset < 1 {
		return nil, contractViolationf("offset must be >= 1, got %d", offset)
	}

	// Every window is resolved against the same instant.
	resolver := c.At(c.resolver.Now()).resolver

	count := resolver.WindowsPerYear(unit, offset)
	sums := make([]WindowSum, count)

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i := range count {
		g.Go(func() error {
			p, err := resolver.Previous(unit, unit, toNow, (i+1)*offset)
			if err != nil {
				return contractViolationf("%v", err)
			}
			samples := extract(p)
			total := Sum(samples)
			sums[i] = WindowSum{
				Period:   p,
				Sum:      total,
				Samples:  len(samples),
				Invalid:  Count(samples).Invalid,
				Complete: c.opts.Gate.Admits(samples, total),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sums, nil
}
