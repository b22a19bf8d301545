package consumption

import (
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/shopspring/decimal"
)

const (
	defaultScale           = 2
	defaultWorkers         = 4
	defaultSource          = "reading"
	defaultMeasurementType = "activeEnergy"
)

// Options controls rounding, completeness gating and the day-record discriminator.
type Options struct {
	// Scale is the number of decimal places every average is rounded to.
	Scale int32
	Gate  GatePolicy
	// Source and MeasurementType select day records when reading "to now" windows.
	Source          string
	MeasurementType string
	// Workers bounds concurrent sub-window evaluation.
	Workers int
}

// DefaultOptions rounds averages to 2 places and gates on missing samples.
func DefaultOptions() Options {
	return Options{
		Scale:           defaultScale,
		Gate:            GateMissingSample,
		Source:          defaultSource,
		MeasurementType: defaultMeasurementType,
		Workers:         defaultWorkers,
	}
}

func (o Options) normalized() Options {
	n := o
	if n.Scale < 0 {
		n.Scale = defaultScale
	}
	if n.Gate == "" {
		n.Gate = GateMissingSample
	}
	if n.Source == "" {
		n.Source = defaultSource
	}
	if n.MeasurementType == "" {
		n.MeasurementType = defaultMeasurementType
	}
	if n.Workers <= 0 {
		n.Workers = defaultWorkers
	}
	return n
}

// Calculator computes sums and rolling averages over caller-supplied records.
// It never mutates the records it reads.
type Calculator struct {
	resolver *period.Resolver
	opts     Options
}

// NewCalculator binds a calculator to a resolver, which supplies "now" and
// the calendar locale.
func NewCalculator(resolver *period.Resolver, opts Options) *Calculator {
	return &Calculator{resolver: resolver, opts: opts.normalized()}
}

func (c *Calculator) Resolver() *period.Resolver { return c.resolver }

func (c *Calculator) Options() Options { return c.opts }

// At returns a calculator with the same options whose clock is frozen at now.
func (c *Calculator) At(now time.Time) *Calculator {
	now = now.UTC()
	return &Calculator{
		resolver: period.NewResolver(c.resolver.Locale(), func() time.Time { return now }),
		opts:     c.opts,
	}
}

// SumOverPeriod sums the daily samples of year records inside p. When
// precomputed is non-nil it is summed instead of extracting from records.
func (c *Calculator) SumOverPeriod(
	p period.Period,
	records *measurement.Aggregates[measurement.YearRecord],
	precomputed []measurement.Sample,
) (decimal.Decimal, error) {
	if records == nil {
		return decimal.Zero, contractViolationf("year records collection is nil")
	}
	if err := p.Validate(); err != nil {
		return decimal.Zero, contractViolationf("period: %v", err)
	}
	if precomputed == nil {
		precomputed = ExtractYearWindow(p, records)
	}
	return Sum(precomputed), nil
}

// SumOverPeriodToNow sums the timestamped samples of day records inside p.
// When precomputed is non-nil it is summed instead of extracting from records.
func (c *Calculator) SumOverPeriodToNow(
	p period.Period,
	records *measurement.Aggregates[measurement.DayRecord],
	precomputed []measurement.Sample,
) (decimal.Decimal, error) {
	if records == nil {
		return decimal.Zero, contractViolationf("day records collection is nil")
	}
	if err := p.Validate(); err != nil {
		return decimal.Zero, contractViolationf("period: %v", err)
	}
	if precomputed == nil {
		precomputed = ExtractDayWindow(p, records, c.opts.Source, c.opts.MeasurementType)
	}
	return Sum(precomputed), nil
}
