package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/consumption"
	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	"github.com/aevon-lab/aevon-consumption/internal/metrics"
	"github.com/aevon-lab/aevon-consumption/internal/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid consumption query")

// Service implements the query layer over the record store.
type Service struct {
	store   storage.RecordStore
	calc    *consumption.Calculator
	reports report.Repository
	cache   *SnapshotCache
	group   singleflight.Group
	metrics *metrics.Metrics
	newID   func() string
}

// Options tunes the service. Zero values are usable.
type Options struct {
	CacheSize int
	Metrics   *metrics.Metrics
}

// NewService creates a new projection service. The calculator supplies the
// clock, the locale and the averaging options for every query.
func NewService(
	store storage.RecordStore,
	calc *consumption.Calculator,
	reports report.Repository,
	opts Options,
) *Service {
	return &Service{
		store:   store,
		calc:    calc,
		reports: reports,
		cache:   NewSnapshotCache(opts.CacheSize),
		metrics: opts.Metrics,
		newID:   func() string { return uuid.NewString() },
	}
}

// ListReports returns the configured report definitions, optionally of one kind.
func (s *Service) ListReports(ctx context.Context, kind string) ([]report.Report, error) {
	if kind != "" && !report.ValidKind(kind) {
		return nil, invalidQueryf("unsupported report kind %q", kind)
	}
	return s.reports.List(ctx, kind)
}

// Report returns one configured report definition by name.
func (s *Service) Report(ctx context.Context, name string) (*report.Report, error) {
	return s.reports.Get(ctx, name)
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error { return s.store.Ping(ctx) }

// CurrentPeriod resolves the unit containing now.
func (s *Service) CurrentPeriod(unit string, toNow bool) (*PeriodResponse, error) {
	u, err := period.ParseUnit(unit)
	if err != nil {
		return nil, invalidQueryf("%v", err)
	}
	calc := s.calc.At(s.calc.Resolver().Now())
	p, err := calc.Resolver().Current(u, toNow)
	if err != nil {
		return nil, invalidQueryf("%v", err)
	}
	return &PeriodResponse{Unit: u, ToNow: toNow, Period: p, Now: calc.Resolver().Now()}, nil
}

// PreviousPeriod resolves a range-unit window offset subtract-units back.
func (s *Service) PreviousPeriod(req PreviousPeriodRequest) (*PeriodResponse, error) {
	subtract, err := period.ParseUnit(req.Subtract)
	if err != nil {
		return nil, invalidQueryf("subtract: %v", err)
	}
	rng, err := period.ParseUnit(req.Range)
	if err != nil {
		return nil, invalidQueryf("range: %v", err)
	}
	calc := s.calc.At(s.calc.Resolver().Now())
	p, err := calc.Resolver().Previous(subtract, rng, req.ToNow, req.Offset)
	if err != nil {
		return nil, invalidQueryf("%v", err)
	}
	return &PeriodResponse{Unit: rng, ToNow: req.ToNow, Period: p, Now: calc.Resolver().Now()}, nil
}

// Sum totals one sensor's readings over an explicit window.
func (s *Service) Sum(ctx context.Context, req SumRequest) (*SumResponse, error) {
	if strings.TrimSpace(req.SensorID) == "" {
		return nil, invalidQueryf("sensor_id is required")
	}
	p := period.New(req.Start, req.End)
	if err := p.Validate(); err != nil {
		return nil, invalidQueryf("%v", err)
	}

	q := s.query(req.SensorID, p.Start, p.End)
	var (
		samples []measurement.Sample
		total   decimal.Decimal
		err     error
	)
	if req.ToNow {
		days, loadErr := s.store.DayRecords(ctx, q)
		if loadErr != nil {
			return nil, fmt.Errorf("load day records: %w", loadErr)
		}
		if days != nil {
			opts := s.calc.Options()
			samples = consumption.ExtractDayWindow(p, days, opts.Source, opts.MeasurementType)
		}
		total, err = s.calc.SumOverPeriodToNow(p, days, samples)
	} else {
		years, loadErr := s.store.YearRecords(ctx, q)
		if loadErr != nil {
			return nil, fmt.Errorf("load year records: %w", loadErr)
		}
		if years != nil {
			samples = consumption.ExtractYearWindow(p, years)
		}
		total, err = s.calc.SumOverPeriod(p, years, samples)
	}
	if err != nil {
		return nil, err
	}

	return &SumResponse{
		SensorID: req.SensorID,
		Period:   p,
		ToNow:    req.ToNow,
		Value:    total,
		Samples:  consumption.Count(samples),
	}, nil
}

// Average computes the rolling average of one sensor for the past year.
func (s *Service) Average(ctx context.Context, req AverageRequest) (*AverageResponse, error) {
	if strings.TrimSpace(req.SensorID) == "" {
		return nil, invalidQueryf("sensor_id is required")
	}
	unit, err := period.ParseUnit(req.Unit)
	if err != nil {
		return nil, invalidQueryf("%v", err)
	}
	if req.Offset < 1 {
		return nil, invalidQueryf("offset must be >= 1, got %d", req.Offset)
	}

	now := s.calc.Resolver().Now()
	calc := s.calc.At(now)
	q := s.query(req.SensorID, rollingHorizon(now), now)

	var sums []consumption.WindowSum
	if req.ToNow {
		days, loadErr := s.store.DayRecords(ctx, q)
		if loadErr != nil {
			return nil, fmt.Errorf("load day records: %w", loadErr)
		}
		sums, err = calc.RollingSumsToNow(days, unit, req.Offset)
	} else {
		years, loadErr := s.store.YearRecords(ctx, q)
		if loadErr != nil {
			return nil, fmt.Errorf("load year records: %w", loadErr)
		}
		sums, err = calc.RollingSums(years, unit, req.Offset)
	}
	if err != nil {
		return nil, err
	}

	complete := 0
	for _, w := range sums {
		if w.Complete {
			complete++
		}
	}
	s.metrics.WindowsRejected(unit.String(), len(sums)-complete)

	return &AverageResponse{
		SensorID:        req.SensorID,
		Unit:            unit,
		Offset:          req.Offset,
		ToNow:           req.ToNow,
		Value:           calc.Mean(sums),
		CompleteWindows: complete,
		Windows:         sums,
	}, nil
}

// Summary returns every configured report for a sensor. A snapshot computed
// earlier the same UTC day is served from cache unless fresh is set.
// Concurrent computations for one sensor are shared.
func (s *Service) Summary(ctx context.Context, sensorID string, fresh bool) (*Snapshot, error) {
	if strings.TrimSpace(sensorID) == "" {
		return nil, invalidQueryf("sensor_id is required")
	}
	if !fresh {
		if snap := s.cache.Get(sensorID); snap != nil && snap.FreshOn(s.calc.Resolver().Now()) {
			s.metrics.SnapshotHit()
			return snap, nil
		}
	}
	s.metrics.SnapshotMiss()
	return s.Refresh(ctx, sensorID)
}

// Invalidate drops the cached snapshot of a sensor. A refresh already in
// flight for it still returns its result but does not cache it.
func (s *Service) Invalidate(sensorID string) {
	s.cache.Invalidate(sensorID)
	s.group.Forget(sensorID)
}

// Refresh recomputes and caches the snapshot of one sensor.
func (s *Service) Refresh(ctx context.Context, sensorID string) (*Snapshot, error) {
	v, err, _ := s.group.Do(sensorID, func() (interface{}, error) {
		gen := s.cache.Generation(sensorID)
		snap, err := s.compute(ctx, sensorID)
		if err != nil {
			return nil, err
		}
		if !s.cache.PutIf(snap, gen) {
			slog.Debug("[Projection] Snapshot invalidated while computing, not cached", "sensor_id", sensorID)
		}
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (s *Service) compute(ctx context.Context, sensorID string) (*Snapshot, error) {
	reports, err := s.reports.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	now := s.calc.Resolver().Now()
	calc := s.calc.At(now)
	q := s.query(sensorID, horizon(calc, reports), now)

	var recs report.Records
	recs.Years, err = s.store.YearRecords(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("load year records: %w", err)
	}
	if report.NeedsDays(reports) {
		recs.Days, err = s.store.DayRecords(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("load day records: %w", err)
		}
	}

	results := make([]report.Result, 0, len(reports))
	for _, rep := range reports {
		res, err := report.Evaluate(calc, rep, recs)
		s.metrics.ReportEvaluated(rep.Kind, err)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	snap := &Snapshot{
		ID:         s.newID(),
		SensorID:   sensorID,
		ComputedAt: now,
		Reports:    results,
	}
	slog.Debug("[Projection] Snapshot computed",
		"sensor_id", sensorID,
		"snapshot_id", snap.ID,
		"reports", len(results),
		"year_records", recs.Years.Len())
	return snap, nil
}

func (s *Service) query(sensorID string, from, to time.Time) storage.RecordQuery {
	opts := s.calc.Options()
	return storage.RecordQuery{
		SensorID:        sensorID,
		Source:          opts.Source,
		MeasurementType: opts.MeasurementType,
		From:            from,
		To:              to,
	}
}

// horizon is the earliest instant any of reports reads.
func horizon(calc *consumption.Calculator, reports []report.Report) time.Time {
	r := calc.Resolver()
	earliest := rollingHorizon(r.Now())
	for _, rep := range reports {
		var (
			p   period.Period
			err error
		)
		switch rep.Kind {
		case report.KindCurrentSum:
			p, err = r.Current(rep.Unit, rep.ToNow)
		case report.KindPreviousSum:
			p, err = r.Previous(rep.SubtractUnit, rep.Unit, rep.ToNow, rep.OffsetNumber)
		default:
			continue
		}
		if err == nil && p.Start.Before(earliest) {
			earliest = p.Start
		}
	}
	return earliest
}

// rollingHorizon covers every window of a one-year rolling average: January
// 1st of last year, or a leap year plus a week back when that is earlier.
func rollingHorizon(now time.Time) time.Time {
	now = now.UTC()
	start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC)
	if alt := now.AddDate(0, 0, -(366 + 7)); alt.Before(start) {
		return time.Date(alt.Year(), alt.Month(), alt.Day(), 0, 0, 0, 0, time.UTC)
	}
	return start
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
