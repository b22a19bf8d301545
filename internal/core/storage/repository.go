package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
)

// ErrInvalidQuery is returned when a RecordQuery cannot be executed.
var ErrInvalidQuery = errors.New("invalid record query")

// RecordQuery selects one sensor's records for a measurement stream.
// From and To are inclusive; only their calendar year (year records) or
// calendar day (day records) matters.
type RecordQuery struct {
	SensorID        string
	Source          string
	MeasurementType string
	From            time.Time
	To              time.Time
}

func (q RecordQuery) Validate() error {
	if strings.TrimSpace(q.SensorID) == "" {
		return fmt.Errorf("%w: sensor id is required", ErrInvalidQuery)
	}
	if q.Source == "" || q.MeasurementType == "" {
		return fmt.Errorf("%w: source and measurement type are required", ErrInvalidQuery)
	}
	if q.From.IsZero() || q.To.IsZero() || q.From.After(q.To) {
		return fmt.Errorf("%w: from must be set and not after to", ErrInvalidQuery)
	}
	return nil
}

// RecordStore reads consumption records. Returned collections are ordered
// oldest first and already decoded through the measurement parse boundary.
type RecordStore interface {
	YearRecords(ctx context.Context, q RecordQuery) (*measurement.Aggregates[measurement.YearRecord], error)
	DayRecords(ctx context.Context, q RecordQuery) (*measurement.Aggregates[measurement.DayRecord], error)
	Ping(ctx context.Context) error
}

// RecordWriter persists records in their wire shape, replacing any record
// with the same key.
type RecordWriter interface {
	UpsertYearRecords(ctx context.Context, records []measurement.RawYearRecord) (int, error)
	UpsertDayRecords(ctx context.Context, records []measurement.RawDayRecord) (int, error)
}
