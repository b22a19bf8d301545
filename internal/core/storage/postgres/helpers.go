package postgres

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/lib/pq"
)

const dayLayout = "2006-01-02"

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanYearRow scans a yearly_consumption row and decodes it through the
// measurement parse boundary.
func scanYearRow(row scanner) (measurement.YearRecord, error) {
	var (
		raw    measurement.RawYearRecord
		year   int
		values pq.StringArray
		unit   *string
	)
	err := row.Scan(
		&raw.ID,
		&raw.SensorID,
		&year,
		&raw.Source,
		&raw.MeasurementType,
		&values,
		&unit,
	)
	if err != nil {
		return measurement.YearRecord{}, fmt.Errorf("failed to scan year record row: %w", err)
	}
	raw.Year = strconv.Itoa(year)
	raw.MeasurementValues = strings.Join(values, ",")
	if unit != nil {
		raw.UnitOfMeasurement = *unit
	}
	return raw.Decode()
}

// scanDayRow scans a daily_consumption row and decodes it through the
// measurement parse boundary.
func scanDayRow(row scanner) (measurement.DayRecord, error) {
	var (
		raw    measurement.RawDayRecord
		day    time.Time
		times  pq.Int64Array
		values pq.StringArray
		unit   *string
	)
	err := row.Scan(
		&raw.ID,
		&raw.SensorID,
		&day,
		&raw.Source,
		&raw.MeasurementType,
		&times,
		&values,
		&unit,
	)
	if err != nil {
		return measurement.DayRecord{}, fmt.Errorf("failed to scan day record row: %w", err)
	}
	raw.Day = day.UTC().Format(dayLayout)
	raw.MeasurementTimes = times
	raw.MeasurementValues = values
	if unit != nil {
		raw.UnitOfMeasurement = *unit
	}
	return raw.Decode()
}

// yearArgs converts a raw year record into upsert arguments. Values keep
// their wire text so unparsable readings survive a round trip.
func yearArgs(raw measurement.RawYearRecord, now time.Time) ([]interface{}, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw.Year))
	if err != nil {
		return nil, fmt.Errorf("record %s: invalid year %q: %w", raw.ID, raw.Year, err)
	}
	if _, err := raw.Decode(); err != nil {
		return nil, err
	}
	var values []string
	if raw.MeasurementValues != "" {
		values = strings.Split(raw.MeasurementValues, ",")
	}
	id := raw.ID
	if id == "" {
		id = measurement.YearKey(raw.SensorID, year, raw.Source, raw.MeasurementType)
	}
	return []interface{}{
		id,
		raw.SensorID,
		year,
		raw.Source,
		raw.MeasurementType,
		pq.StringArray(values),
		nullableString(raw.UnitOfMeasurement),
		now,
	}, nil
}

func dayArgs(raw measurement.RawDayRecord, now time.Time) ([]interface{}, error) {
	rec, err := raw.Decode()
	if err != nil {
		return nil, err
	}
	id := raw.ID
	if id == "" {
		id = rec.Key()
	}
	return []interface{}{
		id,
		raw.SensorID,
		rec.Day.Format(dayLayout),
		raw.Source,
		raw.MeasurementType,
		pq.Int64Array(raw.MeasurementTimes),
		pq.StringArray(raw.MeasurementValues),
		nullableString(raw.UnitOfMeasurement),
		now,
	}, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
