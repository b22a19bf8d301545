package measurement

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var (
	ErrTooManyValues    = errors.New("more measurement values than days in year")
	ErrLengthMismatch   = errors.New("measurement times and values differ in length")
	ErrUnorderedTimes   = errors.New("measurement times must be strictly increasing")
	ErrTimeOutsideOfDay = errors.New("measurement time outside of record day")
)

// Record is anything stored under a unique key in an Aggregates collection.
type Record interface {
	Key() string
}

// YearKey builds the key of a year record, e.g. "sensor-2016-reading-activeEnergy".
func YearKey(sensorID string, year int, source, measurementType string) string {
	return fmt.Sprintf("%s-%04d-%s-%s", sensorID, year, source, measurementType)
}

// DayKey builds the key of a day record, e.g. "sensor-2016-10-14-reading-activeEnergy".
func DayKey(sensorID string, day time.Time, source, measurementType string) string {
	return fmt.Sprintf("%s-%s-%s-%s", sensorID, day.UTC().Format(dayLayout), source, measurementType)
}

// YearRecord holds one sensor's daily readings for a calendar year.
// Values[i] is the reading of day-of-year i+1.
type YearRecord struct {
	ID                string
	Year              int
	SensorID          string
	Source            string
	MeasurementType   string
	Values            []Sample
	UnitOfMeasurement string
}

// Key returns ID when set, otherwise the canonical year key.
func (r YearRecord) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return YearKey(r.SensorID, r.Year, r.Source, r.MeasurementType)
}

// Validate checks the record against its calendar year. A record may hold
// fewer values than days (a year still being filled) but never more.
func (r YearRecord) Validate() error {
	if r.Year <= 0 {
		return fmt.Errorf("record %s: invalid year %d", r.Key(), r.Year)
	}
	if days := daysInYear(r.Year); len(r.Values) > days {
		return fmt.Errorf("record %s: %w (%d > %d)", r.Key(), ErrTooManyValues, len(r.Values), days)
	}
	return nil
}

// DayRecord holds one sensor's sub-daily readings for a calendar day.
// Times are epoch milliseconds, parallel to Values.
type DayRecord struct {
	ID                string
	SensorID          string
	Day               time.Time
	Source            string
	MeasurementType   string
	Times             []int64
	Values            []Sample
	UnitOfMeasurement string
}

// Key always returns the canonical day key; day windows are looked up by it.
func (r DayRecord) Key() string {
	return DayKey(r.SensorID, r.Day, r.Source, r.MeasurementType)
}

func (r DayRecord) Validate() error {
	if len(r.Times) != len(r.Values) {
		return fmt.Errorf("record %s: %w (%d times, %d values)", r.Key(), ErrLengthMismatch, len(r.Times), len(r.Values))
	}
	dayStart := truncateToDay(r.Day).UnixMilli()
	dayEnd := dayStart + 24*time.Hour.Milliseconds()
	for i, ts := range r.Times {
		if i > 0 && ts <= r.Times[i-1] {
			return fmt.Errorf("record %s: %w at index %d", r.Key(), ErrUnorderedTimes, i)
		}
		if ts < dayStart || ts >= dayEnd {
			return fmt.Errorf("record %s: %w at index %d", r.Key(), ErrTimeOutsideOfDay, i)
		}
	}
	return nil
}

// RawYearRecord is the stored/wire shape of a year record.
type RawYearRecord struct {
	ID                string `json:"_id"`
	Year              string `json:"year"`
	SensorID          string `json:"sensorId"`
	Source            string `json:"source"`
	MeasurementType   string `json:"measurementType"`
	MeasurementValues string `json:"measurementValues"`
	UnitOfMeasurement string `json:"unitOfMeasurement"`
}

// Decode parses the wire shape into a validated YearRecord.
func (raw RawYearRecord) Decode() (YearRecord, error) {
	year, err := strconv.Atoi(strings.TrimSpace(raw.Year))
	if err != nil {
		return YearRecord{}, fmt.Errorf("record %s: invalid year %q: %w", raw.ID, raw.Year, err)
	}
	rec := YearRecord{
		ID:                raw.ID,
		Year:              year,
		SensorID:          raw.SensorID,
		Source:            raw.Source,
		MeasurementType:   raw.MeasurementType,
		Values:            ParseValues(raw.MeasurementValues),
		UnitOfMeasurement: raw.UnitOfMeasurement,
	}
	if err := rec.Validate(); err != nil {
		return YearRecord{}, err
	}
	return rec, nil
}

// RawDayRecord is the stored/wire shape of a day record.
type RawDayRecord struct {
	ID                string   `json:"_id"`
	Day               string   `json:"day"`
	SensorID          string   `json:"sensorId"`
	Source            string   `json:"source"`
	MeasurementType   string   `json:"measurementType"`
	MeasurementTimes  []int64  `json:"measurementTimes"`
	MeasurementValues []string `json:"measurementValues"`
	UnitOfMeasurement string   `json:"unitOfMeasurement"`
}

// Decode parses the wire shape into a validated DayRecord.
func (raw RawDayRecord) Decode() (DayRecord, error) {
	day, err := time.Parse(dayLayout, strings.TrimSpace(raw.Day))
	if err != nil {
		return DayRecord{}, fmt.Errorf("record %s: invalid day %q: %w", raw.ID, raw.Day, err)
	}
	rec := DayRecord{
		ID:                raw.ID,
		SensorID:          raw.SensorID,
		Day:               day,
		Source:            raw.Source,
		MeasurementType:   raw.MeasurementType,
		Times:             append([]int64(nil), raw.MeasurementTimes...),
		Values:            ParseSamples(raw.MeasurementValues),
		UnitOfMeasurement: raw.UnitOfMeasurement,
	}
	if err := rec.Validate(); err != nil {
		return DayRecord{}, err
	}
	return rec, nil
}

func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
