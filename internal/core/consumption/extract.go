package consumption

import (
	"time"

	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/period"
)

// ExtractYearWindow returns the daily samples of p, read from the year records
// of p's start and end years. A window crossing New Year stitches the tail of
// the start year to the head of the end year. Years strictly between the two
// are not read.
func ExtractYearWindow(p period.Period, records *measurement.Aggregates[measurement.YearRecord]) []measurement.Sample {
	start, end := p.Start.UTC(), p.End.UTC()
	startYear, endYear := start.Year(), end.Year()
	startDay, endDay := start.YearDay(), end.YearDay()

	var out []measurement.Sample
	for _, rec := range records.Records() {
		var lo, hi int
		switch {
		case rec.Year != startYear && rec.Year != endYear:
			continue
		case startYear == endYear:
			lo, hi = startDay-1, endDay
		case rec.Year == endYear:
			lo, hi = 0, endDay
		default:
			lo, hi = startDay-1, len(rec.Values)
		}
		out = append(out, clampedSlice(rec.Values, lo, hi)...)
	}
	return out
}

// ExtractDayWindow returns the samples of p read from day records. The sensor
// is taken from the first record; days without a record are skipped. Only
// samples timestamped within [p.Start, p.End] are kept, missing and invalid
// ones included.
func ExtractDayWindow(
	p period.Period,
	records *measurement.Aggregates[measurement.DayRecord],
	source, measurementType string,
) []measurement.Sample {
	first, ok := records.First()
	if !ok {
		return nil
	}

	var out []measurement.Sample
	for day := truncateToDay(p.Start); !day.After(p.End); day = day.AddDate(0, 0, 1) {
		rec, ok := records.Get(measurement.DayKey(first.SensorID, day, source, measurementType))
		if !ok {
			continue
		}
		for i, ts := range rec.Times {
			if i >= len(rec.Values) {
				break
			}
			if p.Contains(time.UnixMilli(ts)) {
				out = append(out, rec.Values[i])
			}
		}
	}
	return out
}

func clampedSlice(values []measurement.Sample, lo, hi int) []measurement.Sample {
	if lo < 0 {
		lo = 0
	}
	if hi > len(values) {
		hi = len(values)
	}
	if lo >= hi {
		return nil
	}
	return values[lo:hi]
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
