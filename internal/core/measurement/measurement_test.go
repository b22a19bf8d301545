package measurement

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseSample(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantState SampleState
		wantValue string
	}{
		{name: "four decimals", raw: "9.5830", wantState: Present, wantValue: "9.583"},
		{name: "integer", raw: "12", wantState: Present, wantValue: "12"},
		{name: "zero is a reading", raw: "0", wantState: Present, wantValue: "0"},
		{name: "surrounding space", raw: " 1.25 ", wantState: Present, wantValue: "1.25"},
		{name: "empty is missing", raw: "", wantState: Missing},
		{name: "blank is missing", raw: "  ", wantState: Missing},
		{name: "garbage is invalid", raw: "n/a", wantState: Invalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := ParseSample(tc.raw)
			require.Equal(t, tc.wantState, s.State)
			if tc.wantState == Present {
				require.True(t, decimal.RequireFromString(tc.wantValue).Equal(s.Value), "got %s", s.Value)
			}
		})
	}
}

func TestParseValues(t *testing.T) {
	samples := ParseValues("1.5,,2.25,x")
	require.Len(t, samples, 4)
	require.Equal(t, []SampleState{Present, Missing, Present, Invalid}, []SampleState{
		samples[0].State, samples[1].State, samples[2].State, samples[3].State,
	})
	require.Equal(t, "1.5,,2.25,", FormatValues(samples))

	require.Empty(t, ParseValues(""))
	require.Len(t, ParseValues(",,"), 3)
}

func TestComplete(t *testing.T) {
	require.False(t, Complete(nil))
	require.True(t, Complete(ParseValues("1,0,2")))
	require.False(t, Complete(ParseValues("1,,2")))
	require.False(t, Complete(ParseValues("1,abc")))
}

func TestKeys(t *testing.T) {
	require.Equal(t, "sensor-2016-reading-activeEnergy", YearKey("sensor", 2016, "reading", "activeEnergy"))
	day := time.Date(2016, 10, 14, 13, 0, 0, 0, time.UTC)
	require.Equal(t, "sensor-2016-10-14-reading-activeEnergy", DayKey("sensor", day, "reading", "activeEnergy"))
}

func TestRawYearRecord_Decode(t *testing.T) {
	raw := RawYearRecord{
		ID:                "s1-2016-reading-activeEnergy",
		Year:              "2016",
		SensorID:          "s1",
		Source:            "reading",
		MeasurementType:   "activeEnergy",
		MeasurementValues: "1.0,,3.5",
		UnitOfMeasurement: "kWh",
	}
	rec, err := raw.Decode()
	require.NoError(t, err)
	require.Equal(t, 2016, rec.Year)
	require.Len(t, rec.Values, 3)
	require.Equal(t, raw.ID, rec.Key())

	raw.Year = "20x6"
	_, err = raw.Decode()
	require.Error(t, err)
}

func TestYearRecord_ValidateRejectsOverlongYear(t *testing.T) {
	rec := YearRecord{SensorID: "s1", Year: 2015, Values: make([]Sample, 366)}
	require.ErrorIs(t, rec.Validate(), ErrTooManyValues)

	rec.Year = 2016
	require.NoError(t, rec.Validate())
	require.Equal(t, "s1-2016--", rec.Key())
}

func TestDayRecord_Validate(t *testing.T) {
	day := time.Date(2016, 10, 14, 0, 0, 0, 0, time.UTC)
	base := day.UnixMilli()

	tests := []struct {
		name    string
		times   []int64
		values  []Sample
		wantErr error
	}{
		{name: "valid", times: []int64{base, base + 1000}, values: ParseValues("1,2")},
		{name: "length mismatch", times: []int64{base}, values: ParseValues("1,2"), wantErr: ErrLengthMismatch},
		{name: "unordered", times: []int64{base + 1000, base + 1000}, values: ParseValues("1,2"), wantErr: ErrUnorderedTimes},
		{name: "next day", times: []int64{base + 24*3600*1000}, values: ParseValues("1"), wantErr: ErrTimeOutsideOfDay},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := DayRecord{SensorID: "s1", Day: day, Source: "reading", MeasurementType: "activeEnergy", Times: tc.times, Values: tc.values}
			err := rec.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRawDayRecord_Decode(t *testing.T) {
	day := time.Date(2016, 10, 14, 0, 0, 0, 0, time.UTC)
	raw := RawDayRecord{
		Day:               "2016-10-14",
		SensorID:          "s1",
		Source:            "reading",
		MeasurementType:   "activeEnergy",
		MeasurementTimes:  []int64{day.UnixMilli(), day.Add(time.Hour).UnixMilli()},
		MeasurementValues: []string{"0.25", ""},
	}
	rec, err := raw.Decode()
	require.NoError(t, err)
	require.Equal(t, day, rec.Day)
	require.Equal(t, "s1-2016-10-14-reading-activeEnergy", rec.Key())
	require.Equal(t, Missing, rec.Values[1].State)

	raw.Day = "14/10/2016"
	_, err = raw.Decode()
	require.Error(t, err)
}

func TestAggregates(t *testing.T) {
	a, err := NewAggregates(
		YearRecord{SensorID: "s1", Year: 2016, Source: "reading", MeasurementType: "activeEnergy"},
		YearRecord{SensorID: "s1", Year: 2015, Source: "reading", MeasurementType: "activeEnergy"},
	)
	require.NoError(t, err)
	require.Equal(t, 2, a.Len())
	require.Equal(t, []string{"s1-2016-reading-activeEnergy", "s1-2015-reading-activeEnergy"}, a.Keys())

	first, ok := a.First()
	require.True(t, ok)
	require.Equal(t, 2016, first.Year)

	rec, ok := a.Get("s1-2015-reading-activeEnergy")
	require.True(t, ok)
	require.Equal(t, 2015, rec.Year)

	_, err = NewAggregates(first, first)
	require.ErrorIs(t, err, ErrDuplicateKey)

	empty := MustAggregates[YearRecord]()
	_, ok = empty.First()
	require.False(t, ok)
	require.Empty(t, empty.Records())
}
