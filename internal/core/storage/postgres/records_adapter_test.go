package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aevon-lab/aevon-consumption/internal/core/measurement"
	"github.com/aevon-lab/aevon-consumption/internal/core/storage"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2016, 10, 14, 12, 0, 0, 0, time.UTC)

func streamQuery(from, to time.Time) storage.RecordQuery {
	return storage.RecordQuery{
		SensorID:        "sensor1",
		Source:          "reading",
		MeasurementType: "activeEnergy",
		From:            from,
		To:              to,
	}
}

func TestAdapter_YearRecords(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	from := time.Date(2014, 10, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(queryYearRecords)).
		WithArgs("sensor1", "reading", "activeEnergy", 2014, 2016).
		WillReturnRows(sqlmock.NewRows(yearRowColumns()).
			AddRow("sensor1-2015-reading-activeEnergy", "sensor1", int64(2015), "reading", "activeEnergy", `{1.5,"",abc}`, "kWh").
			AddRow("sensor1-2016-reading-activeEnergy", "sensor1", int64(2016), "reading", "activeEnergy", `{2}`, nil))

	records, err := adapter.YearRecords(context.Background(), streamQuery(from, fixedNow))
	require.NoError(t, err)
	require.Equal(t, 2, records.Len())

	first, ok := records.First()
	require.True(t, ok)
	require.Equal(t, 2015, first.Year)
	require.Equal(t, "kWh", first.UnitOfMeasurement)
	require.Len(t, first.Values, 3)
	require.Equal(t, measurement.Present, first.Values[0].State)
	require.Equal(t, measurement.Missing, first.Values[1].State)
	require.Equal(t, measurement.Invalid, first.Values[2].State)

	second, ok := records.Get("sensor1-2016-reading-activeEnergy")
	require.True(t, ok)
	require.Empty(t, second.UnitOfMeasurement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_YearRecordsRejectsOverlongYear(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	overlong := "{" + repeatCSV("1", 366) + "}"
	mock.ExpectQuery(regexp.QuoteMeta(queryYearRecords)).
		WillReturnRows(sqlmock.NewRows(yearRowColumns()).
			AddRow("id", "sensor1", int64(2015), "reading", "activeEnergy", overlong, nil))

	_, err := adapter.YearRecords(context.Background(), streamQuery(fixedNow.AddDate(-1, 0, 0), fixedNow))
	require.ErrorIs(t, err, measurement.ErrTooManyValues)
}

func TestAdapter_YearRecordsInvalidQuery(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	_, err := adapter.YearRecords(context.Background(), storage.RecordQuery{SensorID: "sensor1"})
	require.ErrorIs(t, err, storage.ErrInvalidQuery)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_DayRecords(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	day := time.Date(2016, 10, 14, 0, 0, 0, 0, time.UTC)
	from := day.AddDate(0, 0, -7)
	t0 := day.UnixMilli()
	t1 := day.Add(time.Hour).UnixMilli()

	mock.ExpectQuery(regexp.QuoteMeta(queryDayRecords)).
		WithArgs("sensor1", "reading", "activeEnergy", "2016-10-07", "2016-10-14").
		WillReturnRows(sqlmock.NewRows(dayRowColumns()).
			AddRow("ignored-id", "sensor1", day, "reading", "activeEnergy",
				"{"+itoa(t0)+","+itoa(t1)+"}", `{0.25,""}`, "kWh"))

	records, err := adapter.DayRecords(context.Background(), streamQuery(from, day))
	require.NoError(t, err)
	require.Equal(t, 1, records.Len())

	rec, ok := records.Get(measurement.DayKey("sensor1", day, "reading", "activeEnergy"))
	require.True(t, ok)
	require.Equal(t, []int64{t0, t1}, rec.Times)
	require.True(t, rec.Values[0].Ok())
	require.Equal(t, measurement.Missing, rec.Values[1].State)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_DayRecordsQueryError(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryDayRecords)).WillReturnError(errors.New("connection reset"))

	_, err := adapter.DayRecords(context.Background(), streamQuery(fixedNow.AddDate(0, 0, -1), fixedNow))
	require.ErrorContains(t, err, "failed to query day records")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertYearRecords(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertYearRecord))
	mock.ExpectExec(regexp.QuoteMeta(queryUpsertYearRecord)).
		WithArgs("sensor1-2016-reading-activeEnergy", "sensor1", 2016, "reading", "activeEnergy",
			sqlmock.AnyArg(), "kWh", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := adapter.UpsertYearRecords(context.Background(), []measurement.RawYearRecord{{
		Year:              "2016",
		SensorID:          "sensor1",
		Source:            "reading",
		MeasurementType:   "activeEnergy",
		MeasurementValues: "1,,2",
		UnitOfMeasurement: "kWh",
	}})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertDayRecordsRollsBackOnInvalidRecord(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertDayRecord))
	mock.ExpectRollback()

	_, err := adapter.UpsertDayRecords(context.Background(), []measurement.RawDayRecord{{
		Day:               "2016-10-14",
		SensorID:          "sensor1",
		Source:            "reading",
		MeasurementType:   "activeEnergy",
		MeasurementTimes:  []int64{1},
		MeasurementValues: []string{"1", "2"},
	}})
	require.ErrorIs(t, err, measurement.ErrLengthMismatch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertNothingSkipsTransaction(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	n, err := adapter.UpsertDayRecords(context.Background(), nil)
	require.NoError(t, err)
	require.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).WithArgs("yearly_consumption").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(queryTableExists)).WithArgs("daily_consumption").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err = validateSchema(db)
	require.ErrorContains(t, err, "daily_consumption table does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(queryYearRecords)).WillBeClosed()
	stmtYear, err := db.Prepare(queryYearRecords)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryDayRecords)).WillBeClosed()
	stmtDay, err := db.Prepare(queryDayRecords)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{db: db, stmtYearRecord: stmtYear, stmtDayRecord: stmtDay}

	err = adapter.Close()
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:             db,
		stmtYearRecord: mustPrepareStmt(t, db, mock, queryYearRecords),
		stmtDayRecord:  mustPrepareStmt(t, db, mock, queryDayRecords),
		nowFn:          func() time.Time { return fixedNow },
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func yearRowColumns() []string {
	return []string{
		"id",
		"sensor_id",
		"year",
		"source",
		"measurement_type",
		"measurement_values",
		"unit_of_measurement",
	}
}

func dayRowColumns() []string {
	return []string{
		"id",
		"sensor_id",
		"day",
		"source",
		"measurement_type",
		"measurement_times",
		"measurement_values",
		"unit_of_measurement",
	}
}

func repeatCSV(v string, n int) string {
	out := make([]byte, 0, n*(len(v)+1))
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		out = append(out, v...)
	}
	return string(out)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
