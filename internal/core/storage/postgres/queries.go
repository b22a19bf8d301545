package postgres

// SQL queries for consumption record storage

const (
	// queryYearRecords fetches one stream's year records for a year range, oldest first.
	queryYearRecords = `
		SELECT
			id, sensor_id, year, source, measurement_type,
			measurement_values, unit_of_measurement
		FROM yearly_consumption
		WHERE sensor_id = $1
		  AND source = $2
		  AND measurement_type = $3
		  AND year >= $4
		  AND year <= $5
		ORDER BY year ASC
	`

	// queryDayRecords fetches one stream's day records for a day range, oldest first.
	queryDayRecords = `
		SELECT
			id, sensor_id, day, source, measurement_type,
			measurement_times, measurement_values, unit_of_measurement
		FROM daily_consumption
		WHERE sensor_id = $1
		  AND source = $2
		  AND measurement_type = $3
		  AND day >= $4
		  AND day <= $5
		ORDER BY day ASC
	`

	// queryUpsertYearRecord replaces a year record keyed by its stream and year.
	queryUpsertYearRecord = `
		INSERT INTO yearly_consumption (
			id, sensor_id, year, source, measurement_type,
			measurement_values, unit_of_measurement, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (sensor_id, year, source, measurement_type)
		DO UPDATE SET
			id                  = EXCLUDED.id,
			measurement_values  = EXCLUDED.measurement_values,
			unit_of_measurement = EXCLUDED.unit_of_measurement,
			updated_at          = EXCLUDED.updated_at
	`

	// queryUpsertDayRecord replaces a day record keyed by its stream and day.
	queryUpsertDayRecord = `
		INSERT INTO daily_consumption (
			id, sensor_id, day, source, measurement_type,
			measurement_times, measurement_values, unit_of_measurement, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (sensor_id, day, source, measurement_type)
		DO UPDATE SET
			id                  = EXCLUDED.id,
			measurement_times   = EXCLUDED.measurement_times,
			measurement_values  = EXCLUDED.measurement_values,
			unit_of_measurement = EXCLUDED.unit_of_measurement,
			updated_at          = EXCLUDED.updated_at
	`

	// queryTableExists checks that migrations created a table.
	queryTableExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		)
	`
)
