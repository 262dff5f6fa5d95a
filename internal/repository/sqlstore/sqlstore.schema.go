package sqlstore

import (
	"context"

	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/errors"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sensor_data (
		id          SERIAL PRIMARY KEY,
		ph_value    DOUBLE PRECISION NOT NULL,
		temperature DOUBLE PRECISION NOT NULL,
		location    TEXT NOT NULL,
		time        TEXT NOT NULL,
		date        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_data_location_date ON sensor_data(location, date)`,
}

// date and time are declared TEXT; go-sqlite3 would parse DATE/TIME columns into time.Time
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sensor_data (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		ph_value    REAL NOT NULL,
		temperature REAL NOT NULL,
		location    TEXT NOT NULL,
		time        TEXT NOT NULL,
		date        TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sensor_data_location_date ON sensor_data(location, date)`,
}

// EnsureSchema creates the sensor_data table and its index when missing.
// Existing tables are left untouched.
func (r *SensorDataRepo) EnsureSchema(ctx context.Context) error {
	queries := postgresSchema
	if r.db.GetDB().DriverName() == config.DriverSQLite {
		queries = sqliteSchema
	}
	for _, query := range queries {
		if _, err := r.ExecContext(ctx, query); err != nil {
			return errors.NewDatabaseError("failed to create sensor_data schema", err)
		}
	}
	return nil
}
