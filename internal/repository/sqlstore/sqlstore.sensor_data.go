// FilePath: internal/repository/sqlstore/sqlstore.sensor_data.go
package sqlstore

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/waterlab/sensorlog/internal/database"
	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/models"
	"github.com/waterlab/sensorlog/internal/repository"
)

type SensorDataRepo struct {
	BaseRepo
}

var _ repository.SensorDataRepository = (*SensorDataRepo)(nil)

func NewSensorDataRepository(db database.DB) *SensorDataRepo {
	return &SensorDataRepo{BaseRepo: BaseRepo{db: db}}
}

func (r *SensorDataRepo) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	query := `
		INSERT INTO sensor_data (ph_value, temperature, location, time, date)
		VALUES (?, ?, ?, ?, ?)`

	_, err := r.ExecContext(ctx, query,
		reading.PhValue,
		reading.Temperature,
		reading.Location,
		reading.Time,
		reading.Date,
	)
	if err != nil {
		return errors.NewDatabaseError("failed to insert sensor reading", err)
	}
	return nil
}

// FetchReadings returns every column of the rows matching filter. Zero rows
// is reported as a not found error rather than an empty result.
func (r *SensorDataRepo) FetchReadings(ctx context.Context, filter models.ReadingFilter) ([]models.Row, error) {
	query := "SELECT * FROM sensor_data"
	var conditions []string
	var args []any

	if filter.Date != "" {
		conditions = append(conditions, "date = ?")
		args = append(args, filter.Date)
	}
	if filter.Location != "" {
		conditions = append(conditions, "location = ?")
		args = append(args, filter.Location)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to fetch sensor readings", err)
	}
	defer closeRows(rows, "sensor readings")

	var out []models.Row
	for rows.Next() {
		scanned := make(map[string]any)
		if err := rows.MapScan(scanned); err != nil {
			return nil, errors.NewDatabaseError("failed to scan sensor reading", err)
		}
		out = append(out, models.NewRow(scanned))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("failed to iterate sensor readings", err)
	}

	if len(out) == 0 {
		return nil, errors.NewNotFoundError("No data found", repository.ErrNotFound)
	}
	return out, nil
}

// FetchDailyAverage returns the mean pH per date for one location over the
// inclusive range. No matching rows yields an empty, non-nil slice.
func (r *SensorDataRepo) FetchDailyAverage(ctx context.Context, dates models.DateRange, location string) ([]models.DailyAverage, error) {
	query := `
		SELECT date, AVG(ph_value) AS ph_value
		FROM sensor_data
		WHERE date >= ? AND date <= ? AND location = ?
		GROUP BY date
		ORDER BY date`

	averages := []models.DailyAverage{}
	if err := r.SelectContext(ctx, &averages, query, dates.Start, dates.End, location); err != nil {
		return nil, errors.NewDatabaseError("failed to fetch daily averages", err)
	}
	return averages, nil
}

// FetchComparisonDailyAverage returns the daily mean pH of several locations
// keyed by location. Locations without rows in range are absent from the map.
func (r *SensorDataRepo) FetchComparisonDailyAverage(ctx context.Context, dates models.DateRange, locations []string) (models.ComparisonSeries, error) {
	if len(locations) == 0 {
		return nil, errors.NewValidationError("at least one location is required", nil)
	}

	// sqlx.In expands the single IN bindvar to one bindvar per location
	query, args, err := sqlx.In(`
		SELECT location, date, AVG(ph_value) AS ph_value
		FROM sensor_data
		WHERE date >= ? AND date <= ? AND location IN (?)
		GROUP BY location, date
		ORDER BY date, location`,
		dates.Start, dates.End, locations)
	if err != nil {
		return nil, errors.NewInternalError("failed to build comparison query", err)
	}

	var flat []models.LocationDailyAverage
	if err := r.SelectContext(ctx, &flat, query, args...); err != nil {
		return nil, errors.NewDatabaseError("failed to fetch comparison averages", err)
	}

	return groupByLocation(flat), nil
}

func groupByLocation(flat []models.LocationDailyAverage) models.ComparisonSeries {
	series := models.ComparisonSeries{}
	for _, row := range flat {
		series[row.Location] = append(series[row.Location], models.DailyAverage{
			Date:    row.Date,
			PhValue: row.PhValue,
		})
	}
	return series
}
