// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/waterlab/sensorlog/internal/models"
)

var (
	// ErrNotFound indicates that a query matched no rows
	ErrNotFound = errors.New("no data found")
)

// SensorDataRepository defines the interface for sensor reading storage
type SensorDataRepository interface {
	Ping(ctx context.Context) error
	InsertReading(ctx context.Context, reading *models.SensorReading) error
	FetchReadings(ctx context.Context, filter models.ReadingFilter) ([]models.Row, error)
	FetchDailyAverage(ctx context.Context, dates models.DateRange, location string) ([]models.DailyAverage, error)
	FetchComparisonDailyAverage(ctx context.Context, dates models.DateRange, locations []string) (models.ComparisonSeries, error)
}
