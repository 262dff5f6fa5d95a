package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/models"
	"github.com/waterlab/sensorlog/internal/validation"
	nuts "github.com/vaudience/go-nuts"
)

// EventReadingInserted is emitted with a models.SensorReading after a successful insert
const EventReadingInserted = "reading.inserted"

const (
	msgGraphParamsRequired   = "startDate, endDate, and location are required"
	msgCompareParamsRequired = "startDate, endDate, and locations are required"
)

// SubmitReading validates raw field values and stores the resulting reading.
// Field errors come back as a validation error carrying the field map as details.
func (s *Service) SubmitReading(ctx context.Context, values url.Values) (*models.SensorReading, error) {
	reading, fieldErrs := validation.ValidateReading(values)
	if fieldErrs != nil {
		return nil, errors.NewValidationError("invalid sensor reading", nil).WithDetails(fieldErrs)
	}
	if err := s.InsertReading(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

// InsertReading stores an already validated reading
func (s *Service) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	if err := s.sensorData.InsertReading(ctx, reading); err != nil {
		return err
	}
	s.emitReadingInserted(*reading)
	return nil
}

// emitReadingInserted notifies subscribers outside the caller's goroutine so a
// slow subscriber never holds up the response.
func (s *Service) emitReadingInserted(reading models.SensorReading) {
	go func() {
		if err := s.events.EmitConcurrent(EventReadingInserted, reading); err != nil {
			nuts.L.Errorf("[Service] Failed to dispatch %s for %s: %v", EventReadingInserted, reading.Location, err)
		}
	}()
}

func (s *Service) FetchReadings(ctx context.Context, filter models.ReadingFilter) ([]models.Row, error) {
	return s.sensorData.FetchReadings(ctx, filter)
}

// FetchDailyAverage requires all three parameters before touching the database
func (s *Service) FetchDailyAverage(ctx context.Context, dates models.DateRange, location string) ([]models.DailyAverage, error) {
	if dates.Start == "" || dates.End == "" || location == "" {
		return nil, errors.NewValidationError(msgGraphParamsRequired, nil)
	}
	return s.sensorData.FetchDailyAverage(ctx, dates, location)
}

// FetchComparisonDailyAverage splits locationsCSV on commas as-is: entries are
// neither trimmed nor de-duplicated.
func (s *Service) FetchComparisonDailyAverage(ctx context.Context, dates models.DateRange, locationsCSV string) (models.ComparisonSeries, error) {
	if dates.Start == "" || dates.End == "" || locationsCSV == "" {
		return nil, errors.NewValidationError(msgCompareParamsRequired, nil)
	}
	return s.sensorData.FetchComparisonDailyAverage(ctx, dates, strings.Split(locationsCSV, ","))
}

// Health pings the database
func (s *Service) Health(ctx context.Context) error {
	return s.sensorData.Ping(ctx)
}

// OnReadingInserted registers a callback for stored readings. Callbacks run
// concurrently with each other and with the request that stored the reading.
func (s *Service) OnReadingInserted(listenerID string, handler func(reading models.SensorReading)) error {
	if _, err := s.events.On(EventReadingInserted, listenerID, handler); err != nil {
		return fmt.Errorf("subscribe %s to %s: %w", listenerID, EventReadingInserted, err)
	}
	return nil
}
