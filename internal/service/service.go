package service

import (
	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// Service contains the repositories and service-wide dependencies
type Service struct {
	sensorData repository.SensorDataRepository
	events     *nuts.EventEmitter
}

// New creates a new service instance
func New(sensorData repository.SensorDataRepository) *Service {
	return &Service{
		sensorData: sensorData,
		events:     nuts.NewEventEmitter(),
	}
}

// Validate checks if all required repositories are initialized
func (s *Service) Validate() error {
	if s.sensorData == nil {
		return ErrMissingRepository("sensorData")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}
