// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/waterlab/sensorlog/api/middleware"
	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// Resources holds all HTTP resource handlers
type Resources struct {
	SensorData *SensorDataHandlers
	System     *SystemHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *service.Service) *Resources {
	return &Resources{
		SensorData: &SensorDataHandlers{service: svc},
		System:     &SystemHandlers{service: svc},
	}
}

func respondWithError(w http.ResponseWriter, r *http.Request, err *errors.APIError) {
	err.WithRequestID(middleware.RequestIDFrom(r.Context()))
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s %s request=%s: %s", r.Method, r.URL.Path, err.RequestID, err.Error())
	} else {
		nuts.L.Warnf("[API] %s %s request=%s: %s", r.Method, r.URL.Path, err.RequestID, err.Error())
	}
	respondWithJSON(w, err.Code, err.Payload())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		nuts.L.Errorf("[API] Failed to encode response: %v", err)
	}
}
