package resources

import (
	"net/http"

	"github.com/swaggo/swag"
	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/service"
	nuts "github.com/vaudience/go-nuts"
)

// SystemHandlers serves health, API docs and the fallback error routes
type SystemHandlers struct {
	service *service.Service
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *SystemHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Health(r.Context()); err != nil {
		nuts.L.Errorf("[API] Health check failed: %v", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "version": nuts.GetVersion()})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": nuts.GetVersion()})
}

// SwaggerDoc serves the registered OpenAPI document
func (h *SystemHandlers) SwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		respondWithError(w, r, errors.NewInternalError("swagger doc not registered", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(doc)); err != nil {
		nuts.L.Errorf("[API] Failed to write swagger doc: %v", err)
	}
}

func (h *SystemHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	nuts.L.Warnf("[API] 404 Error: %s %s", r.Method, r.URL.Path)
	respondWithJSON(w, http.StatusNotFound, map[string]string{"error": "Resource not found"})
}

func (h *SystemHandlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}
