// FilePath: api/resources/api.resource.sensor_data.go
package resources

import (
	stderrors "errors"
	"net/http"

	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/models"
	"github.com/waterlab/sensorlog/internal/service"
	"github.com/waterlab/sensorlog/internal/validation"
)

const maxFormMemory = 1 << 20

// SensorDataHandlers encapsulates the sensor reading HTTP handlers
type SensorDataHandlers struct {
	service *service.Service
}

type graphQuery struct {
	StartDate string `schema:"startDate"`
	EndDate   string `schema:"endDate"`
	Location  string `schema:"location"`
}

type compareQuery struct {
	StartDate string `schema:"startDate"`
	EndDate   string `schema:"endDate"`
	Locations string `schema:"locations"`
}

// @Summary Record a sensor reading
// @Description Store one reading submitted as form fields
// @Tags data
// @Accept x-www-form-urlencoded
// @Produce json
// @Param ph_value formData number true "pH value"
// @Param temperature formData number true "Temperature"
// @Param location formData string true "Location"
// @Param time formData string true "Time of day"
// @Param date formData string true "Date (YYYY-MM-DD)"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /data [post]
func (h *SensorDataHandlers) PostData(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !stderrors.Is(err, http.ErrNotMultipart) {
		respondWithError(w, r, errors.NewValidationError("invalid form body", err).
			WithDetails(validation.FieldErrors{"form": {err.Error()}}))
		return
	}

	if _, err := h.service.SubmitReading(r.Context(), r.PostForm); err != nil {
		respondWithError(w, r, errors.AsAPIError(err))
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"message": "Data inserted successfully"})
}

// @Summary List sensor readings
// @Description Get all readings, optionally filtered by date and location
// @Tags data
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD)"
// @Param location query string false "Location"
// @Success 200 {array} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /data [get]
func (h *SensorDataHandlers) GetData(w http.ResponseWriter, r *http.Request) {
	var filter models.ReadingFilter
	if err := queryDecoder.Decode(&filter, r.URL.Query()); err != nil {
		respondWithError(w, r, errors.NewValidationError("invalid query parameters", err))
		return
	}

	rows, err := h.service.FetchReadings(r.Context(), filter)
	if err != nil {
		respondWithError(w, r, errors.AsAPIError(err))
		return
	}

	respondWithJSON(w, http.StatusOK, rows)
}

// @Summary Daily pH averages for one location
// @Description Mean pH per day within an inclusive date range
// @Tags graph
// @Produce json
// @Param startDate query string true "First date (YYYY-MM-DD)"
// @Param endDate query string true "Last date (YYYY-MM-DD)"
// @Param location query string true "Location"
// @Success 200 {array} models.DailyAverage
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /graph-data [get]
func (h *SensorDataHandlers) GetGraphData(w http.ResponseWriter, r *http.Request) {
	var q graphQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, r, errors.NewValidationError("invalid query parameters", err))
		return
	}

	averages, err := h.service.FetchDailyAverage(r.Context(), models.DateRange{Start: q.StartDate, End: q.EndDate}, q.Location)
	if err != nil {
		respondWithError(w, r, errors.AsAPIError(err))
		return
	}

	respondWithJSON(w, http.StatusOK, averages)
}

// @Summary Compare daily pH averages across locations
// @Description Mean pH per day and location, keyed by location
// @Tags graph
// @Produce json
// @Param startDate query string true "First date (YYYY-MM-DD)"
// @Param endDate query string true "Last date (YYYY-MM-DD)"
// @Param locations query string true "Comma-separated locations"
// @Success 200 {object} map[string][]models.DailyAverage
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /compare-graph-data [get]
func (h *SensorDataHandlers) CompareGraphData(w http.ResponseWriter, r *http.Request) {
	var q compareQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		respondWithError(w, r, errors.NewValidationError("invalid query parameters", err))
		return
	}

	series, err := h.service.FetchComparisonDailyAverage(r.Context(), models.DateRange{Start: q.StartDate, End: q.EndDate}, q.Locations)
	if err != nil {
		respondWithError(w, r, errors.AsAPIError(err))
		return
	}

	respondWithJSON(w, http.StatusOK, series)
}
