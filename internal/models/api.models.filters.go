// FilePath: internal/models/api.models.filters.go
package models

// ReadingFilter defines the optional equality filters for listing readings.
// Empty fields are not applied.
type ReadingFilter struct {
	Date     string `json:"date" schema:"date"`
	Location string `json:"location" schema:"location"`
}

// DateRange is an inclusive range of YYYY-MM-DD dates
type DateRange struct {
	Start string `json:"startDate" schema:"startDate"`
	End   string `json:"endDate" schema:"endDate"`
}
