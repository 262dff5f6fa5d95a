// FilePath: internal/models/models.sensor_data.go
package models

// SensorReading represents a single environmental observation
type SensorReading struct {
	PhValue     float64 `json:"ph_value" db:"ph_value"`
	Temperature float64 `json:"temperature" db:"temperature"`
	Location    string  `json:"location" db:"location"`
	Time        string  `json:"time" db:"time"` // stored verbatim
	Date        string  `json:"date" db:"date"` // YYYY-MM-DD, compared lexicographically
}

// DailyAverage is the mean pH of all readings sharing a date
type DailyAverage struct {
	Date    string  `json:"date" db:"date"`
	PhValue float64 `json:"ph_value" db:"ph_value"`
}

// LocationDailyAverage is one flat row of the comparison query before it is
// grouped by location.
type LocationDailyAverage struct {
	Location string  `db:"location"`
	Date     string  `db:"date"`
	PhValue  float64 `db:"ph_value"`
}

// ComparisonSeries maps a location to its date-ordered daily averages
type ComparisonSeries map[string][]DailyAverage
