// FilePath: internal/validation/validation.go
package validation

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/waterlab/sensorlog/internal/models"
)

const (
	MsgRequired     = "This field is required."
	MsgInvalidFloat = "Not a valid float value."
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// FieldErrors maps a field name to its human-readable errors
type FieldErrors map[string][]string

// Add appends msg to the errors of field
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// RawReading holds the submitted fields of a reading before type checks
type RawReading struct {
	PhValue     string `schema:"ph_value"`
	Temperature string `schema:"temperature"`
	Location    string `schema:"location"`
	Time        string `schema:"time"`
	Date        string `schema:"date"`
}

// DecodeRawReading pulls the reading fields out of form or query values.
// Unknown keys are ignored.
func DecodeRawReading(values url.Values) (RawReading, error) {
	var raw RawReading
	if err := decoder.Decode(&raw, values); err != nil {
		return RawReading{}, err
	}
	return raw, nil
}

// ValidateReading decodes and validates values in one step. A decode failure
// is reported against the form as a whole under the "form" key.
func ValidateReading(values url.Values) (*models.SensorReading, FieldErrors) {
	raw, err := DecodeRawReading(values)
	if err != nil {
		errs := FieldErrors{}
		errs.Add("form", err.Error())
		return nil, errs
	}
	return raw.Validate()
}

// Validate checks presence of every field and that ph_value and temperature
// are finite numbers. Ranges are not checked.
func (r RawReading) Validate() (*models.SensorReading, FieldErrors) {
	errs := FieldErrors{}

	ph := parseFloatField(errs, "ph_value", r.PhValue)
	temp := parseFloatField(errs, "temperature", r.Temperature)
	requireString(errs, "location", r.Location)
	requireString(errs, "time", r.Time)
	requireString(errs, "date", r.Date)

	if len(errs) > 0 {
		return nil, errs
	}
	return &models.SensorReading{
		PhValue:     ph,
		Temperature: temp,
		Location:    r.Location,
		Time:        r.Time,
		Date:        r.Date,
	}, nil
}

func requireString(errs FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, MsgRequired)
	}
}

func parseFloatField(errs FieldErrors, field, value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.Add(field, MsgRequired)
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		errs.Add(field, MsgInvalidFloat)
		return 0
	}
	return f
}
