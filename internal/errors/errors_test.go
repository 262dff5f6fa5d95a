package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func TestPayload(t *testing.T) {
	cause := stderrors.New("pq: relation \"sensor_data\" does not exist")
	fieldErrs := map[string][]string{"ph_value": {"This field is required."}}

	tests := []struct {
		name string
		err  *APIError
		code int
		want map[string]any
	}{
		{
			name: "validation with field details",
			err:  NewValidationError("invalid reading", nil).WithDetails(fieldErrs),
			code: http.StatusBadRequest,
			want: map[string]any{"errors": fieldErrs},
		},
		{
			name: "validation flat message",
			err:  NewValidationError("startDate, endDate, and location are required", nil),
			code: http.StatusBadRequest,
			want: map[string]any{"error": "startDate, endDate, and location are required"},
		},
		{
			name: "not found",
			err:  NewNotFoundError("No data found", nil),
			code: http.StatusNotFound,
			want: map[string]any{"message": "No data found"},
		},
		{
			name: "database hides cause",
			err:  NewDatabaseError("failed to insert sensor reading", cause),
			code: http.StatusInternalServerError,
			want: map[string]any{"error": "Internal Server Error"},
		},
		{
			name: "internal hides message",
			err:  NewInternalError("boom", cause),
			code: http.StatusInternalServerError,
			want: map[string]any{"error": "Internal Server Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.code)
			}
			if got := tt.err.Payload(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Payload() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrapAndHelpers(t *testing.T) {
	cause := stderrors.New("connection refused")
	wrapped := fmt.Errorf("fetch: %w", NewDatabaseError("failed to fetch", cause))

	if !stderrors.Is(wrapped, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if IsNotFound(wrapped) || IsValidation(wrapped) {
		t.Error("database error classified as not found or validation")
	}
	if !IsNotFound(fmt.Errorf("x: %w", NewNotFoundError("No data found", nil))) {
		t.Error("IsNotFound should see through fmt wrapping")
	}
	if !IsValidation(NewValidationError("bad", nil)) {
		t.Error("IsValidation = false for validation error")
	}

	if got := AsAPIError(wrapped); got.Type != ErrorTypeDatabase {
		t.Errorf("AsAPIError type = %s, want %s", got.Type, ErrorTypeDatabase)
	}
	plain := AsAPIError(cause)
	if plain.Type != ErrorTypeInternal || plain.Code != http.StatusInternalServerError {
		t.Errorf("AsAPIError(plain) = %+v, want internal 500", plain)
	}
}
