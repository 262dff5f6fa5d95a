package ingest

import (
	"context"
	stderrors "errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/waterlab/sensorlog/internal/config"
	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/models"
	"github.com/waterlab/sensorlog/internal/validation"
)

type fakeSubmitter struct {
	calls []url.Values
	err   error
}

func (f *fakeSubmitter) SubmitReading(ctx context.Context, values url.Values) (*models.SensorReading, error) {
	f.calls = append(f.calls, values)
	if f.err != nil {
		return nil, f.err
	}
	reading, fieldErrs := validation.ValidateReading(values)
	if fieldErrs != nil {
		return nil, errors.NewValidationError("invalid sensor reading", nil).WithDetails(fieldErrs)
	}
	return reading, nil
}

func TestPayloadToValues(t *testing.T) {
	got, err := PayloadToValues([]byte(`{"ph_value": 7.10, "temperature": -2, "location": "Buoy 3", "time": "08:15", "date": "2024-03-01", "note": null}`))
	if err != nil {
		t.Fatalf("PayloadToValues: %v", err)
	}
	want := url.Values{
		"ph_value":    {"7.10"},
		"temperature": {"-2"},
		"location":    {"Buoy 3"},
		"time":        {"08:15"},
		"date":        {"2024-03-01"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("values = %v, want %v", got, want)
	}
}

func TestPayloadToValues_Rejects(t *testing.T) {
	for name, payload := range map[string]string{
		"not json": `ph=7`,
		"array":    `[1,2]`,
		"nested":   `{"location": {"name": "x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := PayloadToValues([]byte(payload)); err == nil {
				t.Fatalf("PayloadToValues(%s) succeeded", payload)
			}
		})
	}
}

func TestHandlePayload(t *testing.T) {
	sub := &fakeSubmitter{}
	in := &MQTTIngestor{submitter: sub}
	ctx := context.Background()

	in.handlePayload(ctx, "sensors/a/readings", []byte(`{"ph_value": 7, "temperature": 20, "location": "A", "time": "t", "date": "d"}`))
	in.handlePayload(ctx, "sensors/a/readings", []byte(`{"ph_value": "acid"}`))
	in.handlePayload(ctx, "sensors/a/readings", []byte(`garbage`))

	// the malformed message never reaches the submitter
	if len(sub.calls) != 2 {
		t.Fatalf("submitter called %d times, want 2", len(sub.calls))
	}
	if sub.calls[0].Get("location") != "A" {
		t.Errorf("first call = %v", sub.calls[0])
	}
}

func TestHandlePayload_StoreFailureIsLogged(t *testing.T) {
	sub := &fakeSubmitter{err: errors.NewDatabaseError("failed to insert sensor reading", stderrors.New("locked"))}
	in := &MQTTIngestor{submitter: sub}
	in.handlePayload(context.Background(), "t", []byte(`{"location": "A"}`))
	if len(sub.calls) != 1 {
		t.Fatalf("submitter called %d times, want 1", len(sub.calls))
	}
}

func TestStart_RespectsContext(t *testing.T) {
	in := NewMQTTIngestor(config.MQTTConfig{
		Broker:   "127.0.0.1",
		Port:     1,
		ClientID: "sensorlog-test",
		Topic:    "sensors/+/readings",
		QoS:      1,
	}, &fakeSubmitter{})
	defer in.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := in.Start(ctx); !stderrors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Start err = %v, want deadline exceeded", err)
	}
}
