package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/waterlab/sensorlog/internal/errors"
	"github.com/waterlab/sensorlog/internal/models"
	"github.com/waterlab/sensorlog/internal/validation"
)

type fakeRepo struct {
	inserted      []models.SensorReading
	dailyCalls    int
	compareCalls  int
	lastLocations []string
	insertErr     error
	pingErr       error
}

func (f *fakeRepo) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRepo) InsertReading(ctx context.Context, reading *models.SensorReading) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, *reading)
	return nil
}

func (f *fakeRepo) FetchReadings(ctx context.Context, filter models.ReadingFilter) ([]models.Row, error) {
	return nil, errors.NewNotFoundError("No data found", nil)
}

func (f *fakeRepo) FetchDailyAverage(ctx context.Context, dates models.DateRange, location string) ([]models.DailyAverage, error) {
	f.dailyCalls++
	return []models.DailyAverage{}, nil
}

func (f *fakeRepo) FetchComparisonDailyAverage(ctx context.Context, dates models.DateRange, locations []string) (models.ComparisonSeries, error) {
	f.compareCalls++
	f.lastLocations = locations
	return models.ComparisonSeries{}, nil
}

func validValues() url.Values {
	return url.Values{
		"ph_value":    {"6.5"},
		"temperature": {"17"},
		"location":    {"River"},
		"time":        {"10:00"},
		"date":        {"2024-05-01"},
	}
}

func TestValidate(t *testing.T) {
	if err := New(nil).Validate(); err == nil {
		t.Fatal("Validate accepted a nil repository")
	}
	if err := New(&fakeRepo{}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSubmitReading_Valid(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	got, err := svc.SubmitReading(context.Background(), validValues())
	if err != nil {
		t.Fatalf("SubmitReading: %v", err)
	}
	if len(repo.inserted) != 1 || !reflect.DeepEqual(repo.inserted[0], *got) {
		t.Fatalf("inserted = %+v, want [%+v]", repo.inserted, *got)
	}
}

func TestSubmitReading_InvalidWritesNothing(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)
	values := validValues()
	values.Del("date")
	values.Set("ph_value", "seven")

	_, err := svc.SubmitReading(context.Background(), values)
	if !errors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	details, ok := errors.AsAPIError(err).Details.(validation.FieldErrors)
	if !ok {
		t.Fatalf("details = %#v, want FieldErrors", errors.AsAPIError(err).Details)
	}
	if len(details["date"]) != 1 || len(details["ph_value"]) != 1 {
		t.Fatalf("details = %v, want date and ph_value errors", details)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("invalid reading was written: %+v", repo.inserted)
	}
}

func TestSubmitReading_DatabaseError(t *testing.T) {
	cause := stderrors.New("disk full")
	svc := New(&fakeRepo{insertErr: errors.NewDatabaseError("failed to insert sensor reading", cause)})

	_, err := svc.SubmitReading(context.Background(), validValues())
	if !stderrors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapping %v", err, cause)
	}
}

func TestInsertReading_EmitsEvent(t *testing.T) {
	svc := New(&fakeRepo{})
	got := make(chan models.SensorReading, 1)
	if err := svc.OnReadingInserted("test", func(r models.SensorReading) { got <- r }); err != nil {
		t.Fatalf("OnReadingInserted: %v", err)
	}

	in := models.SensorReading{PhValue: 7, Temperature: 20, Location: "Bay", Time: "t", Date: "2024-01-01"}
	if err := svc.InsertReading(context.Background(), &in); err != nil {
		t.Fatalf("InsertReading: %v", err)
	}

	select {
	case r := <-got:
		if r != in {
			t.Fatalf("event reading = %+v, want %+v", r, in)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reading.inserted was not emitted")
	}
}

func TestFetchDailyAverage_RequiresAllParams(t *testing.T) {
	tests := []struct {
		name     string
		dates    models.DateRange
		location string
	}{
		{"no start", models.DateRange{End: "2024-01-02"}, "L1"},
		{"no end", models.DateRange{Start: "2024-01-01"}, "L1"},
		{"no location", models.DateRange{Start: "2024-01-01", End: "2024-01-02"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			_, err := New(repo).FetchDailyAverage(context.Background(), tt.dates, tt.location)
			if !errors.IsValidation(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if want := map[string]any{"error": msgGraphParamsRequired}; !reflect.DeepEqual(errors.AsAPIError(err).Payload(), want) {
				t.Fatalf("payload = %v, want %v", errors.AsAPIError(err).Payload(), want)
			}
			if repo.dailyCalls != 0 {
				t.Fatal("query ran despite missing parameters")
			}
		})
	}
}

func TestFetchComparisonDailyAverage_RequiresAllParams(t *testing.T) {
	repo := &fakeRepo{}
	_, err := New(repo).FetchComparisonDailyAverage(context.Background(), models.DateRange{Start: "2024-01-01", End: "2024-01-02"}, "")
	if !errors.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if errors.AsAPIError(err).Message != msgCompareParamsRequired {
		t.Fatalf("message = %q", errors.AsAPIError(err).Message)
	}
	if repo.compareCalls != 0 {
		t.Fatal("query ran despite missing parameters")
	}
}

func TestFetchComparisonDailyAverage_SplitsVerbatim(t *testing.T) {
	repo := &fakeRepo{}
	dates := models.DateRange{Start: "2024-01-01", End: "2024-01-02"}
	if _, err := New(repo).FetchComparisonDailyAverage(context.Background(), dates, "L1, L2,L1,"); err != nil {
		t.Fatalf("FetchComparisonDailyAverage: %v", err)
	}
	want := []string{"L1", " L2", "L1", ""}
	if !reflect.DeepEqual(repo.lastLocations, want) {
		t.Fatalf("locations = %q, want %q", repo.lastLocations, want)
	}
}

func TestHealth(t *testing.T) {
	down := stderrors.New("down")
	if err := New(&fakeRepo{pingErr: down}).Health(context.Background()); !stderrors.Is(err, down) {
		t.Fatalf("Health err = %v, want %v", err, down)
	}
}

func TestInsertReading_SlowSubscriberDoesNotBlock(t *testing.T) {
	svc := New(&fakeRepo{})
	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{}, 1)
	if err := svc.OnReadingInserted("slow", func(models.SensorReading) {
		started <- struct{}{}
		<-release
	}); err != nil {
		t.Fatalf("OnReadingInserted: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- svc.InsertReading(context.Background(), &models.SensorReading{Location: "Bay"})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("InsertReading: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("InsertReading waited for a blocked subscriber")
	}

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber never ran")
	}
}

func TestInsertReading_EveryTypedSubscriberRuns(t *testing.T) {
	svc := New(&fakeRepo{})
	got := make(chan string, 2)
	for _, id := range []string{"first", "second"} {
		if err := svc.OnReadingInserted(id, func(r models.SensorReading) { got <- id + ":" + r.Location }); err != nil {
			t.Fatalf("OnReadingInserted(%s): %v", id, err)
		}
	}

	if err := svc.InsertReading(context.Background(), &models.SensorReading{Location: "Pier"}); err != nil {
		t.Fatalf("InsertReading: %v", err)
	}

	seen := map[string]bool{}
	for len(seen) < 2 {
		select {
		case s := <-got:
			seen[s] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("subscribers seen = %v, want first:Pier and second:Pier", seen)
		}
	}
	if !seen["first:Pier"] || !seen["second:Pier"] {
		t.Fatalf("subscribers seen = %v", seen)
	}
}
