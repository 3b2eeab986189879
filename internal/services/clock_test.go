package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campustrack-backend/internal/models"
)

type stubStudentDirectory struct {
	known map[uuid.UUID]bool
}

func (s *stubStudentDirectory) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	if s.known[id] {
		return &models.Student{ID: id}, nil
	}
	return nil, pgx.ErrNoRows
}

type stubClockEventStore struct {
	appended   []*models.ClockEvent
	latestIn   *models.ClockEvent
	intervened bool
}

func (s *stubClockEventStore) Append(_ context.Context, e *models.ClockEvent) error {
	s.appended = append(s.appended, e)
	return nil
}

func (s *stubClockEventStore) LatestClockInBefore(_ context.Context, _ uuid.UUID, _ time.Time) (*models.ClockEvent, error) {
	if s.latestIn == nil {
		return nil, pgx.ErrNoRows
	}
	return s.latestIn, nil
}

func (s *stubClockEventStore) HasClockOutBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) (bool, error) {
	return s.intervened, nil
}

func (s *stubClockEventStore) ListByStudent(_ context.Context, _ uuid.UUID, _ int) ([]*models.ClockEvent, error) {
	return s.appended, nil
}

type stubCrediter struct {
	credits []struct{ start, end time.Time }
}

func (s *stubCrediter) AddDailyCampusTime(_ context.Context, _ uuid.UUID, start, end time.Time) error {
	s.credits = append(s.credits, struct{ start, end time.Time }{start, end})
	return nil
}

func newTestClockService(studentID uuid.UUID, events *stubClockEventStore, crediter *stubCrediter) *ClockService {
	students := &stubStudentDirectory{known: map[uuid.UUID]bool{studentID: true}}
	return NewClockService(students, events, crediter)
}

func TestNormalizeEventType(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"in", models.ClockIn},
		{"clockin", models.ClockIn},
		{"clock_in", models.ClockIn},
		{"IN", models.ClockIn},
		{" Clock_In ", models.ClockIn},
		{"out", models.ClockOut},
		{"clockout", models.ClockOut},
		{"clock_out", models.ClockOut},
		{"OUT", models.ClockOut},
	}

	for _, tc := range tests {
		got, err := normalizeEventType(tc.raw)
		if err != nil {
			t.Errorf("normalizeEventType(%q) returned error: %v", tc.raw, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("normalizeEventType(%q) = %q, want %q", tc.raw, got, tc.expected)
		}
	}
}

func TestNormalizeEventType_Invalid(t *testing.T) {
	for _, raw := range []string{"", "checkin", "inn", "clock-in", "break"} {
		_, err := normalizeEventType(raw)
		var invalid *InvalidEventTypeError
		if !errors.As(err, &invalid) {
			t.Errorf("normalizeEventType(%q): expected InvalidEventTypeError, got %v", raw, err)
		}
	}
}

func TestParseEventTimestamp(t *testing.T) {
	tests := []struct {
		raw      string
		expected time.Time
	}{
		{"2026-03-10T09:00:00Z", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2026-03-10T09:00:00+02:00", time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)},
		{"2026-03-10T09:00:00", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2026-03-10 09:00:00", time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		{"2026-03-10T09:00:00.123456", time.Date(2026, 3, 10, 9, 0, 0, 123456000, time.UTC)},
		{"2026-03-10", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range tests {
		got, ok := parseEventTimestamp(tc.raw)
		if !ok {
			t.Errorf("parseEventTimestamp(%q): expected success", tc.raw)
			continue
		}
		if !got.Equal(tc.expected) {
			t.Errorf("parseEventTimestamp(%q) = %v, want %v", tc.raw, got, tc.expected)
		}
	}

	for _, raw := range []string{"", "not a time", "10/03/2026 09:00"} {
		if _, ok := parseEventTimestamp(raw); ok {
			t.Errorf("parseEventTimestamp(%q): expected failure", raw)
		}
	}
}

func TestParseOptionalFloat(t *testing.T) {
	tests := []struct {
		raw      string
		expected *float64
	}{
		{`33.755`, floatPtr(33.755)},
		{`"33.755"`, floatPtr(33.755)},
		{`-84.39`, floatPtr(-84.39)},
		{`0`, floatPtr(0)},
		{``, nil},
		{`null`, nil},
		{`""`, nil},
		{`"abc"`, nil},
		{`true`, nil},
	}

	for _, tc := range tests {
		got := parseOptionalFloat(json.RawMessage(tc.raw))
		switch {
		case tc.expected == nil && got != nil:
			t.Errorf("parseOptionalFloat(%q) = %v, want nil", tc.raw, *got)
		case tc.expected != nil && got == nil:
			t.Errorf("parseOptionalFloat(%q) = nil, want %v", tc.raw, *tc.expected)
		case tc.expected != nil && got != nil && *got != *tc.expected:
			t.Errorf("parseOptionalFloat(%q) = %v, want %v", tc.raw, *got, *tc.expected)
		}
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestRecordEvent_UnknownStudent(t *testing.T) {
	svc := NewClockService(&stubStudentDirectory{known: map[uuid.UUID]bool{}}, &stubClockEventStore{}, &stubCrediter{})

	_, err := svc.RecordEvent(context.Background(), uuid.New(), RawClockEvent{EventType: "in"})
	var notFound *StudentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected StudentNotFoundError, got %v", err)
	}
}

func TestRecordEvent_InvalidType(t *testing.T) {
	studentID := uuid.New()
	events := &stubClockEventStore{}
	svc := newTestClockService(studentID, events, &stubCrediter{})

	_, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{EventType: "lunch"})
	var invalid *InvalidEventTypeError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidEventTypeError, got %v", err)
	}
	if len(events.appended) != 0 {
		t.Errorf("Rejected event must not be appended")
	}
}

func TestRecordEvent_UnparsableTimestampFallsBackToNow(t *testing.T) {
	studentID := uuid.New()
	events := &stubClockEventStore{}
	svc := newTestClockService(studentID, events, &stubCrediter{})

	before := time.Now().UTC()
	event, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{
		EventType: "in",
		Timestamp: "yesterday-ish",
	})
	if err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}
	after := time.Now().UTC()

	if event.RecordedAt.Before(before) || event.RecordedAt.After(after) {
		t.Errorf("Expected fallback timestamp near now, got %v", event.RecordedAt)
	}
}

func TestRecordEvent_LegacyAliases(t *testing.T) {
	studentID := uuid.New()
	events := &stubClockEventStore{}
	svc := newTestClockService(studentID, events, &stubCrediter{})

	event, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{
		Action:     "clockin",
		RecordedAt: "2026-03-10T09:00:00Z",
		Lat:        json.RawMessage(`"33.755"`),
		Lng:        json.RawMessage(`-84.39`),
	})
	if err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	if event.EventType != models.ClockIn {
		t.Errorf("Expected clock_in, got %q", event.EventType)
	}
	if !event.RecordedAt.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected recorded_at from recorded_at alias, got %v", event.RecordedAt)
	}
	if event.Latitude == nil || *event.Latitude != 33.755 {
		t.Errorf("Expected quoted lat coerced to 33.755, got %v", event.Latitude)
	}
	if event.Longitude == nil || *event.Longitude != -84.39 {
		t.Errorf("Expected lng -84.39, got %v", event.Longitude)
	}
	if event.Accuracy != nil {
		t.Errorf("Expected absent accuracy, got %v", *event.Accuracy)
	}
}

func TestRecordEvent_ClockOutCreditsPair(t *testing.T) {
	studentID := uuid.New()
	inAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	events := &stubClockEventStore{
		latestIn: &models.ClockEvent{StudentID: studentID, EventType: models.ClockIn, RecordedAt: inAt},
	}
	crediter := &stubCrediter{}
	svc := newTestClockService(studentID, events, crediter)

	_, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{
		EventType: "out",
		Timestamp: "2026-03-10T17:00:00Z",
	})
	if err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}

	if len(crediter.credits) != 1 {
		t.Fatalf("Expected exactly one credit, got %d", len(crediter.credits))
	}
	credit := crediter.credits[0]
	if !credit.start.Equal(inAt) {
		t.Errorf("Credit start = %v, want %v", credit.start, inAt)
	}
	if !credit.end.Equal(time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)) {
		t.Errorf("Credit end = %v, want 17:00Z", credit.end)
	}
}

func TestRecordEvent_ClockOutWithoutClockInCreditsNothing(t *testing.T) {
	studentID := uuid.New()
	events := &stubClockEventStore{} // no latest clock_in
	crediter := &stubCrediter{}
	svc := newTestClockService(studentID, events, crediter)

	_, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{
		EventType: "out",
		Timestamp: "2026-03-10T17:00:00Z",
	})
	if err != nil {
		t.Fatalf("Unpaired clock_out must still be recorded without error: %v", err)
	}

	if len(events.appended) != 1 {
		t.Errorf("Expected the event to be appended, got %d", len(events.appended))
	}
	if len(crediter.credits) != 0 {
		t.Errorf("Expected no credit, got %d", len(crediter.credits))
	}
}

func TestRecordEvent_InterveningClockOutCreditsNothing(t *testing.T) {
	studentID := uuid.New()
	events := &stubClockEventStore{
		latestIn: &models.ClockEvent{
			StudentID:  studentID,
			EventType:  models.ClockIn,
			RecordedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
		intervened: true,
	}
	crediter := &stubCrediter{}
	svc := newTestClockService(studentID, events, crediter)

	_, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{
		EventType: "out",
		Timestamp: "2026-03-10T17:00:00Z",
	})
	if err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}
	if len(crediter.credits) != 0 {
		t.Errorf("Interval already closed by an earlier clock_out must not be re-credited")
	}
}

func TestRecordEvent_ClockInNeverCredits(t *testing.T) {
	studentID := uuid.New()
	events := &stubClockEventStore{
		latestIn: &models.ClockEvent{StudentID: studentID, RecordedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
	}
	crediter := &stubCrediter{}
	svc := newTestClockService(studentID, events, crediter)

	_, err := svc.RecordEvent(context.Background(), studentID, RawClockEvent{
		EventType: "in",
		Timestamp: "2026-03-10T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("RecordEvent failed: %v", err)
	}
	if len(crediter.credits) != 0 {
		t.Errorf("clock_in must never trigger a credit")
	}
}
