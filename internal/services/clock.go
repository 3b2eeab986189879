package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campustrack-backend/internal/models"
)

// ClockEventStore is the append-only ledger surface. LatestClockInBefore
// returns pgx.ErrNoRows when the student has no matching clock_in.
type ClockEventStore interface {
	Append(ctx context.Context, e *models.ClockEvent) error
	LatestClockInBefore(ctx context.Context, studentID uuid.UUID, t time.Time) (*models.ClockEvent, error)
	HasClockOutBetween(ctx context.Context, studentID uuid.UUID, from, to time.Time) (bool, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.ClockEvent, error)
}

// CampusTimeCrediter receives valid (clock_in, clock_out) pairs.
type CampusTimeCrediter interface {
	AddDailyCampusTime(ctx context.Context, studentID uuid.UUID, start, end time.Time) error
}

// RawClockEvent is the untrusted wire payload for a clock event. Clients send
// lat/lng/accuracy as JSON numbers or strings, timestamps as ISO-8601 text;
// everything optional is coerced leniently rather than rejected.
type RawClockEvent struct {
	EventType  string          `json:"event_type"`
	Action     string          `json:"action"` // legacy alias for event_type
	Timestamp  string          `json:"timestamp"`
	RecordedAt string          `json:"recorded_at"` // alias for timestamp
	Lat        json.RawMessage `json:"lat"`
	Lng        json.RawMessage `json:"lng"`
	Accuracy   json.RawMessage `json:"accuracy"`
}

// ClockService records ledger events and credits campus time for each valid
// in/out pair. Timestamps are caller-supplied and may arrive out of order;
// pairing always works off recorded_at.
type ClockService struct {
	students StudentDirectory
	events   ClockEventStore
	campus   CampusTimeCrediter
	locks    *studentLocks
}

func NewClockService(students StudentDirectory, events ClockEventStore, campus CampusTimeCrediter) *ClockService {
	return &ClockService{
		students: students,
		events:   events,
		campus:   campus,
		locks:    newStudentLocks(),
	}
}

func (s *ClockService) RecordEvent(ctx context.Context, studentID uuid.UUID, raw RawClockEvent) (*models.ClockEvent, error) {
	unlock := s.locks.lock(studentID)
	defer unlock()

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &StudentNotFoundError{Message: "Student not found"}
		}
		return nil, err
	}

	eventType, err := normalizeEventType(firstNonEmpty(raw.EventType, raw.Action))
	if err != nil {
		return nil, err
	}

	// Unparsable or missing timestamps fall back to now; this is a deliberate
	// leniency for client clock skew, not an error.
	recordedAt, ok := parseEventTimestamp(firstNonEmpty(raw.Timestamp, raw.RecordedAt))
	if !ok {
		recordedAt = time.Now().UTC()
	}

	event := &models.ClockEvent{
		StudentID:  studentID,
		EventType:  eventType,
		RecordedAt: recordedAt,
		Latitude:   parseOptionalFloat(raw.Lat),
		Longitude:  parseOptionalFloat(raw.Lng),
		Accuracy:   parseOptionalFloat(raw.Accuracy),
	}
	if err := s.events.Append(ctx, event); err != nil {
		return nil, err
	}

	if event.EventType == models.ClockOut {
		if err := s.creditPair(ctx, event); err != nil {
			return nil, err
		}
	}

	return event, nil
}

// creditPair finds the clock_in matching a freshly recorded clock_out and
// forwards the interval to the accumulator. No match, or an intervening
// clock_out, credits nothing: the interval is either a gap or already
// credited by an earlier pairing.
func (s *ClockService) creditPair(ctx context.Context, out *models.ClockEvent) error {
	in, err := s.events.LatestClockInBefore(ctx, out.StudentID, out.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	intervened, err := s.events.HasClockOutBetween(ctx, out.StudentID, in.RecordedAt, out.RecordedAt)
	if err != nil {
		return err
	}
	if intervened {
		return nil
	}

	return s.campus.AddDailyCampusTime(ctx, out.StudentID, in.RecordedAt, out.RecordedAt)
}

func (s *ClockService) ListEvents(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.ClockEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.events.ListByStudent(ctx, studentID, limit)
}

// normalizeEventType maps the accepted synonyms onto the two canonical
// ledger types.
func normalizeEventType(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "in", "clockin", "clock_in":
		return models.ClockIn, nil
	case "out", "clockout", "clock_out":
		return models.ClockOut, nil
	default:
		return "", &InvalidEventTypeError{Message: "invalid event type"}
	}
}

// parseEventTimestamp parses an ISO-8601 timestamp. A trailing "Z" is UTC;
// a timestamp with no offset is treated as UTC, and a bare date as midnight
// UTC. Returns false when the value is empty or unparsable so the caller can
// apply its fallback.
func parseEventTimestamp(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}

	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseOptionalFloat coerces a JSON number or numeric string. Anything else
// (including "null" and empty strings) is stored as absent, never an error.
func parseOptionalFloat(raw json.RawMessage) *float64 {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return nil
	}
	value = strings.Trim(value, `"`)
	if value == "" || value == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
