package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClockIn  = "clock_in"
	ClockOut = "clock_out"
)

// ClockEvent is an append-only in/out marker for campus-time accounting.
// RecordedAt may be client-supplied, so events can arrive out of order;
// pairing logic orders by RecordedAt, never by insertion order.
type ClockEvent struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	EventType  string    `json:"event_type"`
	RecordedAt time.Time `json:"recorded_at"`
	Latitude   *float64  `json:"lat"`
	Longitude  *float64  `json:"lng"`
	Accuracy   *float64  `json:"accuracy"`
	CreatedAt  time.Time `json:"created_at"`
}

// DailyCampusTime is a derived per-day total, rebuildable from the clock-event
// ledger. TotalSeconds only ever grows.
type DailyCampusTime struct {
	StudentID    uuid.UUID `json:"student_id"`
	Day          time.Time `json:"day"`
	TotalSeconds int       `json:"total_seconds"`
}
