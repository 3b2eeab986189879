package models

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is one geofenced check-in/check-out cycle. At most one session
// per student may have a null EndedAt ("active"); the state machine in
// services enforces this together with a partial unique index in storage.
type StudySession struct {
	ID             uuid.UUID  `json:"session_id"`
	StudentID      uuid.UUID  `json:"student_id"`
	StartedAt      time.Time  `json:"start_time"`
	EndedAt        *time.Time `json:"end_time,omitempty"`
	StartLatitude  float64    `json:"start_latitude"`
	StartLongitude float64    `json:"start_longitude"`
	EndLatitude    *float64   `json:"end_latitude,omitempty"`
	EndLongitude   *float64   `json:"end_longitude,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
