package models

import (
	"time"

	"github.com/google/uuid"
)

type StudentLocation struct {
	ID        uuid.UUID  `json:"id"`
	StudentID uuid.UUID  `json:"student_id"`
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lng"`
	Accuracy  *float64   `json:"accuracy"`
	City      *string    `json:"city"`
	ClassID   *uuid.UUID `json:"class_id"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
}

// LiveLocation is a professor-dashboard view row: a student plus their most
// recent position.
type LiveLocation struct {
	StudentID uuid.UUID `json:"student_id"`
	FullName  string    `json:"full_name"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Accuracy  *float64  `json:"accuracy"`
	City      *string   `json:"city"`
	LastSeen  time.Time `json:"last_seen"`
}
