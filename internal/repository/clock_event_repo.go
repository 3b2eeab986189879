package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type ClockEventRepo struct {
	pool *pgxpool.Pool
}

func NewClockEventRepo(pool *pgxpool.Pool) *ClockEventRepo {
	return &ClockEventRepo{pool: pool}
}

// Append inserts a ledger event. Events are never updated or deleted.
func (r *ClockEventRepo) Append(ctx context.Context, e *models.ClockEvent) error {
	query := `
		INSERT INTO clock_events (id, student_id, event_type, recorded_at, lat, lng, accuracy)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	e.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		e.ID, e.StudentID, e.EventType, e.RecordedAt, e.Latitude, e.Longitude, e.Accuracy,
	).Scan(&e.CreatedAt)
}

// LatestClockInBefore returns the most recent clock_in at or before t, or
// pgx.ErrNoRows when the student has none.
func (r *ClockEventRepo) LatestClockInBefore(ctx context.Context, studentID uuid.UUID, t time.Time) (*models.ClockEvent, error) {
	e := &models.ClockEvent{}
	query := `SELECT id, student_id, event_type, recorded_at, lat, lng, accuracy, created_at
		FROM clock_events
		WHERE student_id = $1 AND event_type = $2 AND recorded_at <= $3
		ORDER BY recorded_at DESC
		LIMIT 1`

	err := r.pool.QueryRow(ctx, query, studentID, models.ClockIn, t).Scan(
		&e.ID, &e.StudentID, &e.EventType, &e.RecordedAt, &e.Latitude, &e.Longitude, &e.Accuracy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// HasClockOutBetween reports whether any clock_out falls strictly between
// from and to for the student.
func (r *ClockEventRepo) HasClockOutBetween(ctx context.Context, studentID uuid.UUID, from, to time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM clock_events
			WHERE student_id = $1 AND event_type = $2
			  AND recorded_at > $3 AND recorded_at < $4
		)
	`, studentID, models.ClockOut, from, to).Scan(&exists)
	return exists, err
}

func (r *ClockEventRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.ClockEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, student_id, event_type, recorded_at, lat, lng, accuracy, created_at
		FROM clock_events
		WHERE student_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.ClockEvent
	for rows.Next() {
		e := &models.ClockEvent{}
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.EventType, &e.RecordedAt, &e.Latitude, &e.Longitude, &e.Accuracy, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
