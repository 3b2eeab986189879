package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type StudySessionRepo struct {
	pool *pgxpool.Pool
}

func NewStudySessionRepo(pool *pgxpool.Pool) *StudySessionRepo {
	return &StudySessionRepo{pool: pool}
}

// Create inserts a new active session. A partial unique index on
// (student_id) WHERE ended_at IS NULL makes a second concurrent insert fail
// even if two requests race past the service-level check.
func (r *StudySessionRepo) Create(ctx context.Context, s *models.StudySession) error {
	query := `
		INSERT INTO study_sessions (id, student_id, started_at, start_lat, start_lng)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		s.ID, s.StudentID, s.StartedAt, s.StartLatitude, s.StartLongitude,
	).Scan(&s.CreatedAt)
}

// GetActive returns the session with a null ended_at for the student, or
// pgx.ErrNoRows when there is none.
func (r *StudySessionRepo) GetActive(ctx context.Context, studentID uuid.UUID) (*models.StudySession, error) {
	s := &models.StudySession{}
	query := `SELECT id, student_id, started_at, ended_at, start_lat, start_lng, end_lat, end_lng, created_at
		FROM study_sessions
		WHERE student_id = $1 AND ended_at IS NULL`

	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&s.ID, &s.StudentID, &s.StartedAt, &s.EndedAt,
		&s.StartLatitude, &s.StartLongitude, &s.EndLatitude, &s.EndLongitude, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Finish writes the end time and end coordinates. The session becomes
// terminal; nothing mutates it afterwards.
func (r *StudySessionRepo) Finish(ctx context.Context, s *models.StudySession) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE study_sessions
		SET ended_at = $1, end_lat = $2, end_lng = $3
		WHERE id = $4 AND ended_at IS NULL
	`, s.EndedAt, s.EndLatitude, s.EndLongitude, s.ID)
	return err
}

func (r *StudySessionRepo) ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.StudySession, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, student_id, started_at, ended_at, start_lat, start_lng, end_lat, end_lng, created_at
		FROM study_sessions
		WHERE student_id = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*models.StudySession
	for rows.Next() {
		s := &models.StudySession{}
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.StartedAt, &s.EndedAt,
			&s.StartLatitude, &s.StartLongitude, &s.EndLatitude, &s.EndLongitude, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
