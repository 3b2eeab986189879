package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type LocationRepo struct {
	pool *pgxpool.Pool
}

func NewLocationRepo(pool *pgxpool.Pool) *LocationRepo {
	return &LocationRepo{pool: pool}
}

func (r *LocationRepo) Create(ctx context.Context, l *models.StudentLocation) error {
	query := `
		INSERT INTO student_locations (id, student_id, lat, lng, accuracy, city, class_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	l.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		l.ID, l.StudentID, l.Latitude, l.Longitude, l.Accuracy, l.City, l.ClassID, l.Notes,
	).Scan(&l.CreatedAt)
}

// DeleteByStudent removes every stored location row for the student and
// returns the number of rows removed.
func (r *LocationRepo) DeleteByStudent(ctx context.Context, studentID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM student_locations WHERE student_id = $1", studentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListLive returns students seen within the window, with their last known
// position, newest first.
func (r *LocationRepo) ListLive(ctx context.Context, window time.Duration) ([]*models.LiveLocation, error) {
	cutoff := time.Now().UTC().Add(-window)
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.first_name || ' ' || s.last_name, s.last_lat, s.last_lng, s.last_accuracy,
			(SELECT l.city FROM student_locations l
				WHERE l.student_id = s.id ORDER BY l.created_at DESC LIMIT 1),
			s.last_seen
		FROM students s
		WHERE s.last_seen >= $1 AND s.last_lat IS NOT NULL AND s.last_lng IS NOT NULL
		ORDER BY s.last_seen DESC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var live []*models.LiveLocation
	for rows.Next() {
		l := &models.LiveLocation{}
		if err := rows.Scan(&l.StudentID, &l.FullName, &l.Latitude, &l.Longitude, &l.Accuracy, &l.City, &l.LastSeen); err != nil {
			return nil, err
		}
		live = append(live, l)
	}
	return live, rows.Err()
}
