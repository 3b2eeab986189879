package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type CampusTimeRepo struct {
	pool *pgxpool.Pool
}

func NewCampusTimeRepo(pool *pgxpool.Pool) *CampusTimeRepo {
	return &CampusTimeRepo{pool: pool}
}

// AddSeconds increments the (student, day) bucket, creating it when absent.
// Totals only ever grow.
func (r *CampusTimeRepo) AddSeconds(ctx context.Context, studentID uuid.UUID, day time.Time, seconds int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO daily_campus_time (student_id, day, total_seconds)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, day)
		DO UPDATE SET total_seconds = daily_campus_time.total_seconds + EXCLUDED.total_seconds
	`, studentID, day, seconds)
	return err
}

func (r *CampusTimeRepo) GetDay(ctx context.Context, studentID uuid.UUID, day time.Time) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_seconds), 0)
		FROM daily_campus_time
		WHERE student_id = $1 AND day = $2
	`, studentID, day).Scan(&total)
	return total, err
}

func (r *CampusTimeRepo) ListRange(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]*models.DailyCampusTime, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT student_id, day, total_seconds
		FROM daily_campus_time
		WHERE student_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day
	`, studentID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*models.DailyCampusTime
	for rows.Next() {
		b := &models.DailyCampusTime{}
		if err := rows.Scan(&b.StudentID, &b.Day, &b.TotalSeconds); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// TotalsForDay returns every student's bucket for one day, largest first.
// Used by the professor dashboard.
func (r *CampusTimeRepo) TotalsForDay(ctx context.Context, day time.Time) ([]*models.DailyCampusTime, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT student_id, day, total_seconds
		FROM daily_campus_time
		WHERE day = $1
		ORDER BY total_seconds DESC
	`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*models.DailyCampusTime
	for rows.Next() {
		b := &models.DailyCampusTime{}
		if err := rows.Scan(&b.StudentID, &b.Day, &b.TotalSeconds); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
