package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type StudentRepo struct {
	pool *pgxpool.Pool
}

func NewStudentRepo(pool *pgxpool.Pool) *StudentRepo {
	return &StudentRepo{pool: pool}
}

func (r *StudentRepo) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (id, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	s.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		s.ID, s.Email, s.PasswordHash, s.FirstName, s.LastName,
	).Scan(&s.CreatedAt)
}

func (r *StudentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT id, student_id, email, password_hash, first_name, last_name, major, year,
			last_lat, last_lng, last_accuracy, last_seen, created_at
		FROM students WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.StudentID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName,
		&s.Major, &s.Year, &s.LastLat, &s.LastLng, &s.LastAccuracy, &s.LastSeen, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	s := &models.Student{}
	query := `SELECT id, student_id, email, password_hash, first_name, last_name, major, year,
			last_lat, last_lng, last_accuracy, last_seen, created_at
		FROM students WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&s.ID, &s.StudentID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName,
		&s.Major, &s.Year, &s.LastLat, &s.LastLng, &s.LastAccuracy, &s.LastSeen, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudentRepo) UpdateLastLocation(ctx context.Context, id uuid.UUID, lat, lng float64, accuracy *float64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE students
		SET last_lat = $1, last_lng = $2, last_accuracy = $3, last_seen = $4
		WHERE id = $5
	`, lat, lng, accuracy, time.Now().UTC(), id)
	return err
}

func (r *StudentRepo) UpdateLastSeen(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "UPDATE students SET last_seen = $1 WHERE id = $2", time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *StudentRepo) ClearLastLocation(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE students
		SET last_lat = NULL, last_lng = NULL, last_accuracy = NULL, last_seen = NULL
		WHERE id = $1
	`, id)
	return err
}
