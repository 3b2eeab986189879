package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type ProfessorRepo struct {
	pool *pgxpool.Pool
}

func NewProfessorRepo(pool *pgxpool.Pool) *ProfessorRepo {
	return &ProfessorRepo{pool: pool}
}

func (r *ProfessorRepo) Create(ctx context.Context, p *models.Professor) error {
	query := `
		INSERT INTO professors (id, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	p.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		p.ID, p.Email, p.PasswordHash, p.FirstName, p.LastName,
	).Scan(&p.CreatedAt)
}

func (r *ProfessorRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Professor, error) {
	p := &models.Professor{}
	query := `SELECT id, employee_id, email, password_hash, first_name, last_name, department, title, created_at
		FROM professors WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.EmployeeID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
		&p.Department, &p.Title, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfessorRepo) GetByEmail(ctx context.Context, email string) (*models.Professor, error) {
	p := &models.Professor{}
	query := `SELECT id, employee_id, email, password_hash, first_name, last_name, department, title, created_at
		FROM professors WHERE email = $1`

	err := r.pool.QueryRow(ctx, query, email).Scan(
		&p.ID, &p.EmployeeID, &p.Email, &p.PasswordHash, &p.FirstName, &p.LastName,
		&p.Department, &p.Title, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
