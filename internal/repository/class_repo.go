package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type ClassRepo struct {
	pool *pgxpool.Pool
}

func NewClassRepo(pool *pgxpool.Pool) *ClassRepo {
	return &ClassRepo{pool: pool}
}

const classColumns = `c.id, c.course_code, c.course_name, c.section, c.professor_id, c.semester, c.year,
	c.room, c.description, c.capacity, c.credits, c.meeting_days, c.start_time, c.end_time,
	c.is_active, c.enrollment_open, c.created_at, c.updated_at,
	(SELECT COUNT(*) FROM class_enrollments e WHERE e.class_id = c.id AND e.status = 'active')`

func scanClass(row interface{ Scan(...any) error }) (*models.Class, error) {
	c := &models.Class{}
	err := row.Scan(
		&c.ID, &c.CourseCode, &c.CourseName, &c.Section, &c.ProfessorID, &c.Semester, &c.Year,
		&c.Room, &c.Description, &c.Capacity, &c.Credits, &c.MeetingDays, &c.StartTime, &c.EndTime,
		&c.IsActive, &c.EnrollmentOpen, &c.CreatedAt, &c.UpdatedAt, &c.EnrolledCount,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClassRepo) Create(ctx context.Context, c *models.Class) error {
	query := `
		INSERT INTO classes (id, course_code, course_name, section, professor_id, semester, year,
			room, description, capacity, credits, meeting_days, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING is_active, enrollment_open, created_at, updated_at`

	c.ID = uuid.New()

	return r.pool.QueryRow(ctx, query,
		c.ID, c.CourseCode, c.CourseName, c.Section, c.ProfessorID, c.Semester, c.Year,
		c.Room, c.Description, c.Capacity, c.Credits, c.MeetingDays, c.StartTime, c.EndTime,
	).Scan(&c.IsActive, &c.EnrollmentOpen, &c.CreatedAt, &c.UpdatedAt)
}

func (r *ClassRepo) Update(ctx context.Context, c *models.Class) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE classes
		SET course_code = $1, course_name = $2, section = $3, semester = $4, year = $5,
			room = $6, description = $7, capacity = $8, credits = $9, meeting_days = $10,
			start_time = $11, end_time = $12, is_active = $13, enrollment_open = $14,
			updated_at = NOW()
		WHERE id = $15 AND professor_id = $16
	`, c.CourseCode, c.CourseName, c.Section, c.Semester, c.Year,
		c.Room, c.Description, c.Capacity, c.Credits, c.MeetingDays,
		c.StartTime, c.EndTime, c.IsActive, c.EnrollmentOpen, c.ID, c.ProfessorID)
	return err
}

func (r *ClassRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes c WHERE c.id = $1`
	return scanClass(r.pool.QueryRow(ctx, query, id))
}

func (r *ClassRepo) ListByProfessor(ctx context.Context, professorID uuid.UUID) ([]*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes c
		WHERE c.professor_id = $1
		ORDER BY c.created_at DESC`
	rows, err := r.pool.Query(ctx, query, professorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *ClassRepo) ListOpen(ctx context.Context) ([]*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes c
		WHERE c.is_active = TRUE
		ORDER BY c.course_code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *ClassRepo) IsEnrolled(ctx context.Context, classID, studentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM class_enrollments
			WHERE class_id = $1 AND student_id = $2 AND status = 'active'
		)
	`, classID, studentID).Scan(&exists)
	return exists, err
}

func (r *ClassRepo) Enroll(ctx context.Context, classID, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO class_enrollments (class_id, student_id, status)
		VALUES ($1, $2, 'active')
		ON CONFLICT (class_id, student_id)
		DO UPDATE SET status = 'active', enrolled_at = NOW()
	`, classID, studentID)
	return err
}

func (r *ClassRepo) Drop(ctx context.Context, classID, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE class_enrollments SET status = 'dropped'
		WHERE class_id = $1 AND student_id = $2
	`, classID, studentID)
	return err
}

func (r *ClassRepo) Roster(ctx context.Context, classID uuid.UUID) ([]*models.Student, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.student_id, s.email, s.password_hash, s.first_name, s.last_name, s.major, s.year,
			s.last_lat, s.last_lng, s.last_accuracy, s.last_seen, s.created_at
		FROM students s
		JOIN class_enrollments e ON e.student_id = s.id
		WHERE e.class_id = $1 AND e.status = 'active'
		ORDER BY s.last_name, s.first_name
	`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s := &models.Student{}
		if err := rows.Scan(
			&s.ID, &s.StudentID, &s.Email, &s.PasswordHash, &s.FirstName, &s.LastName,
			&s.Major, &s.Year, &s.LastLat, &s.LastLng, &s.LastAccuracy, &s.LastSeen, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
