package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campustrack-backend/internal/geo"
	"campustrack-backend/internal/models"
)

// StudentDirectory resolves student ids for precondition checks.
type StudentDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
}

// StudySessionStore is the persistence surface for the session state machine.
// GetActive returns pgx.ErrNoRows when the student has no active session.
type StudySessionStore interface {
	Create(ctx context.Context, s *models.StudySession) error
	GetActive(ctx context.Context, studentID uuid.UUID) (*models.StudySession, error)
	Finish(ctx context.Context, s *models.StudySession) error
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.StudySession, error)
}

// SessionService runs the two-state study-session machine: a student either
// has no active session or exactly one. Both transitions are geofence-gated
// and fail before any write, so a rejected call leaves no partial state.
type SessionService struct {
	students StudentDirectory
	sessions StudySessionStore
	fence    *geo.Geofence
	locks    *studentLocks
}

func NewSessionService(students StudentDirectory, sessions StudySessionStore, fence *geo.Geofence) *SessionService {
	return &SessionService{
		students: students,
		sessions: sessions,
		fence:    fence,
		locks:    newStudentLocks(),
	}
}

func (s *SessionService) StartSession(ctx context.Context, studentID uuid.UUID, lat, lng float64) (*models.StudySession, error) {
	unlock := s.locks.lock(studentID)
	defer unlock()

	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	_, err := s.sessions.GetActive(ctx, studentID)
	if err == nil {
		return nil, &ActiveSessionExistsError{Message: "An active study session already exists"}
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if !s.fence.Contains(lat, lng) {
		return nil, &LocationValidationError{Message: "Student must be within the designated study area to check in"}
	}

	session := &models.StudySession{
		ID:             uuid.New(),
		StudentID:      studentID,
		StartedAt:      time.Now().UTC(),
		StartLatitude:  lat,
		StartLongitude: lng,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) EndSession(ctx context.Context, studentID uuid.UUID, lat, lng float64) (*models.StudySession, error) {
	unlock := s.locks.lock(studentID)
	defer unlock()

	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}

	session, err := s.sessions.GetActive(ctx, studentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &SessionNotFoundError{Message: "No active study session found"}
	}
	if err != nil {
		return nil, err
	}

	if !s.fence.Contains(lat, lng) {
		return nil, &LocationValidationError{Message: "Student must be within the designated study area to check out"}
	}

	endedAt := time.Now().UTC()
	session.EndedAt = &endedAt
	session.EndLatitude = &lat
	session.EndLongitude = &lng
	if err := s.sessions.Finish(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) ListSessions(ctx context.Context, studentID uuid.UUID, limit int) ([]*models.StudySession, error) {
	if err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.sessions.ListByStudent(ctx, studentID, limit)
}

func (s *SessionService) requireStudent(ctx context.Context, studentID uuid.UUID) error {
	_, err := s.students.GetByID(ctx, studentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &StudentNotFoundError{Message: "Student not found"}
	}
	return err
}
