package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"campustrack-backend/internal/geo"
	"campustrack-backend/internal/models"
)

type stubSessionStore struct {
	active   *models.StudySession
	created  []*models.StudySession
	finished []*models.StudySession
}

func (s *stubSessionStore) Create(_ context.Context, session *models.StudySession) error {
	s.created = append(s.created, session)
	s.active = session
	return nil
}

func (s *stubSessionStore) GetActive(_ context.Context, _ uuid.UUID) (*models.StudySession, error) {
	if s.active == nil {
		return nil, pgx.ErrNoRows
	}
	return s.active, nil
}

func (s *stubSessionStore) Finish(_ context.Context, session *models.StudySession) error {
	s.finished = append(s.finished, session)
	s.active = nil
	return nil
}

func (s *stubSessionStore) ListByStudent(_ context.Context, _ uuid.UUID, _ int) ([]*models.StudySession, error) {
	return s.created, nil
}

// Campus fence used throughout: default center, 150 m radius.
func testFence() *geo.Geofence {
	return geo.NewGeofence(33.7550, -84.3900, 150)
}

func newTestSessionService(studentID uuid.UUID, store *stubSessionStore) *SessionService {
	students := &stubStudentDirectory{known: map[uuid.UUID]bool{studentID: true}}
	return NewSessionService(students, store, testFence())
}

func TestStartSession_AtCampus(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	session, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if session.StudentID != studentID {
		t.Errorf("Session bound to wrong student")
	}
	if session.EndedAt != nil {
		t.Errorf("New session must be active")
	}
	if session.StartLatitude != 33.7550 || session.StartLongitude != -84.3900 {
		t.Errorf("Start coordinates not recorded")
	}
	if len(store.created) != 1 {
		t.Errorf("Expected one created session, got %d", len(store.created))
	}
}

func TestStartSession_OutsideFence(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	// ~220 m east of center
	_, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3876)
	var locErr *LocationValidationError
	if !errors.As(err, &locErr) {
		t.Fatalf("Expected LocationValidationError, got %v", err)
	}
	if len(store.created) != 0 {
		t.Errorf("Rejected check-in must leave no session behind")
	}
}

func TestStartSession_AlreadyActive(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	if _, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900); err != nil {
		t.Fatalf("First check-in failed: %v", err)
	}

	_, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900)
	var conflict *ActiveSessionExistsError
	if !errors.As(err, &conflict) {
		t.Fatalf("Expected ActiveSessionExistsError, got %v", err)
	}
	if len(store.created) != 1 {
		t.Errorf("Second check-in must not create a session")
	}
}

func TestStartSession_UnknownStudent(t *testing.T) {
	svc := NewSessionService(&stubStudentDirectory{known: map[uuid.UUID]bool{}}, &stubSessionStore{}, testFence())

	_, err := svc.StartSession(context.Background(), uuid.New(), 33.7550, -84.3900)
	var notFound *StudentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected StudentNotFoundError, got %v", err)
	}
}

func TestEndSession_ClosesActiveSession(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	started, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	ended, err := svc.EndSession(context.Background(), studentID, 33.7551, -84.3901)
	if err != nil {
		t.Fatalf("EndSession failed: %v", err)
	}

	if ended.ID != started.ID {
		t.Errorf("EndSession closed a different session")
	}
	if ended.EndedAt == nil {
		t.Fatalf("EndedAt not set")
	}
	if ended.EndedAt.Before(ended.StartedAt) {
		t.Errorf("EndedAt precedes StartedAt")
	}
	if ended.EndLatitude == nil || *ended.EndLatitude != 33.7551 {
		t.Errorf("End coordinates not recorded")
	}
	if len(store.finished) != 1 {
		t.Errorf("Expected one finish write, got %d", len(store.finished))
	}
}

func TestEndSession_NoActiveSession(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	_, err := svc.EndSession(context.Background(), studentID, 33.7550, -84.3900)
	var notFound *SessionNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Expected SessionNotFoundError, got %v", err)
	}
}

func TestEndSession_OutsideFenceLeavesSessionActive(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	if _, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	_, err := svc.EndSession(context.Background(), studentID, 34.0, -85.0)
	var locErr *LocationValidationError
	if !errors.As(err, &locErr) {
		t.Fatalf("Expected LocationValidationError, got %v", err)
	}

	if store.active == nil {
		t.Errorf("Rejected check-out must leave the session active")
	}
	if len(store.finished) != 0 {
		t.Errorf("Rejected check-out must not write a finish")
	}
}

func TestStartAfterEnd_NewSessionAllowed(t *testing.T) {
	studentID := uuid.New()
	store := &stubSessionStore{}
	svc := newTestSessionService(studentID, store)

	first, _ := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900)
	svc.EndSession(context.Background(), studentID, 33.7550, -84.3900)

	second, err := svc.StartSession(context.Background(), studentID, 33.7550, -84.3900)
	if err != nil {
		t.Fatalf("Check-in after check-out failed: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("New session must get a new ID")
	}
}
