package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"campustrack-backend/internal/models"
	"campustrack-backend/internal/repository"
)

// StudentLocationStore is the slice of the student table the location flow
// touches. UpdateLastSeen returns pgx.ErrNoRows when the student is gone.
type StudentLocationStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	UpdateLastLocation(ctx context.Context, id uuid.UUID, lat, lng float64, accuracy *float64) error
	UpdateLastSeen(ctx context.Context, id uuid.UUID) error
	ClearLastLocation(ctx context.Context, id uuid.UUID) error
}

// LocationService records shared locations, keeps the student's last-known
// position current, and emits the location-shared notification.
type LocationService struct {
	students      StudentLocationStore
	locations     *repository.LocationRepo
	geocode       *GeocodeService
	notifications *NotificationService
	pubsub        *redis.Client
}

func NewLocationService(
	students StudentLocationStore,
	locations *repository.LocationRepo,
	geocode *GeocodeService,
	notifications *NotificationService,
	pubsub *redis.Client,
) *LocationService {
	return &LocationService{
		students:      students,
		locations:     locations,
		geocode:       geocode,
		notifications: notifications,
		pubsub:        pubsub,
	}
}

type ShareLocationInput struct {
	Latitude  float64    `json:"lat"`
	Longitude float64    `json:"lng"`
	Accuracy  *float64   `json:"accuracy"`
	ClassID   *uuid.UUID `json:"class_id"`
	Notes     *string    `json:"notes"`
}

func (s *LocationService) ShareLocation(ctx context.Context, studentID uuid.UUID, input ShareLocationInput) (*models.StudentLocation, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &StudentNotFoundError{Message: "Student not found"}
		}
		return nil, err
	}

	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return nil, &ValidationError{Fields: map[string]string{"lat": "Coordinates out of range"}}
	}

	city := s.geocode.CityFromCoordinates(ctx, input.Latitude, input.Longitude)

	location := &models.StudentLocation{
		StudentID: studentID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Accuracy:  input.Accuracy,
		City:      &city,
		ClassID:   input.ClassID,
		Notes:     input.Notes,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, err
	}

	if err := s.students.UpdateLastLocation(ctx, studentID, input.Latitude, input.Longitude, input.Accuracy); err != nil {
		return nil, err
	}

	if err := s.notifications.NotifyLocationShared(ctx, studentID, city); err != nil {
		log.Printf("location-shared notification failed for %s: %v", studentID, err)
	}

	s.publishLocationUpdate(ctx, location)

	return location, nil
}

// ClearLocations deletes the student's location history and blanks their
// last-known position. Returns how many history rows were removed.
func (s *LocationService) ClearLocations(ctx context.Context, studentID uuid.UUID) (int64, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &StudentNotFoundError{Message: "Student not found"}
		}
		return 0, err
	}

	deleted, err := s.locations.DeleteByStudent(ctx, studentID)
	if err != nil {
		return 0, err
	}

	if err := s.students.ClearLastLocation(ctx, studentID); err != nil {
		return 0, err
	}
	return deleted, nil
}

// Heartbeat bumps last_seen without moving the student's position, keeping
// them on the live map between location shares.
func (s *LocationService) Heartbeat(ctx context.Context, studentID uuid.UUID) error {
	if err := s.students.UpdateLastSeen(ctx, studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &StudentNotFoundError{Message: "Student not found"}
		}
		return err
	}
	return nil
}

func (s *LocationService) LiveLocations(ctx context.Context, window time.Duration) ([]*models.LiveLocation, error) {
	return s.locations.ListLive(ctx, window)
}

// publishLocationUpdate fans the new position out on the broadcast channel so
// professor dashboards update without polling. Failures are logged only.
func (s *LocationService) publishLocationUpdate(ctx context.Context, location *models.StudentLocation) {
	payload, err := json.Marshal(map[string]interface{}{
		"type":     "location_update",
		"location": location,
	})
	if err != nil {
		return
	}
	if err := s.pubsub.Publish(ctx, "location_updates", payload).Err(); err != nil {
		log.Printf("location update publish failed for %s: %v", location.StudentID, err)
	}
}
