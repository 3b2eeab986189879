package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"campustrack-backend/internal/models"
)

// Cooldown between consecutive location_alert notifications per student.
const locationAlertCooldown = 5 * time.Minute

// NotificationStore is the persistence surface the service writes through.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	LatestOfTypeAt(ctx context.Context, userID uuid.UUID, notificationType string) (time.Time, error)
	GetPreferences(ctx context.Context, userID uuid.UUID, userType string) (*models.NotificationPreferences, error)
}

// NotificationService creates notifications and fans them out to connected
// clients through redis pub/sub (the websocket hub relays them).
type NotificationService struct {
	store  NotificationStore
	pubsub *redis.Client
}

func NewNotificationService(store NotificationStore, pubsub *redis.Client) *NotificationService {
	return &NotificationService{store: store, pubsub: pubsub}
}

// Notify persists the notification and publishes it to the user's channel.
// Publish failures are logged, not returned: the row is already durable and
// the client will see it on the next list call.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if err := s.store.Create(ctx, n); err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":         "notification",
		"notification": n,
	})
	if err != nil {
		return err
	}

	channel := "user_updates:" + n.UserID.String()
	if err := s.pubsub.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("notification publish failed for user %s: %v", n.UserID, err)
	}
	return nil
}

// NotifyLocationShared emits the "location shared" alert, honouring the
// student's preference toggle and the cooldown window so rapid location
// updates do not flood the feed.
func (s *NotificationService) NotifyLocationShared(ctx context.Context, studentID uuid.UUID, city string) error {
	prefs, err := s.store.GetPreferences(ctx, studentID, "student")
	if err != nil {
		return err
	}
	if !prefs.LocationAlertsEnabled {
		return nil
	}

	lastAt, err := s.store.LatestOfTypeAt(ctx, studentID, models.NotificationTypeLocationAlert)
	if err != nil {
		return err
	}
	if !lastAt.IsZero() && time.Since(lastAt) < locationAlertCooldown {
		return nil
	}

	if city == "" {
		city = "Unknown location"
	}
	data, _ := json.Marshal(map[string]string{"type": "location_shared", "city": city})
	actionURL := "/app/dashboard/student"

	return s.Notify(ctx, &models.Notification{
		UserID:           studentID,
		UserType:         "student",
		NotificationType: models.NotificationTypeLocationAlert,
		Title:            "Location Shared Successfully! 📍",
		Message:          fmt.Sprintf("Your location has been shared: %s", city),
		Priority:         "low",
		ActionURL:        &actionURL,
		Data:             data,
	})
}

// NotifyClassReminder emits the upcoming-class reminder for one student.
func (s *NotificationService) NotifyClassReminder(ctx context.Context, studentID uuid.UUID, class *models.Class, startsAt string) error {
	room := "your usual room"
	if class.Room != nil && *class.Room != "" {
		room = *class.Room
	}
	data, _ := json.Marshal(map[string]string{"type": "class_reminder", "class_id": class.ID.String()})
	actionURL := "/app/classes/" + class.ID.String()

	return s.Notify(ctx, &models.Notification{
		UserID:           studentID,
		UserType:         "student",
		NotificationType: models.NotificationTypeClassReminder,
		Title:            fmt.Sprintf("%s starts soon", class.CourseCode),
		Message:          fmt.Sprintf("%s starts at %s in %s", class.FullCourseName(), startsAt, room),
		Priority:         "normal",
		ActionURL:        &actionURL,
		Data:             data,
	})
}
