package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeLocationAlert = "location_alert"
	NotificationTypeClassReminder = "class_reminder"
	NotificationTypeSystem        = "system"
)

type Notification struct {
	ID               uuid.UUID       `json:"id"`
	UserID           uuid.UUID       `json:"user_id"`
	UserType         string          `json:"user_type"` // student, professor
	NotificationType string          `json:"notification_type"`
	Title            string          `json:"title"`
	Message          string          `json:"message"`
	Priority         string          `json:"priority"` // low, normal, high, urgent
	ActionURL        *string         `json:"action_url"`
	Data             json.RawMessage `json:"data,omitempty"`
	IsRead           bool            `json:"is_read"`
	ReadAt           *time.Time      `json:"read_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type NotificationPreferences struct {
	UserID                uuid.UUID `json:"user_id"`
	UserType              string    `json:"user_type"`
	EmailEnabled          bool      `json:"email_enabled"`
	LocationAlertsEnabled bool      `json:"location_alerts_enabled"`
	ClassRemindersEnabled bool      `json:"class_reminders_enabled"`
	ClassReminderMinutes  int       `json:"class_reminder_minutes"`
	UpdatedAt             time.Time `json:"updated_at"`
}
