package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campustrack-backend/internal/models"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, user_type, notification_type, title, message, priority, action_url, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	n.ID = uuid.New()
	if n.Priority == "" {
		n.Priority = "normal"
	}

	return r.pool.QueryRow(ctx, query,
		n.ID, n.UserID, n.UserType, n.NotificationType, n.Title, n.Message, n.Priority, n.ActionURL, n.Data,
	).Scan(&n.CreatedAt)
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, user_type, notification_type, title, message, priority, action_url, data, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.UserType, &n.NotificationType, &n.Title, &n.Message,
			&n.Priority, &n.ActionURL, &n.Data, &n.IsRead, &n.ReadAt, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET is_read = TRUE, read_at = $1
		WHERE id = $2 AND user_id = $3 AND is_read = FALSE
	`, time.Now().UTC(), id, userID)
	return err
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE", userID,
	).Scan(&count)
	return count, err
}

// LatestOfTypeAt returns the creation time of the newest notification of the
// given type for the user, or the zero time when there is none. Used for the
// location-alert cooldown window.
func (r *NotificationRepo) LatestOfTypeAt(ctx context.Context, userID uuid.UUID, notificationType string) (time.Time, error) {
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT created_at FROM notifications
		WHERE user_id = $1 AND notification_type = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, userID, notificationType).Scan(&createdAt)
	if err == pgx.ErrNoRows {
		return time.Time{}, nil
	}
	return createdAt, err
}

// GetPreferences returns the stored preferences for the user, or the default
// set when none have been saved yet.
func (r *NotificationRepo) GetPreferences(ctx context.Context, userID uuid.UUID, userType string) (*models.NotificationPreferences, error) {
	p := &models.NotificationPreferences{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, user_type, email_enabled, location_alerts_enabled, class_reminders_enabled, class_reminder_minutes, updated_at
		FROM notification_preferences
		WHERE user_id = $1 AND user_type = $2
	`, userID, userType).Scan(
		&p.UserID, &p.UserType, &p.EmailEnabled, &p.LocationAlertsEnabled,
		&p.ClassRemindersEnabled, &p.ClassReminderMinutes, &p.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return &models.NotificationPreferences{
			UserID:                userID,
			UserType:              userType,
			EmailEnabled:          true,
			LocationAlertsEnabled: true,
			ClassRemindersEnabled: true,
			ClassReminderMinutes:  15,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *NotificationRepo) UpsertPreferences(ctx context.Context, p *models.NotificationPreferences) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO notification_preferences (user_id, user_type, email_enabled, location_alerts_enabled, class_reminders_enabled, class_reminder_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, user_type)
		DO UPDATE SET email_enabled = EXCLUDED.email_enabled,
			location_alerts_enabled = EXCLUDED.location_alerts_enabled,
			class_reminders_enabled = EXCLUDED.class_reminders_enabled,
			class_reminder_minutes = EXCLUDED.class_reminder_minutes,
			updated_at = NOW()
	`, p.UserID, p.UserType, p.EmailEnabled, p.LocationAlertsEnabled, p.ClassRemindersEnabled, p.ClassReminderMinutes)
	return err
}
