package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/repository"
)

type NotificationHandler struct {
	repo *repository.NotificationRepo
}

func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := h.repo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid notification ID", r))
		return
	}

	if err := h.repo.MarkRead(r.Context(), notificationID, userID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	count, err := h.repo.UnreadCount(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prefs, err := h.repo.GetPreferences(ctx, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		EmailEnabled          *bool `json:"email_enabled"`
		LocationAlertsEnabled *bool `json:"location_alerts_enabled"`
		ClassRemindersEnabled *bool `json:"class_reminders_enabled"`
		ClassReminderMinutes  *int  `json:"class_reminder_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	// Start from current (or default) preferences so a partial body only
	// changes the fields it names.
	prefs, err := h.repo.GetPreferences(ctx, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if req.EmailEnabled != nil {
		prefs.EmailEnabled = *req.EmailEnabled
	}
	if req.LocationAlertsEnabled != nil {
		prefs.LocationAlertsEnabled = *req.LocationAlertsEnabled
	}
	if req.ClassRemindersEnabled != nil {
		prefs.ClassRemindersEnabled = *req.ClassRemindersEnabled
	}
	if req.ClassReminderMinutes != nil {
		if *req.ClassReminderMinutes < 1 || *req.ClassReminderMinutes > 120 {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"class_reminder_minutes": "Must be between 1 and 120"}, r))
			return
		}
		prefs.ClassReminderMinutes = *req.ClassReminderMinutes
	}

	if err := h.repo.UpsertPreferences(ctx, prefs); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}
