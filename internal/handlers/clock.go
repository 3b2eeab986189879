package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/services"
)

type ClockHandler struct {
	clock *services.ClockService
}

func NewClockHandler(clock *services.ClockService) *ClockHandler {
	return &ClockHandler{clock: clock}
}

func (h *ClockHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	var raw services.RawClockEvent
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	event, err := h.clock.RecordEvent(r.Context(), studentID, raw)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"event":   event,
	})
}

func (h *ClockHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.clock.ListEvents(r.Context(), studentID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
