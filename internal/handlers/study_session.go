package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/services"
)

type StudySessionHandler struct {
	sessions *services.SessionService
}

func NewStudySessionHandler(sessions *services.SessionService) *StudySessionHandler {
	return &StudySessionHandler{sessions: sessions}
}

type checkInRequest struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func (h *StudySessionHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.sessions.StartSession(r.Context(), studentID, req.Latitude, req.Longitude)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session": session,
	})
}

func (h *StudySessionHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	session, err := h.sessions.EndSession(r.Context(), studentID, req.Latitude, req.Longitude)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

func (h *StudySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sessions, err := h.sessions.ListSessions(r.Context(), studentID, limit)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}
