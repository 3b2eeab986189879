package handlers

import (
	"encoding/json"
	"net/http"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/services"
)

type LocationHandler struct {
	locations *services.LocationService
}

func NewLocationHandler(locations *services.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

func (h *LocationHandler) Share(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	var input services.ShareLocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	location, err := h.locations.ShareLocation(r.Context(), studentID, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"location": location,
	})
}

func (h *LocationHandler) Clear(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	deleted, err := h.locations.ClearLocations(r.Context(), studentID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Location history cleared",
		"deleted": deleted,
	})
}

func (h *LocationHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	if err := h.locations.Heartbeat(r.Context(), studentID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Heartbeat recorded"})
}
