package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/services"
)

type ClassHandler struct {
	classes *services.ClassService
}

func NewClassHandler(classes *services.ClassService) *ClassHandler {
	return &ClassHandler{classes: classes}
}

func (h *ClassHandler) Create(w http.ResponseWriter, r *http.Request) {
	professorID := middleware.GetUserID(r.Context())

	var input services.ClassInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	class, err := h.classes.CreateClass(r.Context(), professorID, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"class": class,
	})
}

func (h *ClassHandler) Update(w http.ResponseWriter, r *http.Request) {
	professorID := middleware.GetUserID(r.Context())

	classID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid class ID", r))
		return
	}

	var input services.ClassInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	class, err := h.classes.UpdateClass(r.Context(), professorID, classID, input)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"class": class,
	})
}

func (h *ClassHandler) Get(w http.ResponseWriter, r *http.Request) {
	classID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid class ID", r))
		return
	}

	class, err := h.classes.GetClass(r.Context(), classID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"class": class,
	})
}

// List returns the caller's view: professors see their own classes, students
// see every class open for browsing.
func (h *ClassHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if middleware.GetUserRole(ctx) == middleware.RoleProfessor {
		classes, err := h.classes.ListProfessorClasses(ctx, middleware.GetUserID(ctx))
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"classes": classes, "count": len(classes)})
		return
	}

	classes, err := h.classes.ListOpenClasses(ctx)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"classes": classes, "count": len(classes)})
}

func (h *ClassHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	classID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid class ID", r))
		return
	}

	class, err := h.classes.Enroll(r.Context(), studentID, classID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Enrolled successfully",
		"class":   class,
	})
}

func (h *ClassHandler) Drop(w http.ResponseWriter, r *http.Request) {
	studentID := middleware.GetUserID(r.Context())

	classID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid class ID", r))
		return
	}

	if err := h.classes.Drop(r.Context(), studentID, classID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Dropped class"})
}

func (h *ClassHandler) Roster(w http.ResponseWriter, r *http.Request) {
	professorID := middleware.GetUserID(r.Context())

	classID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid class ID", r))
		return
	}

	students, err := h.classes.Roster(r.Context(), professorID, classID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"students": students,
		"count":    len(students),
	})
}
