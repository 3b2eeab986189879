package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campustrack-backend/internal/models"
	"campustrack-backend/internal/services"
)

func TestHandleServiceError_StatusAndCodeMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectStatus int
		expectCode   string
	}{
		{"validation", &services.ValidationError{Fields: map[string]string{"email": "Invalid email format"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"conflict", &services.ConflictError{Message: "Email already in use"}, http.StatusConflict, "CONFLICT"},
		{"not found", &services.NotFoundError{Message: "Class not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", &services.UnauthorizedError{Message: "Invalid email or password"}, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", &services.ForbiddenError{Message: "You do not own this class"}, http.StatusForbidden, "FORBIDDEN"},
		{"student not found", &services.StudentNotFoundError{Message: "Student not found"}, http.StatusNotFound, "STUDENT_NOT_FOUND"},
		{"active session exists", &services.ActiveSessionExistsError{Message: "An active study session already exists"}, http.StatusConflict, "ACTIVE_SESSION_EXISTS"},
		{"session not found", &services.SessionNotFoundError{Message: "No active study session found"}, http.StatusNotFound, "SESSION_NOT_FOUND"},
		{"location out of range", &services.LocationValidationError{Message: "Student must be within the designated study area to check in"}, http.StatusUnprocessableEntity, "LOCATION_OUT_OF_RANGE"},
		{"invalid event type", &services.InvalidEventTypeError{Message: "invalid event type"}, http.StatusBadRequest, "INVALID_EVENT_TYPE"},
		{"unknown error", http.ErrBodyNotAllowed, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/check-in", nil)
			req.Header.Set("X-Request-ID", "test-request-id")
			rr := httptest.NewRecorder()

			handleServiceError(rr, req, tc.err)

			if rr.Code != tc.expectStatus {
				t.Errorf("Expected status %d, got %d", tc.expectStatus, rr.Code)
			}

			var resp models.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp.Error.Code != tc.expectCode {
				t.Errorf("Expected code %q, got %q", tc.expectCode, resp.Error.Code)
			}
			if resp.Error.RequestID != "test-request-id" {
				t.Errorf("Expected request ID echoed, got %q", resp.Error.RequestID)
			}
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", nil)
	rr := httptest.NewRecorder()

	handleServiceError(rr, req, &services.ValidationError{Fields: map[string]string{
		"email":    "Invalid email format",
		"password": "Password must be at least 8 characters",
	}})

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Fields["email"] != "Invalid email format" {
		t.Errorf("Expected field error for email, got %v", resp.Error.Fields)
	}
	if resp.Error.Fields["password"] != "Password must be at least 8 characters" {
		t.Errorf("Expected field error for password, got %v", resp.Error.Fields)
	}
}

func TestWriteJSON_SetsContentType(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestSessionTimestampsSerializeAsUTCWithZ(t *testing.T) {
	rr := httptest.NewRecorder()

	session := &models.StudySession{
		StartedAt: mustParseTime(t, "2026-03-10T09:00:00Z"),
	}
	writeJSON(rr, http.StatusOK, map[string]interface{}{"session": session})

	var decoded struct {
		Session struct {
			StartTime string `json:"start_time"`
		} `json:"session"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if decoded.Session.StartTime != "2026-03-10T09:00:00Z" {
		t.Errorf("Expected RFC3339 UTC with Z suffix, got %q", decoded.Session.StartTime)
	}
}

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return parsed
}
