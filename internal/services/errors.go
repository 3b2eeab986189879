package services

// Error kinds surfaced to the HTTP layer. Each maps to a distinct response
// code in handlers.handleServiceError so the boundary can pick its wording.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// Tracker-specific kinds. All are user-correctable except
// InvalidEventTypeError, which indicates a caller bug.

// StudentNotFoundError: the student id does not resolve.
type StudentNotFoundError struct {
	Message string
}

func (e *StudentNotFoundError) Error() string { return e.Message }

// ActiveSessionExistsError: check-in attempted while a session is active.
type ActiveSessionExistsError struct {
	Message string
}

func (e *ActiveSessionExistsError) Error() string { return e.Message }

// SessionNotFoundError: check-out attempted with no active session.
type SessionNotFoundError struct {
	Message string
}

func (e *SessionNotFoundError) Error() string { return e.Message }

// LocationValidationError: coordinate outside the campus geofence.
type LocationValidationError struct {
	Message string
}

func (e *LocationValidationError) Error() string { return e.Message }

// InvalidEventTypeError: unrecognized clock-event type string.
type InvalidEventTypeError struct {
	Message string
}

func (e *InvalidEventTypeError) Error() string { return e.Message }
