package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/repository"
	"campustrack-backend/internal/services"
)

type DashboardHandler struct {
	campusTime *services.CampusTimeService
	campusRepo *repository.CampusTimeRepo
	sessions   *repository.StudySessionRepo
	locations  *services.LocationService
	liveWindow time.Duration
	loc        *time.Location
}

func NewDashboardHandler(
	campusTime *services.CampusTimeService,
	campusRepo *repository.CampusTimeRepo,
	sessions *repository.StudySessionRepo,
	locations *services.LocationService,
	liveWindowMinutes int,
	loc *time.Location,
) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{
		campusTime: campusTime,
		campusRepo: campusRepo,
		sessions:   sessions,
		locations:  locations,
		liveWindow: time.Duration(liveWindowMinutes) * time.Minute,
		loc:        loc,
	}
}

// Student returns today's campus seconds, the trailing week, and session
// state in one payload.
func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studentID := middleware.GetUserID(ctx)
	now := time.Now()

	todaySeconds, err := h.campusTime.DayTotal(ctx, studentID, now)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	week, err := h.campusTime.RangeTotals(ctx, studentID, now, 7)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	weekSeconds := 0
	for _, bucket := range week {
		weekSeconds += bucket.TotalSeconds
	}

	active, err := h.sessions.GetActive(ctx, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		handleServiceError(w, r, err)
		return
	}

	recent, err := h.sessions.ListByStudent(ctx, studentID, 10)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"today_seconds":   todaySeconds,
		"week_seconds":    weekSeconds,
		"week":            week,
		"active_session":  active, // null when no session is running
		"recent_sessions": recent,
	})
}

// ProfessorLive returns students seen within the live window.
func (h *DashboardHandler) ProfessorLive(w http.ResponseWriter, r *http.Request) {
	live, err := h.locations.LiveLocations(r.Context(), h.liveWindow)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"students": live,
		"count":    len(live),
	})
}

// ProfessorCampusTime returns every student's bucket for one day. The day
// query parameter is YYYY-MM-DD; default is today in the bucketing zone.
func (h *DashboardHandler) ProfessorCampusTime(w http.ResponseWriter, r *http.Request) {
	day := time.Now().In(h.loc)
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "day must be YYYY-MM-DD", r))
			return
		}
		day = parsed
	}
	year, month, d := day.Date()
	bucket := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)

	totals, err := h.campusRepo.TotalsForDay(r.Context(), bucket)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"day":    bucket.Format("2006-01-02"),
		"totals": totals,
	})
}
