package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"campustrack-backend/internal/handlers"
	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	sessionHandler *handlers.StudySessionHandler,
	clockHandler *handlers.ClockHandler,
	locationHandler *handlers.LocationHandler,
	classHandler *handlers.ClassHandler,
	dashboardHandler *handlers.DashboardHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout and profile require auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// ──── Study Session Routes (students) ────
		r.Route("/sessions", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(middleware.RoleStudent))
			r.Post("/check-in", sessionHandler.CheckIn)
			r.Post("/check-out", sessionHandler.CheckOut)
			r.Get("/", sessionHandler.List)
		})

		// ──── Clock Event Routes (students) ────
		r.Route("/clock-events", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(middleware.RoleStudent))
			r.Post("/", clockHandler.RecordEvent)
			r.Get("/", clockHandler.List)
		})

		// ──── Location Routes (students) ────
		r.Route("/location", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(middleware.RoleStudent))
			r.Post("/", locationHandler.Share)
			r.Post("/clear", locationHandler.Clear)
		})

		r.Group(func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(middleware.RoleStudent))
			r.Post("/heartbeat", locationHandler.Heartbeat)
		})

		// ──── Class Routes ────
		r.Route("/classes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", classHandler.List)
			r.Get("/{id}", classHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(middleware.RoleProfessor))
				r.Post("/", classHandler.Create)
				r.Put("/{id}", classHandler.Update)
				r.Get("/{id}/roster", classHandler.Roster)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(middleware.RoleStudent))
				r.Post("/{id}/enroll", classHandler.Enroll)
				r.Post("/{id}/drop", classHandler.Drop)
			})
		})

		// ──── Dashboard Routes ────
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(middleware.RoleStudent))
				r.Get("/student", dashboardHandler.Student)
			})

			r.Route("/professor", func(r chi.Router) {
				r.Use(middleware.RequireRole(middleware.RoleProfessor))
				r.Get("/live", dashboardHandler.ProfessorLive)
				r.Get("/campus-time", dashboardHandler.ProfessorCampusTime)
			})
		})

		// ──── Notification Routes ────
		r.Route("/notifications", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", notificationHandler.List)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Put("/{id}/read", notificationHandler.MarkRead)
			r.Get("/preferences", notificationHandler.GetPreferences)
			r.Put("/preferences", notificationHandler.UpdatePreferences)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
