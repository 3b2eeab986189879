package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campustrack-backend/internal/config"
	"campustrack-backend/internal/database"
	"campustrack-backend/internal/geo"
	"campustrack-backend/internal/handlers"
	"campustrack-backend/internal/middleware"
	"campustrack-backend/internal/repository"
	"campustrack-backend/internal/router"
	"campustrack-backend/internal/services"
	"campustrack-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting CampusTrack Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Step 5: Resolve Day-Bucket Timezone ────
	dayBucketLoc, err := time.LoadLocation(cfg.DayBucketTimezone)
	if err != nil {
		log.Fatalf("✗ Invalid DAY_BUCKET_TIMEZONE %q: %v", cfg.DayBucketTimezone, err)
	}
	log.Printf("✓ Campus days bucketed in %s", dayBucketLoc)

	// ──── Initialize Repositories ────
	studentRepo := repository.NewStudentRepo(pool)
	professorRepo := repository.NewProfessorRepo(pool)
	sessionRepo := repository.NewStudySessionRepo(pool)
	clockEventRepo := repository.NewClockEventRepo(pool)
	campusTimeRepo := repository.NewCampusTimeRepo(pool)
	classRepo := repository.NewClassRepo(pool)
	locationRepo := repository.NewLocationRepo(pool)
	notificationRepo := repository.NewNotificationRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(studentRepo, professorRepo, redisClients.Store, jwtAuth, emailService)

	fence := geo.NewGeofence(cfg.CampusLatitude, cfg.CampusLongitude, cfg.CampusRadiusMeters)
	sessionService := services.NewSessionService(studentRepo, sessionRepo, fence)

	campusTimeService := services.NewCampusTimeService(campusTimeRepo, dayBucketLoc)
	clockService := services.NewClockService(studentRepo, clockEventRepo, campusTimeService)

	geocodeService := services.NewGeocodeService(cfg.GeocodeBaseURL, cfg.GeocodeUserAgent)
	notificationService := services.NewNotificationService(notificationRepo, redisClients.PubSub)
	locationService := services.NewLocationService(studentRepo, locationRepo, geocodeService, notificationService, redisClients.PubSub)
	classService := services.NewClassService(classRepo, studentRepo)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewStudySessionHandler(sessionService)
	clockHandler := handlers.NewClockHandler(clockService)
	locationHandler := handlers.NewLocationHandler(locationService)
	classHandler := handlers.NewClassHandler(classService)
	dashboardHandler := handlers.NewDashboardHandler(campusTimeService, campusTimeRepo, sessionRepo, locationService, cfg.LiveWindowMinutes, dayBucketLoc)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	// ──── Step 6: Start Class Reminder Scheduler ────
	reminderScheduler := services.NewClassReminderScheduler(
		classRepo,
		notificationRepo,
		notificationService,
		emailService,
		redisClients.Store,
		dayBucketLoc,
		cfg.ReminderLeadMinutes,
	)
	reminderScheduler.Start()

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		sessionHandler,
		clockHandler,
		locationHandler,
		classHandler,
		dashboardHandler,
		notificationHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		reminderScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ CampusTrack Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
