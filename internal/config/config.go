package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string
	DBMaxConns  int
	DBMinConns  int

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Campus geofence
	CampusLatitude     float64
	CampusLongitude    float64
	CampusRadiusMeters float64

	// Day bucketing for campus-time accounting.
	// IANA zone name; midnight boundaries for daily totals are computed in this zone.
	DayBucketTimezone string

	// Notifications
	ReminderLeadMinutes int
	LiveWindowMinutes   int

	// Reverse geocoding
	GeocodeBaseURL   string
	GeocodeUserAgent string

	// SMTP
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBMaxConns:  getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		DBMinConns:  getEnvAsIntOrDefault("DB_MIN_CONNS", 5),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),
		// Downtown campus hub (Atlanta, GA) used as the default study area.
		CampusLatitude:      getEnvAsFloatOrDefault("CAMPUS_LATITUDE", 33.7550),
		CampusLongitude:     getEnvAsFloatOrDefault("CAMPUS_LONGITUDE", -84.3900),
		CampusRadiusMeters:  getEnvAsFloatOrDefault("CAMPUS_RADIUS_METERS", 150),
		DayBucketTimezone:   getEnvOrDefault("DAY_BUCKET_TIMEZONE", "UTC"),
		ReminderLeadMinutes: getEnvAsIntOrDefault("CLASS_REMINDER_LEAD_MINUTES", 15),
		LiveWindowMinutes:   getEnvAsIntOrDefault("LIVE_LOCATION_WINDOW_MINUTES", 10),
		GeocodeBaseURL:      getEnvOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		GeocodeUserAgent:    getEnvOrDefault("GEOCODE_USER_AGENT", "CampusTrack/1.0 (contact@example.com)"),
		SMTPHost:            getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:            getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:            getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:            getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:            getEnvOrDefault("SMTP_FROM", "noreply@campustrack.app"),
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}
