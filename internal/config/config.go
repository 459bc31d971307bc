package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Supabase
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	UseSupabase        bool

	// Redis (analytics counters + provider id sequence)
	RedisURL string

	// Sessions
	JWTSecret    string
	SessionTTL   time.Duration
	SecureCookie bool

	// Hardcoded admin account
	AdminEmail    string
	AdminPassword string

	// CORS for the UI layer
	CORSAllowedOrigins []string

	// Background analytics writers
	AnalyticsWorkers int
	AnalyticsTimeout time.Duration
}

// LoadDotEnv loads the given .env files into the process environment.
// Existing env vars win; missing files are ignored.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		CacheTTL: getEnvDuration("CACHE_TTL", 30*time.Second),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		UseSupabase:        getEnv("USE_SUPABASE", "true") == "true",

		RedisURL: getEnv("REDIS_URL", ""),

		JWTSecret:  getEnv("JWT_SECRET", "urbanhand-default-dev-secret-change-me"),
		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),

		SecureCookie: getEnv("COOKIE_SECURE", "false") == "true",

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@urbanhand.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		AnalyticsWorkers: getEnvInt("ANALYTICS_WORKERS", 8),
		AnalyticsTimeout: getEnvDuration("ANALYTICS_TIMEOUT", 5*time.Second),
	}
}

// SupabaseEnabled reports whether the hosted backend should be used.
func (c *Config) SupabaseEnabled() bool {
	return c.UseSupabase && c.SupabaseURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
