package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port     string
	DBPath   string
	BaseURL  string
	Env      string // "development" or "production"
	LogLevel string

	// AI analysis (Groq OpenAI-compatible endpoint)
	GroqAPIKey string
	GroqModel  string

	// Email delivery (Postmark)
	PostmarkToken string
	FromEmail     string

	// Image storage: S3-compatible object storage, or local disk fallback
	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	MediaPath   string

	// Web push
	VAPIDPublicKey  string
	VAPIDPrivateKey string

	// Background maintenance
	SweepIntervalMinutes int
}

// Load reads configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port:     envOr("MEDISCAN_PORT", "8080"),
		DBPath:   envOr("MEDISCAN_DB_PATH", "mediscan.db"),
		BaseURL:  envOr("MEDISCAN_BASE_URL", "http://localhost:8080"),
		Env:      envOr("MEDISCAN_ENV", "development"),
		LogLevel: envOr("MEDISCAN_LOG_LEVEL", "info"),

		GroqAPIKey: os.Getenv("GROQ_API_KEY"),
		GroqModel:  envOr("GROQ_MODEL", "llama-3.1-70b-versatile"),

		PostmarkToken: os.Getenv("POSTMARK_SERVER_TOKEN"),
		FromEmail:     envOr("POSTMARK_FROM_EMAIL", "reports@mediscan.local"),

		S3Endpoint:  os.Getenv("MEDISCAN_S3_ENDPOINT"),
		S3Bucket:    os.Getenv("MEDISCAN_S3_BUCKET"),
		S3Region:    envOr("MEDISCAN_S3_REGION", "auto"),
		S3AccessKey: os.Getenv("MEDISCAN_S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("MEDISCAN_S3_SECRET_KEY"),
		MediaPath:   envOr("MEDISCAN_MEDIA_PATH", "media"),

		VAPIDPublicKey:  os.Getenv("MEDISCAN_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("MEDISCAN_VAPID_PRIVATE_KEY"),

		SweepIntervalMinutes: envOrInt("MEDISCAN_SWEEP_INTERVAL_MINUTES", 60),
	}
}

// Production reports whether the service runs with production hardening
// (secure cookies).
func (c Config) Production() bool {
	return c.Env == "production"
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
