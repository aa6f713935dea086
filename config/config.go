package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	Port    string
	DSN     string
	BaseURL string

	AdminPassword     string
	AdminPasswordHash string
	AdminTOTPSecret   string
	SessionTTL        time.Duration
	TokenTTLDays      int

	RedisURL string

	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
	StoragePublicURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string
}

// Load reads .env (if present) and returns a populated Config.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN must be set")
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPasswordHash := os.Getenv("ADMIN_PASSWORD_HASH")
	if adminPassword == "" && adminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	return &Config{
		Port:    port,
		DSN:     dsn,
		BaseURL: baseURL,

		AdminPassword:     adminPassword,
		AdminPasswordHash: adminPasswordHash,
		AdminTOTPSecret:   os.Getenv("ADMIN_TOTP_SECRET"),
		SessionTTL:        time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		TokenTTLDays:      envInt("TOKEN_TTL_DAYS", 7),

		RedisURL: os.Getenv("REDIS_URL"),

		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:    envDefault("STORAGE_BUCKET", "attestations"),
		StorageUseSSL:    os.Getenv("STORAGE_USE_SSL") == "true",
		StoragePublicURL: os.Getenv("STORAGE_PUBLIC_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     envDefault("SMTP_FROM", "noreply@tgzconciergerie.com"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
	}, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
