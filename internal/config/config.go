package config

import (
	"log/slog"
	"os"
	"strconv"
)

type Config struct {
	Port string
	Env  string // development | production

	// DatabaseDSN selects the backend: postgres:// URL or sqlite path.
	DatabaseDSN string
	// DataDir holds uploaded documents and signed artifacts.
	DataDir string
	// PublicBaseURL prefixes the guest-facing signing links.
	PublicBaseURL string

	MaxUploadBytes int64

	// SMTP settings for guest invitations; mail is disabled when Host is empty.
	SMTPHost string
	SMTPPort string
	SMTPFrom string
	SMTPUser string
	SMTPPass string
}

// Load reads configuration from the environment with sensible defaults.
// Precedence: explicit env var > .env file (loaded by main) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "data/parapheur.db")
	cfg.DataDir = getEnv("DATA_DIR", "data")
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port)
	cfg.MaxUploadBytes = getInt64("MAX_UPLOAD_BYTES", 10<<20)
	cfg.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.SMTPPort = getEnv("SMTP_PORT", "587")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "no-reply@localhost")
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPass = getEnv("SMTP_PASSWORD", "")
	return cfg
}

// Production reports whether the service runs with production hardening
// (debug endpoints disabled).
func (c Config) Production() bool { return c.Env == "production" }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			slog.Warn("invalid integer, using default", "key", key, "value", v, "default", def)
			return def
		}
		return n
	}
	return def
}
