package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Blob storage ("local" or "s3")
	StorageDriver string
	StoragePath   string // Local: root directory holding the pending/approved zones

	// S3-compatible storage (MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for non-AWS providers

	// Moderation gate
	AdminPassword     string // Plain password, compared in constant time
	AdminPasswordHash string // Optional bcrypt hash, takes precedence when set
	SessionSecret     string
	SessionExpiry     time.Duration

	// Uploads
	AllowedExtensions []string
	MaxUploadBytes    int64

	// Classification catalog (optional JSON override, default built-in)
	CatalogPath string

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Notestack"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/notestack.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Blob storage
		StorageDriver: envString("STORAGE_DRIVER", "local"),
		StoragePath:   envString("STORAGE_PATH", "./data/storage"),
		S3Region:      envString("S3_REGION", ""),
		S3Bucket:      envString("S3_BUCKET", ""),
		S3AccessKey:   envString("S3_ACCESS_KEY", ""),
		S3SecretKey:   envString("S3_SECRET_KEY", ""),
		S3Endpoint:    envString("S3_ENDPOINT", ""),

		// Moderation gate
		AdminPassword:     envString("ADMIN_PASSWORD", ""),
		AdminPasswordHash: envString("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:     envRequired("SESSION_SECRET"),
		SessionExpiry:     envDuration("SESSION_EXPIRY", 12*time.Hour),

		// Uploads
		AllowedExtensions: envList("ALLOWED_EXTENSIONS", []string{"pdf"}),
		MaxUploadBytes:    envInt64("MAX_UPLOAD_BYTES", 50<<20), // 50 MiB per request

		// Catalog
		CatalogPath: envString("CATALOG_PATH", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		slog.Error("config requires ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
		os.Exit(1)
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures production deployments don't run on
// development-only defaults.
func validateProduction(cfg *Config) {
	if cfg.AdminPasswordHash == "" {
		slog.Warn("production deployment without ADMIN_PASSWORD_HASH",
			"hint", "prefer a bcrypt hash over ADMIN_PASSWORD in production")
	}
	if cfg.StorageDriver == "s3" && (cfg.S3Bucket == "" || cfg.S3Region == "") {
		slog.Error("STORAGE_DRIVER=s3 requires S3_BUCKET and S3_REGION")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
