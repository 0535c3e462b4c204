package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RenderConfig holds settings for the external template-rendering service.
// Each page of the disciplinary document is a separately configured
// template/credential pair.
type RenderConfig struct {
	URL            string
	TemplateFolha1 string
	TemplateFolha2 string
	APIKeyFolha1   string
	APIKeyFolha2   string
	TimeoutSec     int
}

// CleanupConfig holds settings for temporary-file cleanup.
type CleanupConfig struct {
	// TempDir is the local staging directory shared by all pipeline runs.
	TempDir string
	// IntervalHours is how often the periodic sweep runs.
	IntervalHours int
	// MinAgeMinutes excludes artifacts younger than this from the sweep,
	// so files belonging to an in-flight run are never deleted.
	MinAgeMinutes int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Render   RenderConfig
	Cleanup  CleanupConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Render: RenderConfig{
			URL:            getEnv("RENDER_URL", ""),
			TemplateFolha1: getEnv("RENDER_TEMPLATE_FOLHA1", ""),
			TemplateFolha2: getEnv("RENDER_TEMPLATE_FOLHA2", ""),
			APIKeyFolha1:   getEnv("RENDER_API_KEY_FOLHA1", ""),
			APIKeyFolha2:   getEnv("RENDER_API_KEY_FOLHA2", ""),
			TimeoutSec:     getEnvInt("RENDER_TIMEOUT_SEC", 30),
		},
		Cleanup: CleanupConfig{
			TempDir:       getEnv("TEMP_DIR", "tmp"),
			IntervalHours: getEnvInt("CLEANUP_INTERVAL_HOURS", 6),
			MinAgeMinutes: getEnvInt("CLEANUP_MIN_AGE_MINUTES", 60),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
