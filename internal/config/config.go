// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the media proxy.
type Config struct {
	Port   string
	AppEnv string

	// Maximum accepted request body size in bytes. Multipart bodies above
	// the limit are rejected before any storage call.
	BodyLimitBytes int64

	// RequiredRole is the role a token must carry for uploads and private
	// fetches.
	RequiredRole string

	// Token verification: "introspect" posts tokens to an RFC 7662 endpoint,
	// "jwt" validates HS256 signatures locally with JWTSecret.
	AuthMode         string
	IntrospectURL    string
	IntrospectClient string
	IntrospectSecret string
	JWTSecret        string

	// Object storage (S3-compatible: MinIO locally, any S3 provider in
	// production). StorageDriver "memory" keeps objects in process memory
	// and exists for development only.
	StorageDriver    string
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:           getEnv("MEDIA_PROXY_SERVER_PORT", "8080"),
		AppEnv:         getEnv("APP_ENV", "development"),
		BodyLimitBytes: getEnvInt64("BODY_LIMIT_BYTES", 5_000_000),
		RequiredRole:   getEnv("REQUIRED_ROLE", "user"),

		AuthMode:         getEnv("AUTH_MODE", "jwt"),
		IntrospectURL:    getEnv("AUTH_INTROSPECT_URL", ""),
		IntrospectClient: getEnv("AUTH_CLIENT_ID", ""),
		IntrospectSecret: getEnv("AUTH_CLIENT_SECRET", ""),
		JWTSecret:        getEnv("JWT_SECRET", "change_me_in_production"),

		StorageDriver:    getEnv("STORAGE_DRIVER", "minio"),
		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
		StorageBucket:    getEnv("STORAGE_BUCKET", "media"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
