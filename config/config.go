package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Claims   ClaimsConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	MaxConns int
}

type AuthConfig struct {
	// Provider selects the token verifier: "google" (ID tokens from
	// Google Sign-In) or "firebase" (Firebase Auth ID tokens).
	Provider        string
	GoogleClientID  string
	CredentialsPath string
	AllowedDomain   string
}

type RedisConfig struct {
	// Addr is optional; when empty the listing cache is disabled.
	Addr         string
	Password     string
	CacheTTLSecs int
}

type StorageConfig struct {
	// Backend selects the image blob store: "disk" or "s3".
	Backend       string
	S3Bucket      string
	S3Region      string
	S3PublicURL   string
	UploadDir     string
	UploadBaseURL string
}

type ClaimsConfig struct {
	ExpiryDays int
	// RevertPolicy decides who holds an item after its claim is removed:
	// "claimant" keeps the last custodian on record, "uploader" hands the
	// item back to whoever reported it.
	RevertPolicy string
	// SweepSchedule is a cron expression for the expired-claim sweeper.
	// Empty disables the sweeper.
	SweepSchedule string
}

type AppConfig struct {
	Environment string
	Version     string
	CORSOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "lostfound"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 20),
		},
		Auth: AuthConfig{
			Provider:        getEnv("AUTH_PROVIDER", "google"),
			GoogleClientID:  getEnv("GOOGLE_CLIENT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			AllowedDomain:   getEnv("ALLOWED_EMAIL_DOMAIN", "@hyderabad.bits-pilani.ac.in"),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", ""),
			Password:     getEnv("REDIS_PASSWORD", ""),
			CacheTTLSecs: getEnvAsInt("ITEMS_CACHE_TTL_SECONDS", 60),
		},
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "disk"),
			S3Bucket:      getEnv("S3_BUCKET", ""),
			S3Region:      getEnv("S3_REGION", "ap-south-1"),
			S3PublicURL:   getEnv("S3_PUBLIC_URL", ""),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			UploadBaseURL: getEnv("UPLOAD_BASE_URL", "/uploads"),
		},
		Claims: ClaimsConfig{
			ExpiryDays:    getEnvAsInt("CLAIM_EXPIRY_DAYS", 7),
			RevertPolicy:  getEnv("CLAIM_REVERT_POLICY", "claimant"),
			SweepSchedule: getEnv("CLAIM_SWEEP_SCHEDULE", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS",
				"http://localhost:3000,https://lost-and-found-bits.vercel.app")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST is required")
	}

	switch c.Auth.Provider {
	case "google":
		if c.Auth.GoogleClientID == "" {
			return fmt.Errorf("GOOGLE_CLIENT_ID is required when AUTH_PROVIDER=google")
		}
	case "firebase":
		if c.Auth.CredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required when AUTH_PROVIDER=firebase")
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER must be google or firebase, got %q", c.Auth.Provider)
	}

	if c.Auth.AllowedDomain == "" {
		return fmt.Errorf("ALLOWED_EMAIL_DOMAIN is required")
	}

	switch c.Storage.Backend {
	case "disk":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be disk or s3, got %q", c.Storage.Backend)
	}

	switch c.Claims.RevertPolicy {
	case "claimant", "uploader":
	default:
		return fmt.Errorf("CLAIM_REVERT_POLICY must be claimant or uploader, got %q", c.Claims.RevertPolicy)
	}

	if c.Claims.ExpiryDays <= 0 {
		return fmt.Errorf("CLAIM_EXPIRY_DAYS must be positive")
	}

	return nil
}

// DSN returns the Postgres connection string, preferring DATABASE_URL.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
