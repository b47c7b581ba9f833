package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the organizer service.
type Config struct {
	ServerPort            int
	JWTSecretKey          string
	OrganizerPasswordHash string

	// Snapshot persistence: Postgres when DatabaseURL is set, a local
	// JSON file otherwise.
	DataFile    string
	DatabaseURL string

	MaxTeams       int
	AllowedOrigins []string

	// Optional Cloudflare R2 snapshot backups.
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
	BackupInterval    time.Duration
}

// BackupConfigured reports whether the R2 backup credentials are all set.
func (c *Config) BackupConfigured() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" && c.R2BucketName != ""
}

// Load reads configuration from environment variables, optionally
// seeded from a .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	passwordHash := os.Getenv("ORGANIZER_PASSWORD_HASH")
	if passwordHash == "" {
		return nil, fmt.Errorf("ORGANIZER_PASSWORD_HASH environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = "data/tournament.json"
	}

	maxTeams := 0
	if maxTeamsStr := os.Getenv("MAX_TEAMS"); maxTeamsStr != "" {
		maxTeams, err = strconv.Atoi(maxTeamsStr)
		if err != nil || maxTeams < 2 {
			return nil, fmt.Errorf("MAX_TEAMS must be an integer >= 2, got %q", maxTeamsStr)
		}
	}

	origins := []string{"*"}
	if originsStr := os.Getenv("CORS_ALLOWED_ORIGINS"); originsStr != "" {
		origins = strings.Split(originsStr, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	var backupInterval time.Duration
	if intervalStr := os.Getenv("BACKUP_INTERVAL"); intervalStr != "" {
		backupInterval, err = time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKUP_INTERVAL environment variable: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:            port,
		JWTSecretKey:          jwtKey,
		OrganizerPasswordHash: passwordHash,
		DataFile:              dataFile,
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		MaxTeams:              maxTeams,
		AllowedOrigins:        origins,
		R2AccountID:           os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:         os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:     os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:          os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:       os.Getenv("R2_PUBLIC_BASE_URL"),
		BackupInterval:        backupInterval,
	}

	return cfg, nil
}
