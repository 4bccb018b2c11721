// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/atreyakamat/solara-mf/internal/reliability"
)

// Config holds application configuration
type Config struct {
	DataDir     string // Base directory for the database and backup staging, always absolute
	CatalogFile string // Optional TOML fund catalog replacing the embedded seed
	LogLevel    string
	Port        int
	LogPretty   bool
	DevMode     bool
	Jobs        *JobsConfig
	Backup      *BackupConfig
}

// JobsConfig holds background job schedules
type JobsConfig struct {
	CleanupSchedule        string
	MaintenanceSchedule    string
	PortfolioRetentionDays int // 0 disables cleanup
}

// BackupConfig holds S3 backup settings. Backups are disabled without a bucket.
type BackupConfig struct {
	Bucket        string
	Prefix        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Schedule      string
	RetentionDays int // 0 keeps every backup
}

// Enabled reports whether a bucket is configured
func (c *BackupConfig) Enabled() bool {
	return c != nil && c.Bucket != ""
}

// ToS3Config converts to the reliability client configuration
func (c *BackupConfig) ToS3Config() reliability.S3Config {
	return reliability.S3Config{
		Bucket:    c.Bucket,
		Region:    c.Region,
		Endpoint:  c.Endpoint,
		AccessKey: c.AccessKey,
		SecretKey: c.SecretKey,
	}
}

// Load reads configuration from .env (when present) and the environment
func Load() (*Config, error) {
	// A missing .env file is fine
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("FUNDFLOW_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:     absDataDir,
		CatalogFile: getEnv("FUNDFLOW_CATALOG_FILE", ""),
		Port:        getEnvAsInt("PORT", 8080),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogPretty:   getEnvAsBool("LOG_PRETTY", true),
		DevMode:     getEnvAsBool("DEV_MODE", false),
		Jobs: &JobsConfig{
			CleanupSchedule:        getEnv("CLEANUP_SCHEDULE", "@daily"),
			MaintenanceSchedule:    getEnv("MAINTENANCE_SCHEDULE", "0 0 2 * * *"), // 2 AM
			PortfolioRetentionDays: getEnvAsInt("PORTFOLIO_RETENTION_DAYS", 30),
		},
		Backup: loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Jobs != nil && c.Jobs.PortfolioRetentionDays < 0 {
		return fmt.Errorf("PORTFOLIO_RETENTION_DAYS must not be negative, got %d", c.Jobs.PortfolioRetentionDays)
	}
	if c.Backup != nil && c.Backup.RetentionDays < 0 {
		return fmt.Errorf("BACKUP_RETENTION_DAYS must not be negative, got %d", c.Backup.RetentionDays)
	}
	if c.Backup.Enabled() && (c.Backup.AccessKey == "") != (c.Backup.SecretKey == "") {
		return fmt.Errorf("BACKUP_S3_ACCESS_KEY and BACKUP_S3_SECRET_KEY must be set together")
	}
	if c.CatalogFile != "" {
		if _, err := os.Stat(c.CatalogFile); err != nil {
			return fmt.Errorf("catalog file: %w", err)
		}
	}
	return nil
}

func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Bucket:        getEnv("BACKUP_S3_BUCKET", ""),
		Prefix:        getEnv("BACKUP_S3_PREFIX", "fundflow/"),
		Region:        getEnv("BACKUP_S3_REGION", ""),
		Endpoint:      getEnv("BACKUP_S3_ENDPOINT", ""),
		AccessKey:     getEnv("BACKUP_S3_ACCESS_KEY", ""),
		SecretKey:     getEnv("BACKUP_S3_SECRET_KEY", ""),
		Schedule:      getEnv("BACKUP_SCHEDULE", "@every 6h"),
		RetentionDays: getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
