package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.DataDir))
	assert.Equal(t, "data", filepath.Base(cfg.DataDir))
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, "@daily", cfg.Jobs.CleanupSchedule)
	assert.Equal(t, 30, cfg.Jobs.PortfolioRetentionDays)
	assert.Equal(t, "@every 6h", cfg.Backup.Schedule)
	assert.False(t, cfg.Backup.Enabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("FUNDFLOW_DATA_DIR", filepath.Join(dir, "store"))
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("PORTFOLIO_RETENTION_DAYS", "0")
	t.Setenv("BACKUP_S3_BUCKET", "fundflow-backups")
	t.Setenv("BACKUP_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("BACKUP_S3_ACCESS_KEY", "key")
	t.Setenv("BACKUP_S3_SECRET_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "store"), cfg.DataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 0, cfg.Jobs.PortfolioRetentionDays)
	require.True(t, cfg.Backup.Enabled())

	s3 := cfg.Backup.ToS3Config()
	assert.Equal(t, "fundflow-backups", s3.Bucket)
	assert.Equal(t, "http://localhost:9000", s3.Endpoint)
	assert.Equal(t, "key", s3.AccessKey)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7070\n"), 0644))
	// Restored after the test; godotenv never overrides variables that exist
	t.Setenv("PORT", "")
	require.NoError(t, os.Unsetenv("PORT"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "eighty")
	t.Setenv("LOG_PRETTY", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.LogPretty)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:   8080,
			Jobs:   &JobsConfig{PortfolioRetentionDays: 30},
			Backup: &BackupConfig{},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port zero", func(c *Config) { c.Port = 0 }, "invalid port"},
		{"port too high", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"negative retention", func(c *Config) { c.Jobs.PortfolioRetentionDays = -1 }, "PORTFOLIO_RETENTION_DAYS"},
		{"negative backup retention", func(c *Config) { c.Backup.RetentionDays = -1 }, "BACKUP_RETENTION_DAYS"},
		{"half credentials", func(c *Config) {
			c.Backup.Bucket = "b"
			c.Backup.AccessKey = "k"
		}, "must be set together"},
		{"missing catalog", func(c *Config) { c.CatalogFile = "/nonexistent/catalog.toml" }, "catalog file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
