package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(2<<20), cfg.Import.MaxFileSize)
	assert.Equal(t, 1000, cfg.Import.ChunkSize)
	assert.Equal(t, 250, cfg.Import.BatchSize)
	assert.True(t, cfg.Import.RelaxConstraints)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9000"
jwt:
  secret: from-file
import:
  batch_size: 100
  relax_constraints: false
`)
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("IMPORT_CHUNK_SIZE", "500")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env wins over file")
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 100, cfg.Import.BatchSize)
	assert.Equal(t, 500, cfg.Import.ChunkSize)
	assert.False(t, cfg.Import.RelaxConstraints)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing secret", env: map[string]string{"JWT_SECRET": ""}},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "s", "SERVER_READ_TIMEOUT": "soon"}},
		{name: "batch larger than chunk", env: map[string]string{"JWT_SECRET": "s", "IMPORT_BATCH_SIZE": "2000"}},
		{name: "short default password", env: map[string]string{"JWT_SECRET": "s", "IMPORT_DEFAULT_PASSWORD": "abc"}},
		{name: "non numeric int", env: map[string]string{"JWT_SECRET": "s", "IMPORT_CHUNK_SIZE": "lots"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_ReportsBadDurationSetting(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("IMPORT_MAX_WAIT", "-5s")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import max wait")
	assert.Contains(t, err.Error(), "must be positive")

	t.Setenv("IMPORT_MAX_WAIT", "5s")
	t.Setenv("SERVER_WRITE_TIMEOUT", "soon")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server write timeout")
}

func TestDurationAccessors(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{ReadTimeout: "3s"},
		Database: DatabaseConfig{ConnMaxLifetime: "30m"},
		JWT:      JWTConfig{AccessTokenExpiration: "2h"},
	}

	read, write := cfg.Server.Timeouts()
	assert.Equal(t, 3*time.Second, read)
	assert.Equal(t, DefaultWriteTimeout, write)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxLifetime())
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTokenTTL())
	assert.Equal(t, DefaultImportMaxWait, cfg.Import.MaxWaitDuration())
}

func TestGetPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database = DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "enroll"}

	assert.Equal(t, "postgres://u:p@db:5432/enroll?sslmode=disable", cfg.GetPostgresConnectionString())
}
