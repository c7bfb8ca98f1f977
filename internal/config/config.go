package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
	Import   ImportConfig   `yaml:"import"`
	Seed     SeedConfig     `yaml:"seed"`
}

type ServerConfig struct {
	Port         string `yaml:"port" env:"SERVER_PORT"`
	Mode         string `yaml:"mode" env:"SERVER_MODE"`
	ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

type JWTConfig struct {
	Secret                string `yaml:"secret" env:"JWT_SECRET"`
	AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
	Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// AuthConfig controls credential hashing and login throttling.
type AuthConfig struct {
	BcryptCost         int `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
	LoginRatePerMinute int `yaml:"login_rate_per_minute" env:"AUTH_LOGIN_RATE_PER_MINUTE"`
	LoginBurst         int `yaml:"login_burst" env:"AUTH_LOGIN_BURST"`
}

// ImportConfig controls the bulk student CSV import.
type ImportConfig struct {
	MaxFileSize      int64  `yaml:"max_file_size" env:"IMPORT_MAX_FILE_SIZE"`
	ChunkSize        int    `yaml:"chunk_size" env:"IMPORT_CHUNK_SIZE"`
	BatchSize        int    `yaml:"batch_size" env:"IMPORT_BATCH_SIZE"`
	DefaultPassword  string `yaml:"default_password" env:"IMPORT_DEFAULT_PASSWORD"`
	RelaxConstraints bool   `yaml:"relax_constraints" env:"IMPORT_RELAX_CONSTRAINTS"`
	MaxConcurrent    int    `yaml:"max_concurrent" env:"IMPORT_MAX_CONCURRENT"`
	MaxWait          string `yaml:"max_wait" env:"IMPORT_MAX_WAIT"`
}

// SeedConfig describes the coordinator account created on startup. Seeding is
// skipped while CoordinatorPassword is empty.
type SeedConfig struct {
	CoordinatorID       string `yaml:"coordinator_id" env:"SEED_COORDINATOR_ID"`
	CoordinatorEmail    string `yaml:"coordinator_email" env:"SEED_COORDINATOR_EMAIL"`
	CoordinatorPassword string `yaml:"coordinator_password" env:"SEED_COORDINATOR_PASSWORD"`
}

// Fallbacks used when a duration setting is blank.
const (
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultConnMaxLifetime = time.Hour
	DefaultAccessTokenExp  = 24 * time.Hour
	DefaultImportMaxWait   = 5 * time.Second
)

// Timeouts returns the HTTP server read and write timeouts.
func (s ServerConfig) Timeouts() (read, write time.Duration) {
	read, _ = parseDuration(s.ReadTimeout, DefaultReadTimeout)
	write, _ = parseDuration(s.WriteTimeout, DefaultWriteTimeout)
	return read, write
}

// MaxLifetime returns how long a pooled connection may be reused.
func (d DatabaseConfig) MaxLifetime() time.Duration {
	lifetime, _ := parseDuration(d.ConnMaxLifetime, DefaultConnMaxLifetime)
	return lifetime
}

// AccessTokenTTL returns the lifetime of issued access tokens.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	ttl, _ := parseDuration(j.AccessTokenExpiration, DefaultAccessTokenExp)
	return ttl
}

// MaxWaitDuration returns how long an import waits for a free slot.
func (i ImportConfig) MaxWaitDuration() time.Duration {
	wait, _ := parseDuration(i.MaxWait, DefaultImportMaxWait)
	return wait
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is loaded first when present; variables
// already set in the process environment win over it.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "120s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "enrollhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "enrollhub"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Auth.BcryptCost = 10
	config.Auth.LoginRatePerMinute = 10
	config.Auth.LoginBurst = 5

	config.Import.MaxFileSize = 2 << 20
	config.Import.ChunkSize = 1000
	config.Import.BatchSize = 250
	config.Import.DefaultPassword = "password123"
	config.Import.RelaxConstraints = true
	config.Import.MaxConcurrent = 2
	config.Import.MaxWait = "5s"

	config.Seed.CoordinatorID = "COORD001"
	config.Seed.CoordinatorEmail = "admin@example.com"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := []struct {
		name  string
		value string
	}{
		{"JWT access token expiration", config.JWT.AccessTokenExpiration},
		{"server read timeout", config.Server.ReadTimeout},
		{"server write timeout", config.Server.WriteTimeout},
		{"database conn max lifetime", config.Database.ConnMaxLifetime},
		{"import max wait", config.Import.MaxWait},
	}
	for _, d := range durations {
		if _, err := parseDuration(d.value, 0); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	if config.Import.ChunkSize <= 0 || config.Import.BatchSize <= 0 {
		return fmt.Errorf("import chunk and batch sizes must be positive")
	}
	if config.Import.BatchSize > config.Import.ChunkSize {
		return fmt.Errorf("import batch size %d exceeds chunk size %d", config.Import.BatchSize, config.Import.ChunkSize)
	}
	if config.Import.MaxConcurrent <= 0 {
		return fmt.Errorf("import max concurrent must be positive")
	}
	if config.Import.MaxFileSize <= 0 {
		return fmt.Errorf("import max file size must be positive")
	}
	if len(config.Import.DefaultPassword) < 6 {
		return fmt.Errorf("import default password must be at least 6 characters")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
