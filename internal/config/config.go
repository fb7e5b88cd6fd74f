package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageDriverLocal = "local"
	StorageDriverMinio = "minio"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Host         string `yaml:"host" env:"SERVER_HOST"`
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout  string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		// StoragePath is the root directory of the local blob store.
		StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		// PublicStoragePrefix is the URL prefix the local storage root is served under.
		PublicStoragePrefix string `yaml:"public_storage_prefix" env:"SERVER_PUBLIC_STORAGE_PREFIX"`
		MaxMultipartMemoryMB int    `yaml:"max_multipart_memory_mb" env:"SERVER_MAX_MULTIPART_MEMORY_MB"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		Driver string `yaml:"driver" env:"STORAGE_DRIVER"`
		Minio  struct {
			Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
			AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
			SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
			Bucket    string `yaml:"bucket" env:"MINIO_BUCKET"`
			UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL"`
		} `yaml:"minio"`
	} `yaml:"storage"`

	AI struct {
		BaseURL      string  `yaml:"base_url" env:"AI_ENGINE_URL"`
		Model        string  `yaml:"model" env:"AI_MODEL"`
		Temperature  float64 `yaml:"temperature" env:"AI_TEMPERATURE"`
		AskTimeout   string  `yaml:"ask_timeout" env:"AI_ASK_TIMEOUT"`
		ProbeTimeout string  `yaml:"probe_timeout" env:"AI_PROBE_TIMEOUT"`
	} `yaml:"ai"`

	Seed struct {
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory, when present, is loaded into the
// process environment first so it can feed the env overrides.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
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
	config.Server.Host = "0.0.0.0"
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "30s"
	config.Server.WriteTimeout = "60s"
	config.Server.StoragePath = "storage/app/public"
	config.Server.PublicStoragePrefix = "/storage"
	config.Server.MaxMultipartMemoryMB = 32

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "semesterhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "semesterhub"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.Driver = StorageDriverLocal
	config.Storage.Minio.Bucket = "semesterhub"

	config.AI.BaseURL = "http://localhost:5000"
	config.AI.Model = "phi:latest"
	config.AI.Temperature = 0.7
	config.AI.AskTimeout = "30s"
	config.AI.ProbeTimeout = "10s"

	config.Seed.AdminName = "Super Admin"
	config.Seed.AdminEmail = "admin@semesterhub.local"
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

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"server read timeout":         config.Server.ReadTimeout,
		"server write timeout":        config.Server.WriteTimeout,
		"AI ask timeout":              config.AI.AskTimeout,
		"AI probe timeout":            config.AI.ProbeTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch config.Storage.Driver {
	case StorageDriverLocal:
		if config.Server.StoragePath == "" {
			return fmt.Errorf("storage path is required for the local storage driver")
		}
	case StorageDriverMinio:
		if config.Storage.Minio.Endpoint == "" || config.Storage.Minio.Bucket == "" {
			return fmt.Errorf("minio endpoint and bucket are required for the minio storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.AI.BaseURL == "" {
		return fmt.Errorf("AI engine base URL is required")
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

// Address returns the host:port pair the HTTP server listens on
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production") || strings.EqualFold(c.Server.Mode, "release")
}
