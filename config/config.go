package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Env string `yaml:"env" validate:"required,oneof=development production"`

	// Upstream API base URLs, selected by Env. The dashboard is a client of
	// the roster API; it never owns the data.
	DevAPIBaseURL  string `yaml:"dev_api_base_url" validate:"required,url"`
	ProdAPIBaseURL string `yaml:"prod_api_base_url" validate:"required,url"`

	ServerPort    string        `yaml:"server_port" validate:"required"`
	ClientTimeout time.Duration `yaml:"client_timeout"`

	// Local storage backend: "redis" or "file".
	StorageBackend string `yaml:"storage_backend" validate:"oneof=redis file"`
	StoragePath    string `yaml:"storage_path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Optional. Empty DSN disables the audit trail.
	AuditDSN string `yaml:"audit_dsn"`

	// Service-account credentials for Google Sheets bulk import.
	SheetsCredentialsFile string `yaml:"sheets_credentials_file"`
}

// APIBaseURL returns the upstream base URL for the configured environment.
func (c *Config) APIBaseURL() string {
	if c.Env == "production" {
		return c.ProdAPIBaseURL
	}
	return c.DevAPIBaseURL
}

// NewConfig loads configuration from the environment, with an optional YAML
// file overlay (SHIFTBOARD_CONFIG). A .env file is honored when present.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                   getEnv("SHIFTBOARD_ENV", "development"),
		DevAPIBaseURL:         getEnv("SHIFT_API_DEV_URL", "http://localhost:8080"),
		ProdAPIBaseURL:        getEnv("SHIFT_API_PROD_URL", "https://shift-namagement-apps-27faqfacya-an.a.run.app"),
		ServerPort:            getEnv("SERVER_PORT", "6066"),
		ClientTimeout:         getEnvDuration("CLIENT_TIMEOUT", 15*time.Second),
		StorageBackend:        getEnv("STORAGE_BACKEND", "redis"),
		StoragePath:           getEnv("STORAGE_PATH", "./shiftboard_storage.json"),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         getEnv("REDIS_PASSWORD", ""),
		RedisDB:               getEnvInt("REDIS_DB", 0),
		AuditDSN:              getEnv("AUDIT_DATABASE_DSN", ""),
		SheetsCredentialsFile: getEnv("SHEETS_CREDENTIALS_FILE", "credentials.json"),
	}

	if path := os.Getenv("SHIFTBOARD_CONFIG"); path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return fallback
}
