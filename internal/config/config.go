// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Port            int           `yaml:"port"`
	Email           string        `yaml:"email"`
	Password        string        `yaml:"password"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	LoginAttempts   int           `yaml:"login_attempts"` // per window, per client IP
	LoginWindow     time.Duration `yaml:"login_window"`
	MetricsInterval time.Duration `yaml:"metrics_interval"` // pool and registry gauges
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables rate limiting and caching
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	StatsTTL time.Duration `yaml:"stats_ttl"` // 0 disables the dashboard cache
}

type OneSignalConfig struct {
	AppID      string        `yaml:"app_id"`
	RESTAPIKey string        `yaml:"rest_api_key"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Endpoint        string `yaml:"endpoint"` // S3-compatible endpoint
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	PublicBaseURL   string `yaml:"public_base_url"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	OneSignal OneSignalConfig `yaml:"onesignal"`
	Storage   StorageConfig   `yaml:"storage"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, then lets environment variables (and a
// local .env file, if any) override secrets. A missing YAML file is tolerated so the
// panel can run from the environment alone.
func LoadConfig(path string, dev bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	cfg.Runtime.Dev = dev

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields the panel cannot start without.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Admin.Email == "" || c.Admin.Password == "" {
		return errors.New("admin.email and admin.password are required")
	}
	if c.Admin.Port <= 0 || c.Admin.Port > 65535 {
		return fmt.Errorf("admin.port %d out of range", c.Admin.Port)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.OneSignal.AppID, "ONESIGNAL_APP_ID")
	setString(&cfg.OneSignal.RESTAPIKey, "ONESIGNAL_REST_API_KEY")
	setString(&cfg.Storage.AccessKeyID, "STORAGE_ACCESS_KEY_ID")
	setString(&cfg.Storage.SecretAccessKey, "STORAGE_SECRET_ACCESS_KEY")
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Admin.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Port == 0 {
		cfg.Admin.Port = 8080
	}
	if cfg.Admin.Email == "" {
		cfg.Admin.Email = "admin@ramadan.app"
	}
	if cfg.Admin.RequestTimeout <= 0 {
		cfg.Admin.RequestTimeout = 15 * time.Second
	}
	if cfg.Admin.LoginAttempts <= 0 {
		cfg.Admin.LoginAttempts = 5
	}
	if cfg.Admin.LoginWindow <= 0 {
		cfg.Admin.LoginWindow = 15 * time.Minute
	}
	if cfg.Admin.MetricsInterval <= 0 {
		cfg.Admin.MetricsInterval = 30 * time.Second
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.OneSignal.BaseURL == "" {
		cfg.OneSignal.BaseURL = "https://api.onesignal.com"
	}
	if cfg.OneSignal.Timeout <= 0 {
		cfg.OneSignal.Timeout = 15 * time.Second
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "ebooks"
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
