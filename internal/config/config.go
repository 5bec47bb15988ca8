package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Store     StoreConfig     `yaml:"store"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Notify    NotifyConfig    `yaml:"notify"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains the REST and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	HTTPPort int    `yaml:"http_port"`
	GRPCPort int    `yaml:"grpc_port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Type string `yaml:"type"` // "postgres" or "memory"
}

// AuthConfig selects the identity provider
type AuthConfig struct {
	Provider                 string `yaml:"provider"` // "jwt" or "firebase"
	JWTSecret                string `yaml:"jwt_secret"`
	AccessTokenExpiryMinutes int    `yaml:"access_token_expiry_minutes"`
	FirebaseProjectID        string `yaml:"firebase_project_id"`
	FirebaseCredentialsFile  string `yaml:"firebase_credentials_file"`
}

// StorageConfig contains image storage settings
type StorageConfig struct {
	Type          string `yaml:"type"`       // "local" or "cloudinary"
	UploadDir     string `yaml:"upload_dir"` // For local storage
	BaseURL       string `yaml:"base_url"`   // Public base URL for local image URLs
	MaxFileSizeMB int64  `yaml:"max_file_size_mb"`
	CloudName     string `yaml:"cloud_name"`
	APIKey        string `yaml:"api_key"`
	APISecret     string `yaml:"api_secret"`
	Folder        string `yaml:"folder"`
}

// NotifyConfig contains the optional push channels
type NotifyConfig struct {
	FCMEnabled bool           `yaml:"fcm_enabled"`
	SendGrid   SendGridConfig `yaml:"sendgrid"`
	AppURL     string         `yaml:"app_url"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	DispatchEvents    string `yaml:"dispatch_events"`
	LoanDueReminders  string `yaml:"loan_due_reminders"`
	EventBatchSize    int    `yaml:"event_batch_size"`
	EventLeaseSeconds int    `yaml:"event_lease_seconds"`
}

// Load reads configuration from a YAML file. A .env file next to the
// process is loaded first so its values can override the file.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML, applying environment overrides and defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	envString("SERVER_HOST", &c.Server.Host)
	envInt("HTTP_PORT", &c.Server.HTTPPort)
	envInt("GRPC_PORT", &c.Server.GRPCPort)

	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)
	envString("STORE_TYPE", &c.Store.Type)

	envString("AUTH_PROVIDER", &c.Auth.Provider)
	envString("JWT_SECRET", &c.Auth.JWTSecret)
	envString("FIREBASE_PROJECT_ID", &c.Auth.FirebaseProjectID)
	envString("GOOGLE_APPLICATION_CREDENTIALS", &c.Auth.FirebaseCredentialsFile)

	envString("STORAGE_TYPE", &c.Storage.Type)
	envString("UPLOAD_DIR", &c.Storage.UploadDir)
	envString("CLOUDINARY_CLOUD_NAME", &c.Storage.CloudName)
	envString("CLOUDINARY_API_KEY", &c.Storage.APIKey)
	envString("CLOUDINARY_API_SECRET", &c.Storage.APISecret)

	envString("SENDGRID_API_KEY", &c.Notify.SendGrid.APIKey)
	envString("SENDGRID_FROM_EMAIL", &c.Notify.SendGrid.FromEmail)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9090
	}
	for _, p := range []int{c.Server.HTTPPort, c.Server.GRPCPort} {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid server port: %d", p)
		}
	}
	if c.Server.HTTPPort == c.Server.GRPCPort {
		return fmt.Errorf("http and grpc ports must differ")
	}

	switch c.Store.Type {
	case "":
		c.Store.Type = "postgres"
		fallthrough
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	case "memory":
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}

	switch c.Auth.Provider {
	case "", "jwt":
		c.Auth.Provider = "jwt"
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("JWT secret must be at least 32 characters")
		}
		if c.Auth.AccessTokenExpiryMinutes == 0 {
			c.Auth.AccessTokenExpiryMinutes = 60
		}
	case "firebase":
		if c.Auth.FirebaseProjectID == "" {
			return fmt.Errorf("firebase project id is required")
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}
	if c.Notify.FCMEnabled && c.Auth.FirebaseProjectID == "" {
		return fmt.Errorf("firebase project id is required for push notifications")
	}

	switch c.Storage.Type {
	case "", "local":
		c.Storage.Type = "local"
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("upload directory is required")
		}
	case "cloudinary":
		if c.Storage.CloudName == "" || c.Storage.APIKey == "" || c.Storage.APISecret == "" {
			return fmt.Errorf("cloudinary cloud name, api key and api secret are required")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Storage.MaxFileSizeMB == 0 {
		c.Storage.MaxFileSizeMB = 5
	}

	if c.Notify.SendGrid.APIKey != "" && c.Notify.SendGrid.FromEmail == "" {
		return fmt.Errorf("sendgrid from email is required")
	}
	if c.Notify.SendGrid.FromName == "" {
		c.Notify.SendGrid.FromName = "SwapCircle"
	}

	// Scheduler defaults
	if c.Scheduler.DispatchEvents == "" {
		c.Scheduler.DispatchEvents = "*/5 * * * * *" // Every 5 seconds
	}
	if c.Scheduler.LoanDueReminders == "" {
		c.Scheduler.LoanDueReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.EventBatchSize == 0 {
		c.Scheduler.EventBatchSize = 50
	}
	if c.Scheduler.EventLeaseSeconds == 0 {
		c.Scheduler.EventLeaseSeconds = 120
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenExpiryMinutes) * time.Minute
}

func (c *Config) EventLease() time.Duration {
	return time.Duration(c.Scheduler.EventLeaseSeconds) * time.Second
}

// MaxUploadBytes is the largest accepted image body.
func (c *Config) MaxUploadBytes() int64 {
	return c.Storage.MaxFileSizeMB << 20
}
