package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	Firebase     FirebaseConfig     `yaml:"firebase"`
	Notification NotificationConfig `yaml:"notification"`
	Storage      StorageConfig      `yaml:"storage"`
	Profile      ProfileConfig      `yaml:"profile"`
	Log          LogConfig          `yaml:"log"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	GRPCPort      int    `yaml:"grpc_port"` // 0 disables the health listener
	PublicBaseURL string `yaml:"public_base_url"`
	CookieSecure  bool   `yaml:"cookie_secure"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	SSLMode     string `yaml:"ssl_mode"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// JWTConfig contains admin and identity session token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AdminTokenExpiry   int    `yaml:"admin_token_expiry_minutes"`
	SessionTokenExpiry int    `yaml:"session_token_expiry_minutes"`
}

// FirebaseConfig points at the project whose ID tokens are accepted
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// NotificationConfig selects how profile owners hear about moderation decisions
type NotificationConfig struct {
	Provider       string `yaml:"provider"` // "sendgrid", "smtp" or "none"
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUsername   string `yaml:"smtp_username"`
	SMTPPassword   string `yaml:"smtp_password"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// StorageConfig contains profile picture storage settings
type StorageConfig struct {
	UploadDir    string   `yaml:"upload_dir"`
	BaseURL      string   `yaml:"base_url"`
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// ProfileConfig contains profile field handling settings
type ProfileConfig struct {
	PhoneRegion string `yaml:"phone_region"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	BlocklistAudit string `yaml:"blocklist_audit"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies environment overrides and defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("GRPC_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.GRPCPort)
	}

	// Identity provider
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Firebase.CredentialsFile = val
	}

	// Notification
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notification.SendGridAPIKey = val
		if c.Notification.Provider == "" {
			c.Notification.Provider = "sendgrid"
		}
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.Notification.FromEmail = val
	}
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.Notification.SMTPHost = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Notification.SMTPPort)
	}
	if val := os.Getenv("SMTP_USERNAME"); val != "" {
		c.Notification.SMTPUsername = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.Notification.SMTPPassword = val
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.JWT.AdminTokenExpiry == 0 {
		c.JWT.AdminTokenExpiry = 24 * 60
	}
	if c.JWT.SessionTokenExpiry == 0 {
		c.JWT.SessionTokenExpiry = 30 * 24 * 60
	}
	if c.Notification.Provider == "" {
		c.Notification.Provider = "none"
	}
	if c.Notification.SMTPPort == 0 {
		c.Notification.SMTPPort = 587
	}
	if c.Notification.FromName == "" {
		c.Notification.FromName = "Alumni Directory"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 5
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}
	}
	if c.Profile.PhoneRegion == "" {
		c.Profile.PhoneRegion = "US"
	}
	if c.Scheduler.BlocklistAudit == "" {
		c.Scheduler.BlocklistAudit = "0 0 3 * * *" // 3 AM UTC
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 || (c.Server.GRPCPort != 0 && c.Server.GRPCPort == c.Server.Port) {
		return fmt.Errorf("invalid gRPC port: %d", c.Server.GRPCPort)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	switch strings.ToLower(c.Notification.Provider) {
	case "none":
	case "sendgrid":
		if c.Notification.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required when notification provider is sendgrid")
		}
		if c.Notification.FromEmail == "" {
			return fmt.Errorf("notification from_email is required when notification provider is sendgrid")
		}
	case "smtp":
		if c.Notification.SMTPHost == "" {
			return fmt.Errorf("smtp host is required when notification provider is smtp")
		}
		if c.Notification.FromEmail == "" {
			return fmt.Errorf("notification from_email is required when notification provider is smtp")
		}
	default:
		return fmt.Errorf("unsupported notification provider: %s", c.Notification.Provider)
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

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetGRPCAddress returns the health/reflection gRPC address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
