package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Application-wide settings
	App AppConfig

	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Email configuration
	Email EmailConfig

	// Admin area and admin notification configuration
	Admin AdminConfig

	// Kafka configuration (admin notifications)
	Kafka KafkaConfig

	// CORS configuration
	CORS CORSConfig
}

// AppConfig holds application-wide settings
type AppConfig struct {
	Env           string
	PublicBaseURL string
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver       string
	SQLitePath   string
	AutoMigrate  bool
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxConns     int32
	MinConns     int32
	MaxLifetime  time.Duration
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
	NewsletterTTL  time.Duration
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	Provider     string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
}

// AdminConfig holds the admin credentials and the admin notifier selection
type AdminConfig struct {
	Email        string
	PasswordHash string
	NotifyEmail  string
	Notifier     string
}

// KafkaConfig holds the broker list and topic used by the kafka notifier
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	MailProviderSMTP  = "smtp"
	MailProviderGmail = "gmail"

	NotifierMail  = "mail"
	NotifierKafka = "kafka"

	// DefaultJWTSecret is only good for local development
	DefaultJWTSecret = "your-secret-key-change-in-production"
)

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file
	if err := godotenv.Load("../.env"); err != nil {
		// Try loading from current directory if not found in parent
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}

	config := FromEnv()

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromEnv builds a Config from the current process environment without touching .env files
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Env:           getEnv("APP_ENV", "development"),
			PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		},
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			SQLitePath:   getEnv("DB_SQLITE_PATH", "cadastro.db"),
			AutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", true),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Name:         getEnv("DB_NAME", "postgres"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxConns:     getInt32Env("DB_MAX_CONNS", 5),
			MinConns:     getInt32Env("DB_MIN_CONNS", 0),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", time.Hour),
			ConnTimeout:  getDurationEnv("DB_CONN_TIMEOUT", 10*time.Second),
			QueryTimeout: getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		JWT: JWTConfig{
			Secret:         getEnv("JWT_SECRET", DefaultJWTSecret),
			AccessTokenTTL: getDurationEnv("JWT_ACCESS_TTL", 12*time.Hour),
			NewsletterTTL:  getDurationEnv("JWT_NEWSLETTER_TTL", 365*24*time.Hour),
		},
		Email: EmailConfig{
			Provider:          strings.ToLower(getEnv("MAIL_PROVIDER", MailProviderSMTP)),
			SMTPHost:          getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:          getEnv("SMTP_PORT", "587"),
			SMTPUsername:      getEnv("SMTP_USERNAME", ""),
			SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
			FromEmail:         getEnv("EMAIL_FROM", ""),
			FromName:          getEnv("EMAIL_FROM_NAME", "Código Certo Coders"),
			GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
			GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
			GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			NotifyEmail:  getEnv("ADMIN_NOTIFY_EMAIL", ""),
			Notifier:     strings.ToLower(getEnv("ADMIN_NOTIFIER", NotifierMail)),
		},
		Kafka: KafkaConfig{
			Brokers: getStringSliceEnv("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "applicants.registered"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getStringSliceEnv("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getStringSliceEnv("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getBoolEnv("CORS_ALLOW_CREDENTIALS", true),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Email.Provider {
	case MailProviderSMTP:
		if c.Email.SMTPUsername == "" || c.Email.SMTPPassword == "" {
			log.Printf("Warning: SMTP credentials not configured. Email functionality will not work.")
		} else {
			log.Printf("Email configuration loaded: SMTP_HOST=%s, SMTP_PORT=%s, SMTP_USERNAME=%s", c.Email.SMTPHost, c.Email.SMTPPort, c.Email.SMTPUsername)
		}
	case MailProviderGmail:
		if c.Email.GmailClientID == "" || c.Email.GmailClientSecret == "" || c.Email.GmailRefreshToken == "" {
			return fmt.Errorf("GMAIL_CLIENT_ID, GMAIL_CLIENT_SECRET and GMAIL_REFRESH_TOKEN are required when MAIL_PROVIDER=gmail")
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Email.Provider)
	}

	switch c.Admin.Notifier {
	case NotifierMail:
		if c.AdminRecipient() == "" {
			log.Println("Warning: ADMIN_NOTIFY_EMAIL not configured. Admin notifications will fail.")
		}
	case NotifierKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required when ADMIN_NOTIFIER=kafka")
		}
	default:
		return fmt.Errorf("unknown ADMIN_NOTIFIER %q", c.Admin.Notifier)
	}

	adminEnabled := c.Admin.Email != "" && c.Admin.PasswordHash != ""
	if !adminEnabled {
		log.Println("Warning: admin credentials not configured. Admin login will not work.")
	}

	// the secret signs admin tokens and newsletter links
	switch {
	case c.JWT.Secret == "":
		return fmt.Errorf("JWT_SECRET is required")
	case c.JWT.Secret == DefaultJWTSecret && (c.App.Env == "production" || adminEnabled):
		return fmt.Errorf("JWT_SECRET must be changed from the default in production or when admin login is enabled")
	case c.JWT.Secret == DefaultJWTSecret:
		log.Println("Warning: using the default JWT_SECRET. Set one before going to production.")
	}

	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// AdminRecipient returns the address that receives admin notifications
func (c *Config) AdminRecipient() string {
	if c.Admin.NotifyEmail != "" {
		return c.Admin.NotifyEmail
	}
	return c.Admin.Email
}

// IsEmailConfigured checks if email service is properly configured
func (c *Config) IsEmailConfigured() bool {
	if c.Email.Provider == MailProviderGmail {
		return c.Email.GmailRefreshToken != "" && c.Email.FromEmail != ""
	}
	return c.Email.SMTPUsername != "" && c.Email.SMTPPassword != ""
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt32Env(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intValue)
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := []string{}
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
