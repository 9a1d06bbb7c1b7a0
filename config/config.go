package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	devJWTSecret        = "dev-access-secret-change-me-0123456789"
	devJWTRefreshSecret = "dev-refresh-secret-change-me-0123456789"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	Port                 string
	GoEnv                string
	JWTSecret            string
	JWTRefreshSecret     string
	JWTIssuer            string
	JWTAudience          string
	JWTAccessTTLMin      int
	JWTRefreshTTLHours   int
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	EmailFrom            string
	AdminEmail           string
	PaystackSecretKey    string
	PaystackBaseURL      string
	AWSRegion            string
	AWSS3Bucket          string
	AWSAccessKeyID       string
	AWSSecretAccessKey   string
	PublicBaseURL        string
	CORSAllowedOrigins   []string
	LogLevel             string
	NotifyPollSeconds    int
	NotifyMaxAttempts    int
}

var (
	current   *Config
	currentMu sync.RWMutex
)

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// In production, environment variables are set directly
		// so it's okay if .env files don't exist
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		DBMaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		Port:                 getEnv("PORT", "8080"),
		GoEnv:                getEnv("GO_ENV", "development"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
		JWTIssuer:            getEnv("JWT_ISSUER", "barber-booking-api"),
		JWTAudience:          getEnv("JWT_AUDIENCE", "barber-booking-clients"),
		JWTAccessTTLMin:      getEnvInt("JWT_ACCESS_TTL_MIN", 60),
		JWTRefreshTTLHours:   getEnvInt("JWT_REFRESH_TTL_HOURS", 168),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@barberbooking.local"),
		AdminEmail:           getEnv("ADMIN_EMAIL", ""),
		PaystackSecretKey:    getEnv("PAYSTACK_SECRET_KEY", ""),
		PaystackBaseURL:      getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:          getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:       getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		PublicBaseURL:        strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		NotifyPollSeconds:    getEnvInt("NOTIFY_POLL_SECONDS", 5),
		NotifyMaxAttempts:    getEnvInt("NOTIFY_MAX_ATTEMPTS", 5),
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if !config.IsProduction() {
		if config.JWTSecret == "" {
			log.Printf("JWT_SECRET not set, using development secret")
			config.JWTSecret = devJWTSecret
		}
		if config.JWTRefreshSecret == "" {
			log.Printf("JWT_REFRESH_SECRET not set, using development secret")
			config.JWTRefreshSecret = devJWTRefreshSecret
		}
	}

	SetConfig(config)
	return config, nil
}

// Validate checks that all required configuration values are set.
// Production boots refuse to start without signing secrets.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.JWTRefreshSecret == "" {
			return fmt.Errorf("JWT_REFRESH_SECRET is required in production")
		}
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// GetDatabaseURL returns the database URL
func (c *Config) GetDatabaseURL() string {
	return c.DatabaseURL
}

// SMTPEnabled reports whether outbound mail should go through SMTP.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// S3Enabled reports whether barber photos can be stored in S3.
func (c *Config) S3Enabled() bool {
	return c.AWSS3Bucket != ""
}

// GetConfig returns the configuration loaded by Load (or set by tests).
func GetConfig() *Config {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetConfig replaces the process configuration (primarily for testing)
func SetConfig(cfg *Config) {
	currentMu.Lock()
	current = cfg
	currentMu.Unlock()
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
