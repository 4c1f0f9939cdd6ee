package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kendall-kelly/reservations-api/utils"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	LogLevel           string
	LogFormat          string
	RestaurantTimezone string
	CORSAllowedOrigins []string
	RabbitMQURL        string
	EventsExchange     string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	ManifestURLTTL     time.Duration
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		// In production variables are set directly, so missing .env files are fine
		if err := godotenv.Load(); err != nil {
			utils.Logger.Debug("No .env file found, using system environment variables")
		}
	} else {
		utils.Logger.Debugf("Loaded configuration from %s", envFile)
	}

	ttl, err := time.ParseDuration(getEnv("MANIFEST_URL_TTL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid MANIFEST_URL_TTL: %w", err)
	}

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		RestaurantTimezone: getEnv("RESTAURANT_TIMEZONE", "Local"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RabbitMQURL:        getEnv("RABBITMQ_URL", ""),
		EventsExchange:     getEnv("EVENTS_EXCHANGE", "reservations.events"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		ManifestURLTTL:     ttl,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.ManifestURLTTL <= 0 {
		return fmt.Errorf("MANIFEST_URL_TTL must be positive")
	}
	return nil
}

// Location returns the restaurant's timezone. Reservation dates and times
// are wall-clock values in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.RestaurantTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RESTAURANT_TIMEZONE %q: %w", c.RestaurantTimezone, err)
	}
	return loc, nil
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

// EventsEnabled reports whether a message broker is configured.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

// ManifestsEnabled reports whether manifest export to S3 is configured.
func (c *Config) ManifestsEnabled() bool {
	return c.AWSS3Bucket != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
