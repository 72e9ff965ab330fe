package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"squad-backend/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `validate:"required"`
	Environment   string `validate:"oneof=development staging production"`

	// AWS configuration
	AWSRegion     string `validate:"required"`
	DynamoDBTable string `validate:"required"`
	EventBusName  string

	// StoreTimeout bounds every call to the durable backend; on expiry the
	// call surfaces as unavailable rather than hanging the request.
	StoreTimeout time.Duration `validate:"gt=0"`

	// Static assets
	StaticDir string
	APIKey    string

	// Logging
	LogLevel string

	// Feature flags
	EnableEvents  bool
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":"+getEnv("PORT", "8080")),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable: getEnv("TABLE_NAME", "squad-availability"),
		EventBusName:  getEnv("EVENT_BUS_NAME", "squad-events"),

		StoreTimeout: time.Duration(getEnvInt("STORE_TIMEOUT_MS", 5000)) * time.Millisecond,

		StaticDir: getEnv("STATIC_DIR", "."),
		APIKey:    getEnv("API_KEY", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableEvents:  getEnvBool("ENABLE_EVENTS", false),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
