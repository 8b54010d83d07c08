package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Providers     ProvidersConfig
	Fanout        FanoutConfig
	Observability ObservabilityConfig
	ServicesFile  string // Path to the YAML file naming the enabled services
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// ProvidersConfig holds photo service provider configurations
type ProvidersConfig struct {
	Flickr   FlickrConfig
	Facebook FacebookConfig
}

// FlickrConfig holds Flickr provider configuration.
// APIKey and Secret identify the application; DefaultUserID and DefaultToken
// are an optional server-side fallback credential used when a request does
// not carry its own.
type FlickrConfig struct {
	APIKey        string
	Secret        string
	BaseURL       string
	DefaultUserID string
	DefaultToken  string
}

// FacebookConfig holds Facebook Graph provider configuration
type FacebookConfig struct {
	BaseURL      string
	DefaultToken string
}

// FanoutConfig bounds the concurrent dispatch of provider requests
type FanoutConfig struct {
	MaxConcurrent  int
	RequestTimeout time.Duration
}

// ObservabilityConfig holds logging configuration
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string // json or text
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  []string{getEnv("CORS_ALLOWED_ORIGIN", "*")},
		},
		Providers: ProvidersConfig{
			Flickr: FlickrConfig{
				APIKey:        getEnv("FLICKR_API_KEY", ""),
				Secret:        getEnv("FLICKR_SECRET", ""),
				BaseURL:       getEnv("FLICKR_BASE_URL", "https://api.flickr.com/services/rest/"),
				DefaultUserID: getEnv("FLICKR_USER_ID", ""),
				DefaultToken:  getEnv("FLICKR_TOKEN", ""),
			},
			Facebook: FacebookConfig{
				BaseURL:      getEnv("FACEBOOK_BASE_URL", "https://graph.facebook.com/v19.0"),
				DefaultToken: getEnv("FACEBOOK_ACCESS_TOKEN", ""),
			},
		},
		Fanout: FanoutConfig{
			MaxConcurrent:  getEnvAsInt("FANOUT_MAX_CONCURRENT", 8),
			RequestTimeout: getEnvAsDuration("FANOUT_REQUEST_TIMEOUT", 10*time.Second),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
		ServicesFile: getEnv("SERVICES_FILE", "services.yaml"),
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if all required configuration fields are set
func (c *Config) Validate() error {
	if c.Fanout.MaxConcurrent < 1 {
		return fmt.Errorf("fanout max concurrent must be at least 1")
	}
	if c.Fanout.RequestTimeout <= 0 {
		return fmt.Errorf("fanout request timeout must be positive")
	}

	// Flickr needs an application key before it can sign anything
	if c.IsProduction() && c.Providers.Flickr.APIKey == "" {
		return fmt.Errorf("flickr API key is required in production")
	}

	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}
	if c.ServicesFile == "" {
		return fmt.Errorf("services file path is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
