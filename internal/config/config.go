package config

import (
	"errors"
	"sync"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	AppPort               int    `mapstructure:"APP_PORT"`
	AppEnv                string `mapstructure:"APP_ENV"`
	BcryptCost            int    `mapstructure:"BCRYPT_COST"`
	LogLevel              string `mapstructure:"LOG_LEVEL"`
	LogFormat             string `mapstructure:"LOG_FORMAT"`
	MongoURI              string `mapstructure:"MONGO_URI"`
	MongoDBName           string `mapstructure:"MONGO_DB_NAME"`
	JWTSecret             string `mapstructure:"JWT_SECRET"`
	JWTExpiresDays        int    `mapstructure:"JWT_EXPIRES_DAYS"`
	CookieExpiresDays     int    `mapstructure:"COOKIE_EXPIRES_DAYS"`
	ResetTokenMinutes     int    `mapstructure:"RESET_TOKEN_MINUTES"`
	RateLimitMax          int    `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindowMin    int    `mapstructure:"RATE_LIMIT_WINDOW_MIN"`
	MailgunDomain         string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIKey         string `mapstructure:"MAILGUN_API_KEY"`
	EmailFrom             string `mapstructure:"EMAIL_FROM"`
	RouteMetricsEnabled   bool   `mapstructure:"ROUTE_METRICS_ENABLED"`
	RequestLoggingEnabled bool   `mapstructure:"REQUEST_LOGGING_ENABLED"`
}

var (
	cachedConfig *Config
	configMutex  sync.RWMutex
)

// Load loads configuration from environment variables and .env file
// It caches the result for subsequent calls
func Load() (Config, error) {
	configMutex.RLock()
	if cachedConfig != nil {
		defer configMutex.RUnlock()
		return *cachedConfig, nil
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	// Double-check in case another goroutine loaded it while we waited for the lock
	if cachedConfig != nil {
		return *cachedConfig, nil
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("APP_PORT", 8080)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("MONGO_URI", "mongodb://mongo:27017")
	v.SetDefault("MONGO_DB_NAME", "natours")
	v.SetDefault("JWT_SECRET", "this-is-a-default-jwt-secret-key-with-32-plus-characters")
	v.SetDefault("JWT_EXPIRES_DAYS", 90)
	v.SetDefault("COOKIE_EXPIRES_DAYS", 90)
	v.SetDefault("RESET_TOKEN_MINUTES", 10)
	v.SetDefault("RATE_LIMIT_MAX", 99)
	v.SetDefault("RATE_LIMIT_WINDOW_MIN", 60)
	v.SetDefault("MAILGUN_DOMAIN", "")
	v.SetDefault("MAILGUN_API_KEY", "")
	v.SetDefault("EMAIL_FROM", "Natours <admin@natours.io>")
	v.SetDefault("ROUTE_METRICS_ENABLED", true)
	v.SetDefault("REQUEST_LOGGING_ENABLED", true)

	// Configure Viper to read from .env file (if present)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	// Try to read .env file (it's okay if it doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	// Override with OS environment variables
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	// Cache the configuration
	cachedConfig = &cfg

	return cfg, nil
}

// ResetCache clears the cached configuration (for testing purposes)
func ResetCache() {
	configMutex.Lock()
	defer configMutex.Unlock()
	cachedConfig = nil
}

// IsProduction reports whether the app runs with production-level error detail.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate checks if required configuration fields are properly set
func (c Config) Validate() error {
	if c.AppPort <= 0 {
		return errors.New("APP_PORT must be greater than 0")
	}
	switch c.AppEnv {
	case "development", "production":
		// Valid environments
	default:
		return errors.New("APP_ENV must be either development or production")
	}
	if c.BcryptCost < 10 || c.BcryptCost > 16 {
		return errors.New("BCRYPT_COST must be between 10 and 16")
	}
	if c.LogLevel == "" {
		return errors.New("LOG_LEVEL cannot be empty")
	}
	if c.LogFormat == "" {
		return errors.New("LOG_FORMAT cannot be empty")
	}
	if c.MongoURI == "" {
		return errors.New("MONGO_URI cannot be empty")
	}
	if c.MongoDBName == "" {
		return errors.New("MONGO_DB_NAME cannot be empty")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET cannot be empty")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.JWTExpiresDays <= 0 {
		return errors.New("JWT_EXPIRES_DAYS must be greater than 0")
	}
	if c.CookieExpiresDays <= 0 {
		return errors.New("COOKIE_EXPIRES_DAYS must be greater than 0")
	}
	if c.ResetTokenMinutes <= 0 {
		return errors.New("RESET_TOKEN_MINUTES must be greater than 0")
	}
	if c.RateLimitWindowMin <= 0 {
		return errors.New("RATE_LIMIT_WINDOW_MIN must be greater than 0")
	}
	return nil
}
