package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"`
	ClientURL                        string `mapstructure:"CLIENT_URL"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ContentCacheTTL time.Duration `mapstructure:"CONTENT_CACHE_TTL"`

	AMQPURL          string `mapstructure:"AMQP_URL"`
	QuoteEventsQueue string `mapstructure:"QUOTE_EVENTS_QUEUE"`

	SMTPHost         string `mapstructure:"SMTP_HOST"`
	SMTPPort         string `mapstructure:"SMTP_PORT"`
	SMTPUsername     string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword     string `mapstructure:"SMTP_PASSWORD"`
	MailFrom         string `mapstructure:"MAIL_FROM"`
	AdminNotifyEmail string `mapstructure:"ADMIN_NOTIFY_EMAIL"`

	QuoteNameMinLength    int  `mapstructure:"QUOTE_NAME_MIN_LENGTH"`
	QuoteMessageRequired  bool `mapstructure:"QUOTE_MESSAGE_REQUIRED"`
	QuoteMessageMinLength int  `mapstructure:"QUOTE_MESSAGE_MIN_LENGTH"`
	QuoteRatePerMinute    int  `mapstructure:"QUOTE_RATE_PER_MINUTE"`
	QuoteRateBurst        int  `mapstructure:"QUOTE_RATE_BURST"`

	SeedContent bool `mapstructure:"SEED_CONTENT"`
}

var defaults = map[string]interface{}{
	"PORT":                     "8080",
	"GIN_MODE":                 "debug",
	"CLIENT_URL":               "http://localhost:9002",
	"REDIS_DB":                 0,
	"CONTENT_CACHE_TTL":        "5m",
	"QUOTE_EVENTS_QUEUE":       "quote-events",
	"SMTP_PORT":                "2525",
	"QUOTE_NAME_MIN_LENGTH":    2,
	"QUOTE_MESSAGE_REQUIRED":   true,
	"QUOTE_MESSAGE_MIN_LENGTH": 10,
	"QUOTE_RATE_PER_MINUTE":    5,
	"QUOTE_RATE_BURST":         5,
	"SEED_CONTENT":             true,
}

var boundOnly = []string{
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"FIREBASE_WEB_API_KEY",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"AMQP_URL",
	"SMTP_HOST",
	"SMTP_USERNAME",
	"SMTP_PASSWORD",
	"MAIL_FROM",
	"ADMIN_NOTIFY_EMAIL",
}

var (
	appConfig *Config
	mu        sync.RWMutex
)

// LoadConfig loads configuration from environment variables using Viper. Outside release mode
// a .env file in the working directory is loaded first, without overriding the environment.
func LoadConfig() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	for _, key := range boundOnly {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	appConfig = &cfg
	mu.Unlock()
	return &cfg, nil
}

// Validate checks required settings and value ranges.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.QuoteNameMinLength < 1 {
		return errors.New("QUOTE_NAME_MIN_LENGTH must be at least 1")
	}
	if c.QuoteMessageRequired && c.QuoteMessageMinLength < 1 {
		return errors.New("QUOTE_MESSAGE_MIN_LENGTH must be at least 1 when the message is required")
	}
	if c.QuoteRatePerMinute < 1 || c.QuoteRateBurst < 1 {
		return errors.New("QUOTE_RATE_PER_MINUTE and QUOTE_RATE_BURST must be positive")
	}
	if c.AdminNotifyEmail != "" && c.SMTPHost == "" {
		return errors.New("SMTP_HOST is required when ADMIN_NOTIFY_EMAIL is set")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
