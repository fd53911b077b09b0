package config

import (
	"os"
	"strconv"
	"sync"
)

// MailConfig holds SMTP settings for outbound invite email.
type MailConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
	UseTLS      bool
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env     string // development / production
	Port    string
	BaseURL string // used in invite email links
}

type Config struct {
	App  AppConfig
	Mail MailConfig
}

var (
	config *Config
	once   sync.Once
)

// GetConfig loads configuration from the environment on first use.
func GetConfig() *Config {
	once.Do(func() {
		config = &Config{
			App: AppConfig{
				Env:     envOr("APP_ENV", "production"),
				Port:    envOr("APP_PORT", "8081"),
				BaseURL: envOr("APP_BASE_URL", "http://localhost:8081"),
			},
			Mail: MailConfig{
				Enabled:     envBool("MAIL_ENABLED", false),
				Host:        os.Getenv("MAIL_HOST"),
				Port:        envInt("MAIL_PORT", 587),
				Username:    os.Getenv("MAIL_USERNAME"),
				Password:    os.Getenv("MAIL_PASSWORD"),
				FromName:    envOr("MAIL_FROM_NAME", "Viral Events"),
				FromAddress: os.Getenv("MAIL_FROM_ADDRESS"),
				UseTLS:      envBool("MAIL_USE_TLS", true),
			},
		}
	})
	return config
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
