// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	devSessionSecret,
}

// devSessionSecret is used when no secret is set outside production.
const devSessionSecret = "sanctuary-development-secret-32b!"

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
// Every integration is optional: when its variables are missing the feature
// falls back to its degraded mode instead of failing startup.
type Config struct {
	DBPath        string `env:"SANCTUARY_DB_PATH" envDefault:"./data/sanctuary.db"`
	SessionSecret string `env:"SANCTUARY_SESSION_SECRET"`
	ServerHost    string `env:"SANCTUARY_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SANCTUARY_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SANCTUARY_ENV" envDefault:"development"`
	LogLevel      string `env:"SANCTUARY_LOG_LEVEL" envDefault:"info"`
	LogFile       string `env:"SANCTUARY_LOG_FILE"` // Optional rotating log file
	UploadsDir    string `env:"SANCTUARY_UPLOADS_DIR" envDefault:"./uploads"`
	PublicURL     string `env:"SANCTUARY_PUBLIC_URL" envDefault:"http://localhost:8080"`
	ChurchName    string `env:"SANCTUARY_CHURCH_NAME" envDefault:"Sanctuary Church"`

	// Cache configuration
	RedisURL         string        `env:"SANCTUARY_REDIS_URL"`
	CachePrefix      string        `env:"SANCTUARY_CACHE_PREFIX" envDefault:"sanctuary:"`
	CalendarCacheTTL time.Duration `env:"SANCTUARY_CALENDAR_CACHE_TTL" envDefault:"5m"`

	// Google OAuth and Calendar
	GoogleClientID         string `env:"SANCTUARY_GOOGLE_CLIENT_ID"`
	GoogleClientSecret     string `env:"SANCTUARY_GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL      string `env:"SANCTUARY_GOOGLE_REDIRECT_URL" envDefault:"http://localhost:8080/api/calendar/callback"`
	GoogleLoginRedirectURL string `env:"SANCTUARY_GOOGLE_LOGIN_REDIRECT_URL" envDefault:"http://localhost:8080/api/auth/google/callback"`
	GoogleCalendarID       string `env:"SANCTUARY_GOOGLE_CALENDAR_ID"`
	GoogleRefreshToken     string `env:"SANCTUARY_GOOGLE_REFRESH_TOKEN"`
	GoogleAPIKey           string `env:"SANCTUARY_GOOGLE_API_KEY"`
	CalendarTimezone       string `env:"SANCTUARY_CALENDAR_TIMEZONE" envDefault:"America/Chicago"`
	OAuthAutoCreate        bool   `env:"SANCTUARY_OAUTH_AUTO_CREATE" envDefault:"false"`

	// Outbound email
	SMTPHost       string `env:"SANCTUARY_SMTP_HOST"`
	SMTPPort       int    `env:"SANCTUARY_SMTP_PORT" envDefault:"587"`
	SMTPUser       string `env:"SANCTUARY_SMTP_USER"`
	SMTPPassword   string `env:"SANCTUARY_SMTP_PASSWORD"`
	SMTPFrom       string `env:"SANCTUARY_SMTP_FROM" envDefault:"no-reply@localhost"`
	ContactEmail   string `env:"SANCTUARY_CONTACT_EMAIL"`
	PrayerEmail    string `env:"SANCTUARY_PRAYER_EMAIL"`
	VolunteerEmail string `env:"SANCTUARY_VOLUNTEER_EMAIL"`

	// AI event summaries
	AIProvider   string `env:"SANCTUARY_AI_PROVIDER" envDefault:"openai"` // openai | gemini
	AIModel      string `env:"SANCTUARY_AI_MODEL"`
	OpenAIAPIKey string `env:"SANCTUARY_OPENAI_API_KEY"`
	GeminiAPIKey string `env:"SANCTUARY_GEMINI_API_KEY"`

	// hCaptcha configuration
	HCaptchaSiteKey   string `env:"SANCTUARY_HCAPTCHA_SITE_KEY"`
	HCaptchaSecretKey string `env:"SANCTUARY_HCAPTCHA_SECRET_KEY"`

	// Seeding configuration
	DoSeed bool `env:"SANCTUARY_DO_SEED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// HCaptchaEnabled returns true if hCaptcha is configured.
func (c Config) HCaptchaEnabled() bool {
	return c.HCaptchaSiteKey != "" && c.HCaptchaSecretKey != ""
}

// SMTPEnabled returns true if an SMTP relay is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}

// AIAPIKey returns the API key for the configured AI provider.
func (c Config) AIAPIKey() string {
	if c.AIProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// NotificationEmail returns the staff inbox for a submission kind,
// falling back to the contact address.
func (c Config) NotificationEmail(kind string) string {
	switch kind {
	case "prayer":
		if c.PrayerEmail != "" {
			return c.PrayerEmail
		}
	case "volunteer":
		if c.VolunteerEmail != "" {
			return c.VolunteerEmail
		}
	}
	return c.ContactEmail
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validateSessionSecret(); err != nil {
		return nil, err
	}

	if cfg.AIProvider != "openai" && cfg.AIProvider != "gemini" {
		return nil, fmt.Errorf("SANCTUARY_AI_PROVIDER must be openai or gemini, got %q", cfg.AIProvider)
	}

	return cfg, nil
}

func (c *Config) validateSessionSecret() error {
	if c.SessionSecret == "" && c.IsDevelopment() {
		slog.Warn("SANCTUARY_SESSION_SECRET not set, using development secret")
		c.SessionSecret = devSessionSecret
		return nil
	}

	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("SANCTUARY_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	if !c.IsDevelopment() {
		for _, weak := range knownWeakSecrets {
			if c.SessionSecret == weak {
				return fmt.Errorf("SANCTUARY_SESSION_SECRET is a known default value and must not be used; " +
					"generate a secure secret with: openssl rand -base64 32")
			}
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("SANCTUARY_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
