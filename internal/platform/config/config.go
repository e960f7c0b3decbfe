// Package config resolves all runtime configuration from the environment
// exactly once, in main. Everything downstream receives the struct by value.
package config

import (
	"os"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	Email       EmailConfig
	UploadDir   string

	// AllowDecisionOverride permits re-deciding an application that already
	// reached accepted or rejected. Off by default: a terminal decision is
	// final and a repeat transition fails with a conflict.
	AllowDecisionOverride bool

	LogLevel string
}

// RedisConfig carries connection settings for the verification code store.
// An empty URL means Redis is not configured and the memory store is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// EmailConfig selects and configures the single outbound email transport.
// Provider is resolved once at startup, never per send.
type EmailConfig struct {
	Provider  string // "ses" or "smtp"
	SESRegion string
	FromEmail string
	SMTP      SMTPConfig
}

// SMTPConfig configures the fallback transport.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	provider := os.Getenv("EMAIL_PROVIDER")
	if provider == "" {
		provider = "smtp"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Email: EmailConfig{
			Provider:  provider,
			SESRegion: os.Getenv("SES_REGION"),
			FromEmail: os.Getenv("FROM_EMAIL"),
			SMTP: SMTPConfig{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     os.Getenv("SMTP_PORT"),
				Username: os.Getenv("SMTP_USERNAME"),
				Password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		UploadDir:             uploadDir,
		AllowDecisionOverride: os.Getenv("ALLOW_DECISION_OVERRIDE") == "true",
		LogLevel:              logLevel,
	}
}
