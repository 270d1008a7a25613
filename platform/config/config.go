// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides per-IP limits for lead submission.
type RateLimitConfig interface {
	GetLeadSubmitRatePerMinute() float64
	GetLeadSubmitBurst() int
}

// RedisConfig provides the shared Redis connection string.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// SessionConfig provides lifetimes for short-lived Redis keys.
type SessionConfig interface {
	GetQuizSessionTTL() time.Duration
	GetSubmitLockTTL() time.Duration
	GetPurgeTokenTTL() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketReports() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides settings for outgoing report emails.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsEmailEnabled() bool
}

// ReportConfig provides branding and link settings for rendered reports.
type ReportConfig interface {
	GetAppBaseURL() string
	GetBrandName() string
	GetLogoURL() string
	GetContactEmail() string
	GetContactPhone() string
	GetContactWebsite() string
	GetTimezone() *time.Location
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env            string
	HTTPAddr       string
	DatabaseURL    string
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	LeadSubmitRatePerMinute float64
	LeadSubmitBurst         int

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int

	QuizSessionTTL time.Duration
	SubmitLockTTL  time.Duration
	PurgeTokenTTL  time.Duration

	MinIOEndpoint      string
	MinIOAccessKey     string
	MinIOSecretKey     string
	MinIOUseSSL        bool
	MinioBucketReports string

	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	EmailEnabled     bool

	AppBaseURL     string
	BrandName      string
	LogoURL        string
	ContactEmail   string
	ContactPhone   string
	ContactWebsite string
	Timezone       *time.Location
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetLeadSubmitRatePerMinute() float64 { return c.LeadSubmitRatePerMinute }
func (c *Config) GetLeadSubmitBurst() int             { return c.LeadSubmitBurst }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// SessionConfig implementation
func (c *Config) GetQuizSessionTTL() time.Duration { return c.QuizSessionTTL }
func (c *Config) GetSubmitLockTTL() time.Duration  { return c.SubmitLockTTL }
func (c *Config) GetPurgeTokenTTL() time.Duration  { return c.PurgeTokenTTL }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string      { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string     { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string     { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool          { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketReports() string { return c.MinioBucketReports }
func (c *Config) IsMinIOEnabled() bool {
	return c.MinIOEndpoint != "" && c.MinIOAccessKey != "" && c.MinIOSecretKey != ""
}

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsEmailEnabled() bool        { return c.EmailEnabled }

// ReportConfig implementation
func (c *Config) GetAppBaseURL() string       { return c.AppBaseURL }
func (c *Config) GetBrandName() string        { return c.BrandName }
func (c *Config) GetLogoURL() string          { return c.LogoURL }
func (c *Config) GetContactEmail() string     { return c.ContactEmail }
func (c *Config) GetContactPhone() string     { return c.ContactPhone }
func (c *Config) GetContactWebsite() string   { return c.ContactWebsite }
func (c *Config) GetTimezone() *time.Location { return c.Timezone }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	tzName := getEnv("REPORT_TIMEZONE", "America/Sao_Paulo")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("REPORT_TIMEZONE %q: %w", tzName, err)
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),

		LeadSubmitRatePerMinute: mustFloat(getEnv("LEAD_SUBMIT_RATE_PER_MINUTE", "10")),
		LeadSubmitBurst:         mustInt(getEnv("LEAD_SUBMIT_BURST", "5")),

		RedisURL:         getEnv("REDIS_URL", ""),
		RedisTLSInsecure: strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:   getEnv("ASYNQ_QUEUE", "reports"),
		AsynqConcurrency: mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),

		QuizSessionTTL: mustDuration(getEnv("QUIZ_SESSION_TTL", "24h")),
		SubmitLockTTL:  mustDuration(getEnv("SUBMIT_LOCK_TTL", "30s")),
		PurgeTokenTTL:  mustDuration(getEnv("PURGE_TOKEN_TTL", "2m")),

		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:        strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketReports: getEnv("MINIO_BUCKET_REPORTS", "maturity-reports"),

		SMTPHost:         smtpHost,
		SMTPPort:         mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Mastervendas"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		EmailEnabled:     emailEnabled && smtpHost != "",

		AppBaseURL:     strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
		BrandName:      getEnv("BRAND_NAME", "MASTERVENDAS"),
		LogoURL:        getEnv("REPORT_LOGO_URL", ""),
		ContactEmail:   getEnv("CONTACT_EMAIL", "contato@mastervendas.com.br"),
		ContactPhone:   getEnv("CONTACT_PHONE", "(11) 99999-9999"),
		ContactWebsite: getEnv("CONTACT_WEBSITE", "www.mastervendas.com.br"),
		Timezone:       tz,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.EmailEnabled && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.QuizSessionTTL <= 0 || cfg.SubmitLockTTL <= 0 || cfg.PurgeTokenTTL <= 0 {
		return nil, fmt.Errorf("QUIZ_SESSION_TTL, SUBMIT_LOCK_TTL and PURGE_TOKEN_TTL must be positive durations")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
