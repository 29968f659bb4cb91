package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
// Secrets (SMTP password, SendGrid and Stripe keys) are mounted as env vars by
// the function runtime and only checked by the features that need them.
type Config struct {
	ProjectID string

	MailFrom     string
	MailFromName string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string

	SendGridAPIKey string

	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string
	CheckoutUnitAmount  int64

	ThumbnailBucket  string
	ThumbnailMaxEdge int

	CleanupBatchSize int
	AllowedOrigins   []string
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		ProjectID: getEnv("PROJECT_ID", getEnv("GOOGLE_CLOUD_PROJECT", "")),

		MailFrom:     getEnv("MAIL_FROM", "terryd@songreaktor.com"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Song Reaktor"),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", "terryd@songreaktor.com"),
		SMTPPassword: getEnv("GMAIL_APP_PASSWORD", ""),

		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		CheckoutSuccessURL:  getEnv("CHECKOUT_SUCCESS_URL", "https://songreaktor.com/success"),
		CheckoutCancelURL:   getEnv("CHECKOUT_CANCEL_URL", "https://songreaktor.com/cancel"),
		CheckoutUnitAmount:  int64(getEnvInt("CHECKOUT_UNIT_AMOUNT", 2000)),

		ThumbnailBucket:  getEnv("THUMBNAIL_BUCKET", ""),
		ThumbnailMaxEdge: getEnvInt("THUMBNAIL_MAX_EDGE", 512),

		CleanupBatchSize: getEnvInt("CLEANUP_BATCH_SIZE", 300),
		AllowedOrigins:   strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
