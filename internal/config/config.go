package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Stripe
	StripeSecretKey     string
	StripeAPIBaseURL    string
	StripeWebhookSecret string
	PriceDigitalCents   int
	PricePrintedCents   int

	// OpenAI (line-art generation)
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Resend
	ResendAPIKey  string
	ResendBaseURL string
	EmailFrom     string

	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
	BaseURL     string
	AppBaseURL  string

	// Demo-mode capability flags, derived once at load time from the
	// presence of provider credentials. Handlers check these instead of
	// nil-checking clients at every call site.
	DemoPayments   bool
	DemoEmail      bool
	DemoStorage    bool
	DemoGeneration bool
}

func Load() (*Config, error) {
	cfg := &Config{
		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeAPIBaseURL:    getEnv("STRIPE_API_BASE_URL", "https://api.stripe.com/v1"),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PriceDigitalCents:   getEnvInt("PRICE_DIGITAL_CENTS", 999),
		PricePrintedCents:   getEnvInt("PRICE_PRINTED_CENTS", 2499),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_API_BASE_URL", "https://api.openai.com/v1"),

		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		ResendBaseURL: getEnv("RESEND_API_BASE_URL", "https://api.resend.com"),
		EmailFrom:     getEnv("EMAIL_FROM", "hello@blankspace.app"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "blankspace"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:3000"),
	}

	cfg.DemoPayments = cfg.StripeSecretKey == ""
	cfg.DemoEmail = cfg.ResendAPIKey == ""
	cfg.DemoStorage = cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == ""
	cfg.DemoGeneration = cfg.OpenAIAPIKey == ""

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.PriceDigitalCents <= 0 {
		return fmt.Errorf("PRICE_DIGITAL_CENTS must be positive")
	}
	if c.PricePrintedCents <= 0 {
		return fmt.Errorf("PRICE_PRINTED_CENTS must be positive")
	}
	if !c.DemoPayments && c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required when STRIPE_SECRET_KEY is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
