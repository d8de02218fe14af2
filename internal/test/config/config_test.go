package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blankspace-backend/internal/config"
)

// clearProviderEnv blanks every credential variable so defaults are exercised
// regardless of the shell the tests run in.
func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_API_BASE_URL",
		"PRICE_DIGITAL_CENTS", "PRICE_PRINTED_CENTS",
		"OPENAI_API_KEY", "OPENAI_API_BASE_URL",
		"RESEND_API_KEY", "RESEND_API_BASE_URL", "EMAIL_FROM",
		"SUPABASE_URL", "SUPABASE_SERVICE_ROLE_KEY", "SUPABASE_JWT_SECRET", "SUPABASE_STORAGE_BUCKET",
		"DATABASE_URL", "PORT", "ENVIRONMENT", "BASE_URL", "APP_BASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:3000", cfg.AppBaseURL)
	assert.Equal(t, "https://api.stripe.com/v1", cfg.StripeAPIBaseURL)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, "https://api.resend.com", cfg.ResendBaseURL)
	assert.Equal(t, "blankspace", cfg.SupabaseStorageBucket)
	assert.Equal(t, 999, cfg.PriceDigitalCents)
	assert.Equal(t, 2499, cfg.PricePrintedCents)
}

func TestLoad_DemoFlagsWithoutCredentials(t *testing.T) {
	clearProviderEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.DemoPayments)
	assert.True(t, cfg.DemoEmail)
	assert.True(t, cfg.DemoStorage)
	assert.True(t, cfg.DemoGeneration)
}

func TestLoad_DemoFlagsWithCredentials(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("RESEND_API_KEY", "re_test_123")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.DemoPayments)
	assert.False(t, cfg.DemoEmail)
	assert.False(t, cfg.DemoStorage)
	assert.False(t, cfg.DemoGeneration)
}

func TestLoad_StorageNeedsBothURLAndKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("SUPABASE_URL", "https://project.supabase.co")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.DemoStorage)
}

func TestLoad_WebhookSecretRequiredWithStripeKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET")
}

func TestLoad_PriceOverrides(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PRICE_DIGITAL_CENTS", "1299")
	t.Setenv("PRICE_PRINTED_CENTS", "2999")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 1299, cfg.PriceDigitalCents)
	assert.Equal(t, 2999, cfg.PricePrintedCents)
}

func TestLoad_InvalidPriceFallsBackToDefault(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("PRICE_DIGITAL_CENTS", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 999, cfg.PriceDigitalCents)
}

func TestValidate_RejectsNonPositivePrices(t *testing.T) {
	cfg := &config.Config{PriceDigitalCents: 0, PricePrintedCents: 2499}
	assert.Error(t, cfg.Validate())

	cfg = &config.Config{PriceDigitalCents: 999, PricePrintedCents: -1}
	assert.Error(t, cfg.Validate())
}
