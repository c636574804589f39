package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Riftal-Studios/TaxHive-sub007/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)

	assert.Equal(t, 1.0, cfg.Matching.AmountTolerancePct)
	assert.Equal(t, 7, cfg.Matching.DateToleranceDays)
	assert.Equal(t, 0.75, cfg.Matching.FuzzyThreshold)
	assert.True(t, cfg.Matching.AutoAcceptExact)
	assert.Equal(t, 1.0, cfg.Matching.InvoiceNumberWeight+cfg.Matching.DateWeight+cfg.Matching.AmountWeight)

	assert.Equal(t, 18.0, cfg.Eligibility.InterestRatePct)
	assert.Equal(t, 5, cfg.Eligibility.CapitalGoodsLifeYears)
	assert.Equal(t, 180, cfg.Eligibility.PaymentWindowDays)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("TAXHIVE_SERVER_PORT", ":9090")
	t.Setenv("TAXHIVE_MATCHING_FUZZY_THRESHOLD", "0.9")
	t.Setenv("TAXHIVE_ELIGIBILITY_PAYMENT_WINDOW_DAYS", "90")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, 0.9, cfg.Matching.FuzzyThreshold)
	assert.Equal(t, 90, cfg.Eligibility.PaymentWindowDays)
}
