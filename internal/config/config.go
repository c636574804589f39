package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	Eligibility EligibilityConfig `mapstructure:"eligibility"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// MatchingConfig holds the tunable matching-engine parameters. The threshold
// and weight values are empirically chosen defaults, not fixed law.
type MatchingConfig struct {
	AmountTolerancePct  float64 `mapstructure:"amount_tolerance_pct"`
	DateToleranceDays   int     `mapstructure:"date_tolerance_days"`
	FuzzyThreshold      float64 `mapstructure:"fuzzy_threshold"`
	AutoAcceptExact     bool    `mapstructure:"auto_accept_exact"`
	InvoiceNumberWeight float64 `mapstructure:"invoice_number_weight"`
	DateWeight          float64 `mapstructure:"date_weight"`
	AmountWeight        float64 `mapstructure:"amount_weight"`
}

// EligibilityConfig holds statutory parameters for eligibility and reversal math.
type EligibilityConfig struct {
	InterestRatePct       float64 `mapstructure:"interest_rate_pct"`
	CapitalGoodsLifeYears int     `mapstructure:"capital_goods_life_years"`
	PaymentWindowDays     int     `mapstructure:"payment_window_days"`
}

// Load reads configuration from environment variables with the TAXHIVE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXHIVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Matching defaults
	v.SetDefault("matching.amount_tolerance_pct", 1.0)
	v.SetDefault("matching.date_tolerance_days", 7)
	v.SetDefault("matching.fuzzy_threshold", 0.75)
	v.SetDefault("matching.auto_accept_exact", true)
	v.SetDefault("matching.invoice_number_weight", 0.5)
	v.SetDefault("matching.date_weight", 0.25)
	v.SetDefault("matching.amount_weight", 0.25)

	// Eligibility defaults: 18% p.a. statutory interest, 5-year capital goods
	// life, 180-day supplier payment window.
	v.SetDefault("eligibility.interest_rate_pct", 18.0)
	v.SetDefault("eligibility.capital_goods_life_years", 5)
	v.SetDefault("eligibility.payment_window_days", 180)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
