// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/propscout/dealengine/internal/domain"
)

// Config is the full service configuration: the HTTP surface, the external
// collaborators (redis, postgres) and the engine parameter table.
type Config struct {
	ListenAddr   string `mapstructure:"listen_addr"`
	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	PostgresURL   string        `mapstructure:"postgres_url"`
	RateLimit     int           `mapstructure:"rate_limit"` // requests per refill window
	RateRefillSec int           `mapstructure:"rate_refill_sec"`

	Engine domain.EngineParams `mapstructure:"engine"`
}

const (
	DefaultListenAddr    = ":8080"
	DefaultCacheTTL      = 15 * time.Minute
	DefaultRateLimit     = 60
	DefaultRateRefillSec = 60
)

// LoadConfig reads the config file at path, overlays environment variables
// and validates the result. A missing file is not an error: every knob has a
// default, and the engine parameter table always starts from
// domain.DefaultParams.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"listen_addr":     DefaultListenAddr,
		"debug_logging":   false,
		"log_file":        "dealengine.log",
		"cache_ttl":       DefaultCacheTTL,
		"rate_limit":      DefaultRateLimit,
		"rate_refill_sec": DefaultRateRefillSec,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	setEngineDefaults(v, domain.DefaultParams())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("DEALENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{Engine: domain.DefaultParams()}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, validateConfig(cfg)
}

// setEngineDefaults registers the platform parameter table with viper so a
// config file can override any single constant without restating the rest.
func setEngineDefaults(v *viper.Viper, p domain.EngineParams) {
	v.SetDefault("engine.version", p.Version)
	v.SetDefault("engine.seventy_percent_rule", p.SeventyPercentRule)
	v.SetDefault("engine.wholesale_discount", p.WholesaleDiscount)
	v.SetDefault("engine.target_monthly_cash_flow", p.TargetMonthlyCashFlow)
	v.SetDefault("engine.target_flip_roi", p.TargetFlipROI)
	v.SetDefault("engine.price_tolerance", p.PriceTolerance)
	v.SetDefault("engine.solver_iterations", p.SolverIterations)
	v.SetDefault("engine.irreducible_risk_margin", p.IrreducibleRiskMargin)
	v.SetDefault("engine.weights.deal_gap", p.Weights.DealGap)
	v.SetDefault("engine.weights.return_quality", p.Weights.ReturnQuality)
	v.SetDefault("engine.weights.market_alignment", p.Weights.MarketAlignment)
	v.SetDefault("engine.weights.deal_probability", p.Weights.DealProbability)

	d := p.Defaults
	v.SetDefault("engine.defaults.down_payment_pct", d.DownPaymentPct)
	v.SetDefault("engine.defaults.interest_rate", d.InterestRate)
	v.SetDefault("engine.defaults.loan_term_years", d.LoanTermYears)
	v.SetDefault("engine.defaults.closing_cost_pct", d.ClosingCostPct)
	v.SetDefault("engine.defaults.vacancy_rate", d.VacancyRate)
	v.SetDefault("engine.defaults.management_pct", d.ManagementPct)
	v.SetDefault("engine.defaults.maintenance_pct", d.MaintenancePct)
	v.SetDefault("engine.defaults.capex_pct", d.CapExPct)
	v.SetDefault("engine.defaults.holding_months", d.HoldingMonths)
	v.SetDefault("engine.defaults.selling_cost_pct", d.SellingCostPct)
	v.SetDefault("engine.defaults.hard_money_rate", d.HardMoneyRate)
	v.SetDefault("engine.defaults.hard_money_points", d.HardMoneyPoints)
	v.SetDefault("engine.defaults.refinance_ltv", d.RefinanceLTV)
	v.SetDefault("engine.defaults.refinance_rate", d.RefinanceRate)
	v.SetDefault("engine.defaults.refinance_term_years", d.RefinanceTermYears)
	v.SetDefault("engine.defaults.platform_fee_pct", d.PlatformFeePct)
	v.SetDefault("engine.defaults.wholesale_fee_pct", d.WholesaleFeePct)
}

func validateConfig(cfg *Config) error {
	if cfg.ListenAddr == "" {
		return errors.New("missing listen_addr in configuration")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("invalid rate_limit")
	}
	if cfg.RateRefillSec <= 0 {
		return errors.New("invalid rate_refill_sec")
	}
	if cfg.CacheTTL < 0 {
		return errors.New("invalid cache_ttl")
	}
	return validateEngineParams(&cfg.Engine)
}

func validateEngineParams(p *domain.EngineParams) error {
	w := p.Weights
	sum := w.DealGap + w.ReturnQuality + w.MarketAlignment + w.DealProbability
	if sum < 0.999 || sum > 1.001 {
		return errors.New("engine score weights must sum to 1")
	}
	if p.SolverIterations <= 0 {
		return errors.New("invalid engine.solver_iterations")
	}
	if p.PriceTolerance <= 0 {
		return errors.New("invalid engine.price_tolerance")
	}
	if p.SeventyPercentRule <= 0 || p.SeventyPercentRule > 1 {
		return errors.New("invalid engine.seventy_percent_rule")
	}
	if p.WholesaleDiscount <= 0 || p.WholesaleDiscount > 1 {
		return errors.New("invalid engine.wholesale_discount")
	}
	// The composite is clamped to [0, 100-margin]; a margin at or above 100
	// would leave no valid score range.
	if p.IrreducibleRiskMargin <= 0 || p.IrreducibleRiskMargin >= 100 {
		return errors.New("invalid engine.irreducible_risk_margin")
	}
	if len(p.GradeBands) == 0 {
		return errors.New("engine.grade_bands must not be empty")
	}
	for i := 1; i < len(p.GradeBands); i++ {
		if p.GradeBands[i].Min >= p.GradeBands[i-1].Min {
			return errors.New("engine.grade_bands must be ordered descending by min")
		}
	}
	return nil
}
