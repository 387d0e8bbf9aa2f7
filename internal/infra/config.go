package infra

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
)

// Config holds the full process configuration. Credentials can come from the
// file but environment variables always win, so keys never have to live in
// the repo.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	// Environment selects the GRVT deployment: TESTNET, PROD or DEV.
	Environment string `yaml:"environment"`

	API struct {
		Key          string `yaml:"key"`
		SubAccountID string `yaml:"sub_account_id"`
		Secret       string `yaml:"secret"`
	} `yaml:"api"`

	Market string `yaml:"market"`

	Trading struct {
		Leverage         int64   `yaml:"leverage"`
		InvestmentUSDC   string  `yaml:"investment_usdc"`
		SpreadBps        string  `yaml:"spread_bps"`
		OrdersPerSide    int     `yaml:"orders_per_side"`
		OrderSizePercent string  `yaml:"order_size_percent"`
		RefreshInterval  float64 `yaml:"refresh_interval_sec"`
		DelayBetween     float64 `yaml:"delay_between_orders_sec"`
		DelayAfterCancel float64 `yaml:"delay_after_cancel_sec"`
		MaxOrdersToPlace int     `yaml:"max_orders_to_place"`
		UsePostOnly      bool    `yaml:"use_post_only"`
	} `yaml:"trading"`

	Targets struct {
		Volume  string `yaml:"volume"`
		MaxLoss string `yaml:"max_loss"`
		Hours   int    `yaml:"hours"`
	} `yaml:"targets"`

	StatusIntervalSec int `yaml:"status_interval_sec"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and validates the YAML config, applying env overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "TESTNET"
	}
	c.Environment = strings.ToUpper(c.Environment)
	if c.Market == "" {
		c.Market = "BTC_USDT_Perp"
	}
	if c.Trading.Leverage == 0 {
		c.Trading.Leverage = 10
	}
	if c.Trading.InvestmentUSDC == "" {
		c.Trading.InvestmentUSDC = "10"
	}
	if c.Trading.SpreadBps == "" {
		c.Trading.SpreadBps = "2"
	}
	if c.Trading.OrdersPerSide == 0 {
		c.Trading.OrdersPerSide = 10
	}
	if c.Trading.OrderSizePercent == "" {
		c.Trading.OrderSizePercent = "0.1"
	}
	if c.Trading.RefreshInterval == 0 {
		c.Trading.RefreshInterval = 2.0
	}
	if c.Trading.DelayBetween == 0 {
		c.Trading.DelayBetween = 0.05
	}
	if c.Trading.DelayAfterCancel == 0 {
		c.Trading.DelayAfterCancel = 0.3
	}
	if c.Trading.MaxOrdersToPlace == 0 {
		c.Trading.MaxOrdersToPlace = 10
	}
	if c.Targets.Volume == "" {
		c.Targets.Volume = "100000"
	}
	if c.Targets.MaxLoss == "" {
		c.Targets.MaxLoss = "10"
	}
	if c.Targets.Hours == 0 {
		c.Targets.Hours = 24
	}
	if c.StatusIntervalSec == 0 {
		c.StatusIntervalSec = 30
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// overrideWithEnv applies environment variables over file values. Credentials
// belong in the environment, not the file.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("GRVT_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("GRVT_API_SECRET"); v != "" {
		cfg.API.Secret = v
	}
	if v := os.Getenv("GRVT_SUB_ACCOUNT_ID"); v != "" {
		cfg.API.SubAccountID = v
	}
	if v := os.Getenv("GRVT_ENVIRONMENT"); v != "" {
		cfg.Environment = strings.ToUpper(v)
	}
	if v := os.Getenv("GRVT_MARKET"); v != "" {
		cfg.Market = v
	}
}

// Validate rejects configs that must never reach the exchange. Missing
// credentials fail here, before any network call.
func (c *Config) Validate() error {
	switch c.Environment {
	case "TESTNET", "PROD", "DEV":
	default:
		return fmt.Errorf("unknown environment %q (want TESTNET, PROD or DEV)", c.Environment)
	}
	if c.API.Key == "" {
		return fmt.Errorf("API key is required (GRVT_API_KEY)")
	}
	if c.API.Secret == "" {
		return fmt.Errorf("API secret is required (GRVT_API_SECRET)")
	}
	if c.API.SubAccountID == "" {
		return fmt.Errorf("trading sub-account id is required (GRVT_SUB_ACCOUNT_ID)")
	}
	if c.Market == "" {
		return fmt.Errorf("market is required")
	}
	if _, err := decimal.NewFromString(c.Trading.SpreadBps); err != nil {
		return fmt.Errorf("invalid spread_bps %q: %w", c.Trading.SpreadBps, err)
	}
	if _, err := decimal.NewFromString(c.Targets.Volume); err != nil {
		return fmt.Errorf("invalid target volume %q: %w", c.Targets.Volume, err)
	}
	if _, err := decimal.NewFromString(c.Targets.MaxLoss); err != nil {
		return fmt.Errorf("invalid max_loss %q: %w", c.Targets.MaxLoss, err)
	}
	if c.Targets.Hours <= 0 {
		return fmt.Errorf("target hours must be positive, got %d", c.Targets.Hours)
	}
	return nil
}

// Strategy converts the file config plus discovered market metadata into the
// validated strategy config the engine consumes.
func (c *Config) Strategy(tickSize, minSize decimal.Decimal) (domain.StrategyConfig, error) {
	investment, err := decimal.NewFromString(c.Trading.InvestmentUSDC)
	if err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("invalid investment_usdc: %w", err)
	}
	spread, err := decimal.NewFromString(c.Trading.SpreadBps)
	if err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("invalid spread_bps: %w", err)
	}
	sizePct, err := decimal.NewFromString(c.Trading.OrderSizePercent)
	if err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("invalid order_size_percent: %w", err)
	}

	strat := domain.StrategyConfig{
		Market:           c.Market,
		Leverage:         c.Trading.Leverage,
		Investment:       investment,
		SpreadBps:        spread,
		OrdersPerSide:    c.Trading.OrdersPerSide,
		OrderSizePercent: sizePct,
		RefreshInterval:  secondsToDuration(c.Trading.RefreshInterval),
		DelayBetween:     secondsToDuration(c.Trading.DelayBetween),
		DelayAfterCancel: secondsToDuration(c.Trading.DelayAfterCancel),
		MaxOrdersToPlace: c.Trading.MaxOrdersToPlace,
		UsePostOnly:      c.Trading.UsePostOnly,
		TickSize:         tickSize,
		MinSize:          minSize,
	}
	if err := strat.Validate(); err != nil {
		return domain.StrategyConfig{}, err
	}
	return strat, nil
}

// SessionTargets parses the volume/loss/time bounds.
func (c *Config) SessionTargets() (domain.Targets, error) {
	volume, err := decimal.NewFromString(c.Targets.Volume)
	if err != nil {
		return domain.Targets{}, fmt.Errorf("invalid target volume: %w", err)
	}
	maxLoss, err := decimal.NewFromString(c.Targets.MaxLoss)
	if err != nil {
		return domain.Targets{}, fmt.Errorf("invalid max_loss: %w", err)
	}
	return domain.Targets{Volume: volume, MaxLoss: maxLoss, Hours: c.Targets.Hours}, nil
}

// StatusInterval returns the minimum gap between status reports.
func (c *Config) StatusInterval() time.Duration {
	return time.Duration(c.StatusIntervalSec) * time.Second
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
