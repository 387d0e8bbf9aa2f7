package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// StrategyConfig holds every knob the quote engine and the cycle scheduler
// need. TickSize and MinSize come from market metadata at startup; the rest
// comes from the config file.
type StrategyConfig struct {
	Market           string
	Leverage         int64
	Investment       decimal.Decimal
	SpreadBps        decimal.Decimal
	OrdersPerSide    int
	OrderSizePercent decimal.Decimal
	RefreshInterval  time.Duration
	DelayBetween     time.Duration
	DelayAfterCancel time.Duration
	MaxOrdersToPlace int
	UsePostOnly      bool
	TickSize         decimal.Decimal
	MinSize          decimal.Decimal
}

// Validate enforces the strategy invariants. A config failing here must never
// reach the cycle loop.
func (c StrategyConfig) Validate() error {
	if c.Market == "" {
		return fmt.Errorf("market is required")
	}
	if !c.SpreadBps.IsPositive() {
		return fmt.Errorf("spread_bps must be positive, got %s", c.SpreadBps)
	}
	if c.OrdersPerSide < 1 {
		return fmt.Errorf("orders_per_side must be at least 1, got %d", c.OrdersPerSide)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh_interval must be positive, got %s", c.RefreshInterval)
	}
	if !c.TickSize.IsPositive() {
		return fmt.Errorf("tick_size must be positive, got %s", c.TickSize)
	}
	if !c.MinSize.IsPositive() {
		return fmt.Errorf("min_size must be positive, got %s", c.MinSize)
	}
	return nil
}

// Targets bounds the session: stop at the volume goal, the tolerated loss,
// or the time limit, whichever trips first.
type Targets struct {
	Volume  decimal.Decimal
	MaxLoss decimal.Decimal
	Hours   int
}

// Duration returns the session time limit.
func (t Targets) Duration() time.Duration {
	return time.Duration(t.Hours) * time.Hour
}
