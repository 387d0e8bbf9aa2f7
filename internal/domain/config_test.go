package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validStrategy() StrategyConfig {
	return StrategyConfig{
		Market:           "BTC_USDT_Perp",
		Leverage:         10,
		Investment:       decimal.NewFromInt(100),
		SpreadBps:        decimal.NewFromInt(2),
		OrdersPerSide:    3,
		OrderSizePercent: decimal.RequireFromString("0.1"),
		RefreshInterval:  2 * time.Second,
		MaxOrdersToPlace: 10,
		TickSize:         decimal.RequireFromString("0.1"),
		MinSize:          decimal.RequireFromString("0.001"),
	}
}

func TestStrategyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StrategyConfig)
		wantErr bool
	}{
		{"valid", func(c *StrategyConfig) {}, false},
		{"no market", func(c *StrategyConfig) { c.Market = "" }, true},
		{"zero spread", func(c *StrategyConfig) { c.SpreadBps = decimal.Zero }, true},
		{"negative spread", func(c *StrategyConfig) { c.SpreadBps = decimal.NewFromInt(-1) }, true},
		{"zero orders per side", func(c *StrategyConfig) { c.OrdersPerSide = 0 }, true},
		{"zero refresh", func(c *StrategyConfig) { c.RefreshInterval = 0 }, true},
		{"zero tick", func(c *StrategyConfig) { c.TickSize = decimal.Zero }, true},
		{"zero min size", func(c *StrategyConfig) { c.MinSize = decimal.Zero }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStrategy()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStopReason_String(t *testing.T) {
	tests := []struct {
		reason StopReason
		want   string
	}{
		{StopMaxLossReached, "MAX_LOSS_REACHED"},
		{StopVolumeTargetReached, "VOLUME_TARGET_REACHED"},
		{StopTimeLimitReached, "TIME_LIMIT_REACHED"},
		{StopUserCancelled, "USER_CANCELLED"},
		{StopNone, "NONE"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("StopReason(%d).String() = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
