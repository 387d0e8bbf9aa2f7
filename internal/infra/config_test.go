package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
environment: TESTNET
api:
  key: test-key
  sub_account_id: "12345"
  secret: test-secret
market: BTC_USDT_Perp
`

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Trading.Leverage != 10 {
		t.Errorf("leverage = %d, want default 10", cfg.Trading.Leverage)
	}
	if cfg.Trading.SpreadBps != "2" {
		t.Errorf("spread_bps = %q, want default 2", cfg.Trading.SpreadBps)
	}
	if cfg.Targets.Hours != 24 {
		t.Errorf("target hours = %d, want default 24", cfg.Targets.Hours)
	}
	if got := cfg.StatusInterval(); got != 30*time.Second {
		t.Errorf("status interval = %v, want 30s", got)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	t.Setenv("GRVT_API_KEY", "env-key")
	t.Setenv("GRVT_MARKET", "ETH_USDT_Perp")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("api key = %q, want env override", cfg.API.Key)
	}
	if cfg.Market != "ETH_USDT_Perp" {
		t.Errorf("market = %q, want env override", cfg.Market)
	}
}

func TestLoadConfig_Rejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing key", `
environment: TESTNET
api:
  sub_account_id: "12345"
  secret: s
market: BTC_USDT_Perp
`},
		{"missing secret", `
environment: TESTNET
api:
  key: k
  sub_account_id: "12345"
market: BTC_USDT_Perp
`},
		{"missing sub account", `
environment: TESTNET
api:
  key: k
  secret: s
market: BTC_USDT_Perp
`},
		{"bad environment", `
environment: STAGING
api:
  key: k
  sub_account_id: "12345"
  secret: s
market: BTC_USDT_Perp
`},
		{"bad spread", `
environment: TESTNET
api:
  key: k
  sub_account_id: "12345"
  secret: s
market: BTC_USDT_Perp
trading:
  spread_bps: "not-a-number"
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("LoadConfig accepted invalid config")
			}
		})
	}
}

func TestConfig_Strategy(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	tick := decimal.RequireFromString("0.1")
	minSize := decimal.RequireFromString("0.001")
	strat, err := cfg.Strategy(tick, minSize)
	if err != nil {
		t.Fatalf("Strategy: %v", err)
	}

	if strat.Market != cfg.Market {
		t.Errorf("market = %q, want %q", strat.Market, cfg.Market)
	}
	if !strat.TickSize.Equal(tick) {
		t.Errorf("tick = %s, want %s", strat.TickSize, tick)
	}
	if strat.RefreshInterval != 2*time.Second {
		t.Errorf("refresh interval = %v, want 2s", strat.RefreshInterval)
	}
	if strat.DelayBetween != 50*time.Millisecond {
		t.Errorf("delay between = %v, want 50ms", strat.DelayBetween)
	}
}

func TestConfig_SessionTargets(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	targets, err := cfg.SessionTargets()
	if err != nil {
		t.Fatalf("SessionTargets: %v", err)
	}
	if !targets.Volume.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("volume target = %s, want 100000", targets.Volume)
	}
	if targets.Duration() != 24*time.Hour {
		t.Errorf("duration = %v, want 24h", targets.Duration())
	}
}
