package quote

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testConfig() domain.StrategyConfig {
	return domain.StrategyConfig{
		Market:           "BTC_USDT_Perp",
		Leverage:         10,
		Investment:       decimal.NewFromInt(10),
		SpreadBps:        decimal.NewFromInt(2),
		OrdersPerSide:    3,
		OrderSizePercent: d("0.1"),
		RefreshInterval:  2 * time.Second,
		MaxOrdersToPlace: 10,
		TickSize:         d("0.1"),
		MinSize:          d("0.001"),
	}
}

func TestRoundToTick(t *testing.T) {
	tests := []struct {
		name  string
		price string
		tick  string
		want  string
	}{
		{"already aligned", "100.0", "0.1", "100.0"},
		{"round down", "100.04", "0.1", "100.0"},
		{"round up", "100.06", "0.1", "100.1"},
		{"half rounds up", "100.05", "0.1", "100.1"},
		{"coarse tick", "101.3", "0.25", "101.25"},
		{"tick above one", "101.3", "5", "100"},
		{"tiny tick", "0.123456789", "0.00000001", "0.12345679"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundToTick(d(tt.price), d(tt.tick))
			if !got.Equal(d(tt.want)) {
				t.Errorf("RoundToTick(%s, %s) = %s, want %s", tt.price, tt.tick, got, tt.want)
			}
		})
	}
}

func TestRoundToTick_Idempotent(t *testing.T) {
	prices := []string{"100.04", "0.333333", "99999.99", "0.00017", "42"}
	ticks := []string{"0.1", "0.01", "0.25", "1", "0.0001"}
	for _, p := range prices {
		for _, tick := range ticks {
			once := RoundToTick(d(p), d(tick))
			twice := RoundToTick(once, d(tick))
			if !once.Equal(twice) {
				t.Errorf("RoundToTick not idempotent: %s tick %s: %s then %s", p, tick, once, twice)
			}
		}
	}
}

func TestRoundToTick_ExactMultiple(t *testing.T) {
	prices := []string{"100.04", "0.333333", "12345.678"}
	ticks := []string{"0.1", "0.25", "0.003"}
	for _, p := range prices {
		for _, tick := range ticks {
			got := RoundToTick(d(p), d(tick))
			if !got.Mod(d(tick)).IsZero() {
				t.Errorf("RoundToTick(%s, %s) = %s is not a multiple of the tick", p, tick, got)
			}
		}
	}
}

func TestOrderSize(t *testing.T) {
	cfg := testConfig()
	snap := domain.NewOrderbookSnapshot(d("100.00"), d("100.20"))

	// 10 * 10 * 0.1 / 100.1 = 0.0999..., step 0.001 -> 0.1
	got := OrderSize(snap, cfg)
	if !got.Equal(d("0.1")) {
		t.Errorf("OrderSize = %s, want 0.1", got)
	}
	if !got.Mod(cfg.MinSize).IsZero() {
		t.Errorf("OrderSize %s not aligned to min size", got)
	}
}

func TestOrderSize_ClampsToOneStep(t *testing.T) {
	cfg := testConfig()
	cfg.Investment = d("0.0001") // raw size far below one step
	snap := domain.NewOrderbookSnapshot(d("100.00"), d("100.20"))

	got := OrderSize(snap, cfg)
	if !got.Equal(cfg.MinSize) {
		t.Errorf("OrderSize = %s, want clamp to min size %s", got, cfg.MinSize)
	}
}

// Scenario A from the strategy definition: 2 bps spread on a 100.00/100.20
// book with a 0.1 tick keeps the first levels pinned at the touch.
func TestLevels_TightSpreadScenario(t *testing.T) {
	cfg := testConfig()
	snap := domain.NewOrderbookSnapshot(d("100.00"), d("100.20"))

	buys, sells := Levels(snap, cfg)
	if len(buys) != 3 || len(sells) != 3 {
		t.Fatalf("got %d buys, %d sells, want 3 each", len(buys), len(sells))
	}
	if !buys[0].Price.Equal(d("100.0")) {
		t.Errorf("buy[0] = %s, want 100.0", buys[0].Price)
	}
	// Offset of half_spread*0.4 is within one tick, so level 1 stays put.
	if !buys[1].Price.Equal(d("100.0")) {
		t.Errorf("buy[1] = %s, want 100.0", buys[1].Price)
	}
	if !sells[0].Price.Equal(d("100.2")) {
		t.Errorf("sell[0] = %s, want 100.2", sells[0].Price)
	}
}

func TestLevels_Monotonic(t *testing.T) {
	cfg := testConfig()
	cfg.OrdersPerSide = 8
	cfg.SpreadBps = d("50") // wide enough that offsets cross tick boundaries
	snap := domain.NewOrderbookSnapshot(d("25000.0"), d("25001.0"))

	buys, sells := Levels(snap, cfg)
	for i := 1; i < len(buys); i++ {
		if buys[i].Price.GreaterThan(buys[i-1].Price) {
			t.Errorf("buy ladder not non-increasing at rank %d: %s > %s", i, buys[i].Price, buys[i-1].Price)
		}
		if sells[i].Price.LessThan(sells[i-1].Price) {
			t.Errorf("sell ladder not non-decreasing at rank %d: %s < %s", i, sells[i].Price, sells[i-1].Price)
		}
	}
	for i, lvl := range append(buys, sells...) {
		if !lvl.Price.Mod(cfg.TickSize).IsZero() {
			t.Errorf("level %d price %s not tick aligned", i, lvl.Price)
		}
		if !lvl.Size.IsPositive() || !lvl.Size.Mod(cfg.MinSize).IsZero() {
			t.Errorf("level %d size %s not a positive step multiple", i, lvl.Size)
		}
	}
}

// Scenario B: a one-sided book produces no levels at all.
func TestLevels_InvalidSnapshot(t *testing.T) {
	cfg := testConfig()
	snap := domain.NewOrderbookSnapshot(decimal.Zero, d("100.20"))

	buys, sells := Levels(snap, cfg)
	if buys != nil || sells != nil {
		t.Errorf("Levels on invalid snapshot = %v, %v, want nil, nil", buys, sells)
	}
}
