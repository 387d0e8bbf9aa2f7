// Package quote turns an orderbook snapshot and a strategy config into
// tick-aligned price levels and a step-aligned order size. It is pure
// computation: no I/O, no state.
package quote

import (
	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
)

// levelFanout spaces successive resting orders inside the spread instead of
// jumping a full half-spread per level.
var levelFanout = decimal.RequireFromString("0.4")

var bpsDivisor = decimal.NewFromInt(10000)

// Levels computes the buy and sell ladders for one refresh cycle. Both sides
// share one common size computed by OrderSize. An invalid snapshot yields
// nil ladders; the caller skips the cycle.
func Levels(snap domain.OrderbookSnapshot, cfg domain.StrategyConfig) (buys, sells []domain.QuoteLevel) {
	if !snap.Valid() || !snap.MidPrice.IsPositive() {
		return nil, nil
	}

	halfSpread := snap.MidPrice.Mul(cfg.SpreadBps).Div(bpsDivisor)
	size := OrderSize(snap, cfg)

	buys = make([]domain.QuoteLevel, 0, cfg.OrdersPerSide)
	sells = make([]domain.QuoteLevel, 0, cfg.OrdersPerSide)
	for i := 0; i < cfg.OrdersPerSide; i++ {
		offset := halfSpread.Mul(levelFanout).Mul(decimal.NewFromInt(int64(i)))
		buys = append(buys, domain.QuoteLevel{
			Side:  domain.SideBuy,
			Price: RoundToTick(snap.BestBid.Sub(offset), cfg.TickSize),
			Size:  size,
			Rank:  i,
		})
		sells = append(sells, domain.QuoteLevel{
			Side:  domain.SideSell,
			Price: RoundToTick(snap.BestAsk.Add(offset), cfg.TickSize),
			Size:  size,
			Rank:  i,
		})
	}
	return buys, sells
}

// OrderSize computes the per-order quantity in base currency:
// investment * leverage * order_size_percent / mid, step-aligned. A positive
// raw size that rounds to zero is clamped up to exactly one step so a
// zero-size order is never emitted.
func OrderSize(snap domain.OrderbookSnapshot, cfg domain.StrategyConfig) decimal.Decimal {
	if !snap.MidPrice.IsPositive() {
		return decimal.Zero
	}
	notional := cfg.Investment.Mul(decimal.NewFromInt(cfg.Leverage)).Mul(cfg.OrderSizePercent)
	raw := notional.Div(snap.MidPrice)
	size := RoundToStep(raw, cfg.MinSize)
	if size.IsZero() && raw.IsPositive() {
		return cfg.MinSize
	}
	return size
}

// RoundToTick rounds a price to the nearest multiple of tick (half away from
// zero). The result carries no floating residue: it is tick times an integer.
func RoundToTick(price, tick decimal.Decimal) decimal.Decimal {
	if !tick.IsPositive() {
		return price
	}
	return price.DivRound(tick, 0).Mul(tick)
}

// RoundToStep rounds a quantity to the nearest multiple of step. Same
// contract as RoundToTick.
func RoundToStep(size, step decimal.Decimal) decimal.Decimal {
	return RoundToTick(size, step)
}
