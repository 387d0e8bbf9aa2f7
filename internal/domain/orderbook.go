package domain

import (
	"github.com/shopspring/decimal"
)

// OrderbookSnapshot is the top-of-book view the quote engine works from.
// All values are positive finite decimals when the snapshot is valid.
type OrderbookSnapshot struct {
	BestBid   decimal.Decimal
	BestAsk   decimal.Decimal
	MidPrice  decimal.Decimal
	SpreadPct decimal.Decimal
}

// NewOrderbookSnapshot derives the mid price and relative spread from the
// best bid/ask pair.
func NewOrderbookSnapshot(bestBid, bestAsk decimal.Decimal) OrderbookSnapshot {
	snap := OrderbookSnapshot{BestBid: bestBid, BestAsk: bestAsk}
	if !snap.Valid() {
		return snap
	}
	snap.MidPrice = bestBid.Add(bestAsk).Div(decimal.NewFromInt(2))
	snap.SpreadPct = bestAsk.Sub(bestBid).Div(snap.MidPrice).Mul(decimal.NewFromInt(100))
	return snap
}

// Valid reports whether both sides of the book are present and positive.
// Invalid snapshots must never reach the quote engine.
func (s OrderbookSnapshot) Valid() bool {
	return s.BestBid.IsPositive() && s.BestAsk.IsPositive()
}
