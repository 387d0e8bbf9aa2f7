package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side identifies the book side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// QuoteLevel is one resting-order slot produced by the quote engine.
// Price is tick-aligned and Size is step-aligned before the level leaves
// the engine.
type QuoteLevel struct {
	Side  Side
	Price decimal.Decimal
	Size  decimal.Decimal
	Rank  int
}

// ActiveOrder tracks one successfully placed order from placement until the
// next cancel-all. The registry holding these is owned by the scheduler loop
// and is never persisted.
type ActiveOrder struct {
	ExchangeID string
	ClientID   int64
	Side       Side
	Price      decimal.Decimal
	Size       decimal.Decimal
	SubmitTime time.Time
}
