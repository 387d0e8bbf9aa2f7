package domain

import (
	"github.com/shopspring/decimal"
)

// Trade is a normalized fill record from the exchange trade ledger.
// The gateway flattens the heterogeneous wire shapes into this one form;
// everything downstream works only with it.
type Trade struct {
	// TimestampMS is the fill time in Unix milliseconds.
	TimestampMS int64
	// Cost is the notional value of the fill in quote currency. Zero when
	// the venue did not report it; callers fall back to Amount.
	Cost decimal.Decimal
	// Amount is the filled quantity in base currency.
	Amount decimal.Decimal
	Price  decimal.Decimal
	Side   Side
}

// Notional returns the quote-currency value of the fill, preferring the
// venue-reported cost over the amount fallback.
func (t Trade) Notional() decimal.Decimal {
	if t.Cost.IsPositive() {
		return t.Cost
	}
	return t.Amount
}
