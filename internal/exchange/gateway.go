// Package exchange defines the gateway boundary to the trading venue.
package exchange

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
)

// ErrOrderRejected marks an exchange-side validation failure (size
// granularity, post-only cross, rate limit). Callers branch on it with
// errors.Is.
var ErrOrderRejected = errors.New("order rejected by exchange")

// OrderRequest carries everything needed to submit one limit order.
type OrderRequest struct {
	Market        string
	Side          domain.Side
	Price         decimal.Decimal
	Size          decimal.Decimal
	PostOnly      bool
	ClientOrderID int64
}

// Market is the metadata the bot needs from instrument discovery.
type Market struct {
	Symbol   string
	TickSize decimal.Decimal
	MinSize  decimal.Decimal
	Active   bool
}

// Gateway is the consumed capability set of the venue. All calls block until
// the venue answers or ctx is done; the scheduler issues them strictly
// sequentially.
type Gateway interface {
	// FetchOrderBook returns the current top-of-book. The returned snapshot
	// may be invalid (one-sided book); callers must check Valid.
	FetchOrderBook(ctx context.Context, market string) (domain.OrderbookSnapshot, error)

	// CreateOrder submits a limit order and returns the exchange order id.
	CreateOrder(ctx context.Context, req OrderRequest) (string, error)

	// CancelAllOrders cancels every resting order for the market. Idempotent:
	// cancelling with no open orders is a no-op success.
	CancelAllOrders(ctx context.Context, market string) error

	// FetchMyTrades returns the account's fill history for the market,
	// normalized to domain.Trade.
	FetchMyTrades(ctx context.Context, market string) ([]domain.Trade, error)

	// FetchMarkets returns instrument metadata. Consumed once at startup.
	FetchMarkets(ctx context.Context) ([]Market, error)

	// Close releases the connection to the venue.
	Close() error
}
