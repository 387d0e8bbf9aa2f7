package grvt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
	"github.com/Obiwank107/grvt-volume-bot/internal/exchange"
	"github.com/Obiwank107/grvt-volume-bot/internal/infra"
)

// ClientConfig carries everything the gateway needs. Credentials arrive here
// explicitly; the client never reaches into ambient state for them.
type ClientConfig struct {
	Environment  string
	APIKey       string
	APISecret    string
	SubAccountID string
}

// Client is the REST gateway to GRVT, optionally fronted by a websocket book
// stream. It implements exchange.Gateway.
type Client struct {
	cfg       ClientConfig
	endpoints Endpoints
	http      *http.Client
	signer    *Signer

	orderLimiter  *infra.RateLimiter
	marketLimiter *infra.RateLimiter
	breaker       *infra.CircuitBreaker

	stream *Stream
}

// NewClient builds the gateway for one environment.
func NewClient(cfg ClientConfig) (*Client, error) {
	eps, err := EndpointsFor(cfg.Environment)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:           cfg,
		endpoints:     eps,
		http:          &http.Client{Timeout: 10 * time.Second},
		signer:        NewSigner(cfg.APIKey, cfg.APISecret, cfg.SubAccountID),
		orderLimiter:  infra.NewOrderLimiter(),
		marketLimiter: infra.NewMarketDataLimiter(),
		breaker:       infra.NewCircuitBreaker(infra.DefaultCircuitBreakerConfig("grvt-orders")),
	}, nil
}

// Login verifies the credentials against the trade-data service before the
// cycle loop starts. An authentication rejection here is fatal to startup.
func (c *Client) Login(ctx context.Context) error {
	var resp accountSummaryResponse
	err := c.post(ctx, c.endpoints.TradeData, "/full/v1/account_summary",
		accountSummaryRequest{SubAccountID: c.cfg.SubAccountID}, &resp)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if resp.Error != nil {
		return fmt.Errorf("authentication rejected: %s", resp.Error.Message)
	}
	slog.Info("authenticated to GRVT", slog.String("environment", c.cfg.Environment))
	return nil
}

// AttachStream connects a live book feed; FetchOrderBook prefers it over a
// REST round trip while it is fresh.
func (c *Client) AttachStream(ctx context.Context, market string) {
	c.stream = NewStream(c.endpoints.Stream, market)
	c.stream.Start(ctx)
}

// FetchOrderBook returns the current top of book.
func (c *Client) FetchOrderBook(ctx context.Context, market string) (domain.OrderbookSnapshot, error) {
	if c.stream != nil {
		if snap, ok := c.stream.Latest(); ok {
			return snap, nil
		}
	}

	c.marketLimiter.Wait()
	var resp bookResponse
	err := c.post(ctx, c.endpoints.MarketData, "/full/v1/book",
		bookRequest{Instrument: market, Depth: 1}, &resp)
	if err != nil {
		return domain.OrderbookSnapshot{}, err
	}
	if resp.Error != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("book request failed: %s", resp.Error.Message)
	}
	if len(resp.Result.Bids) == 0 || len(resp.Result.Asks) == 0 {
		// One-sided book: a valid response but not a quotable one.
		return domain.OrderbookSnapshot{}, nil
	}

	bid, err := decimal.NewFromString(resp.Result.Bids[0].Price)
	if err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("malformed bid price %q: %w", resp.Result.Bids[0].Price, err)
	}
	ask, err := decimal.NewFromString(resp.Result.Asks[0].Price)
	if err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("malformed ask price %q: %w", resp.Result.Asks[0].Price, err)
	}
	return domain.NewOrderbookSnapshot(bid, ask), nil
}

// CreateOrder submits one limit order. Exchange-side validation failures come
// back wrapped in exchange.ErrOrderRejected; a tripped breaker short-circuits
// without a network call.
func (c *Client) CreateOrder(ctx context.Context, req exchange.OrderRequest) (string, error) {
	if !c.breaker.Allow() {
		return "", fmt.Errorf("%w: order endpoint circuit open", exchange.ErrOrderRejected)
	}
	c.orderLimiter.Wait()

	wire := createOrderRequest{
		SubAccountID:  c.cfg.SubAccountID,
		Instrument:    req.Market,
		Side:          string(req.Side),
		Type:          "LIMIT",
		Price:         req.Price.String(),
		Size:          req.Size.String(),
		PostOnly:      req.PostOnly,
		ClientOrderID: strconv.FormatInt(req.ClientOrderID, 10),
	}

	var resp createOrderResponse
	if err := c.post(ctx, c.endpoints.TradeData, "/full/v1/create_order", wire, &resp); err != nil {
		c.breaker.RecordFailure()
		return "", err
	}
	if resp.Error != nil {
		c.breaker.RecordFailure()
		return "", fmt.Errorf("%w: %s", exchange.ErrOrderRejected, resp.Error.Message)
	}
	if resp.Result.OrderID == "" {
		c.breaker.RecordFailure()
		return "", fmt.Errorf("%w: empty order id in response", exchange.ErrOrderRejected)
	}

	c.breaker.RecordSuccess()
	return resp.Result.OrderID, nil
}

// CancelAllOrders cancels every resting order for the market. Idempotent on
// the venue side; cancelling nothing succeeds.
func (c *Client) CancelAllOrders(ctx context.Context, market string) error {
	c.orderLimiter.Wait()

	var resp cancelAllResponse
	err := c.post(ctx, c.endpoints.TradeData, "/full/v1/cancel_all_orders",
		cancelAllRequest{SubAccountID: c.cfg.SubAccountID, Instrument: market}, &resp)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("cancel all failed: %s", resp.Error.Message)
	}
	return nil
}

// FetchMyTrades returns the account's fills for the market, normalized.
func (c *Client) FetchMyTrades(ctx context.Context, market string) ([]domain.Trade, error) {
	c.marketLimiter.Wait()

	var resp fillHistoryResponse
	err := c.post(ctx, c.endpoints.TradeData, "/full/v1/fill_history",
		fillHistoryRequest{SubAccountID: c.cfg.SubAccountID, Instrument: market}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("fill history failed: %s", resp.Error.Message)
	}

	trades := make([]domain.Trade, 0, len(resp.Result))
	for _, rec := range resp.Result {
		trades = append(trades, normalizeTrade(rec))
	}
	return trades, nil
}

// normalizeTrade flattens the venue's heterogeneous fill shapes into one
// domain record. Fills without a reported cost get it derived from
// price*size so downstream code never branches on wire shape.
func normalizeTrade(rec fillRecord) domain.Trade {
	price, _ := decimal.NewFromString(rec.Price)
	size, _ := decimal.NewFromString(rec.Size)
	cost, _ := decimal.NewFromString(rec.Cost)
	if cost.IsZero() && price.IsPositive() && size.IsPositive() {
		cost = price.Mul(size)
	}

	side := domain.SideSell
	if rec.IsBuyer {
		side = domain.SideBuy
	}
	return domain.Trade{
		TimestampMS: rec.EventTimeMS,
		Cost:        cost,
		Amount:      size,
		Price:       price,
		Side:        side,
	}
}

// FetchMarkets returns instrument metadata for startup discovery.
func (c *Client) FetchMarkets(ctx context.Context) ([]exchange.Market, error) {
	c.marketLimiter.Wait()

	var resp instrumentsResponse
	if err := c.post(ctx, c.endpoints.MarketData, "/full/v1/instruments", struct{}{}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("instruments request failed: %s", resp.Error.Message)
	}

	markets := make([]exchange.Market, 0, len(resp.Result))
	for _, inst := range resp.Result {
		tick, err := decimal.NewFromString(inst.TickSize)
		if err != nil {
			continue
		}
		minSize, err := decimal.NewFromString(inst.MinSize)
		if err != nil {
			continue
		}
		markets = append(markets, exchange.Market{
			Symbol:   inst.Instrument,
			TickSize: tick,
			MinSize:  minSize,
			Active:   inst.IsActive,
		})
	}
	return markets, nil
}

// Close stops the stream and wipes the signer keys.
func (c *Client) Close() error {
	if c.stream != nil {
		c.stream.Stop()
	}
	c.signer.Wipe()
	return nil
}

// post signs and sends one JSON request and decodes the response into out.
func (c *Client) post(ctx context.Context, base, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	u, err := url.JoinPath(base, path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	for k, v := range c.signer.Headers(http.MethodPost, path, string(payload)) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, truncate(data, 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
