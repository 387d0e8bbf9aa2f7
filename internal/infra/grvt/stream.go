package grvt

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
	"github.com/Obiwank107/grvt-volume-bot/internal/infra"
)

// streamMaxAge bounds how stale a cached book may be before FetchOrderBook
// falls back to REST.
const streamMaxAge = 2 * time.Second

type streamSubscribe struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
}

type streamMessage struct {
	Channel string `json:"channel"`
	Data    struct {
		Bids []wireLevel `json:"bids"`
		Asks []wireLevel `json:"asks"`
	} `json:"data"`
}

// Stream keeps the latest top-of-book for one market from the GRVT
// websocket feed. It plugs into the shared BaseWSWorker for connection
// management.
type Stream struct {
	url    string
	market string
	worker *infra.BaseWSWorker

	mu       sync.RWMutex
	snapshot domain.OrderbookSnapshot
	updated  time.Time
}

// NewStream prepares a book stream for one market.
func NewStream(url, market string) *Stream {
	s := &Stream{url: url, market: market}
	s.worker = infra.NewBaseWSWorker(s)
	return s
}

// Start launches the managed connection.
func (s *Stream) Start(ctx context.Context) {
	s.worker.Start(ctx)
}

// Stop tears the connection down.
func (s *Stream) Stop() {
	s.worker.Stop()
}

// Latest returns the cached snapshot when it is fresh enough to quote from.
func (s *Stream) Latest() (domain.OrderbookSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if time.Since(s.updated) > streamMaxAge || !s.snapshot.Valid() {
		return domain.OrderbookSnapshot{}, false
	}
	return s.snapshot, true
}

// GetURL implements infra.WebSocketHandler.
func (s *Stream) GetURL() string { return s.url }

// ID implements infra.WebSocketHandler.
func (s *Stream) ID() string { return "GRVT_BOOK_" + s.market }

// OnConnect subscribes to the book channel for the market.
func (s *Stream) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	sub := streamSubscribe{
		Method: "subscribe",
		Params: []string{"book." + s.market + ".1"},
	}
	msg, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// OnMessage parses a book update and refreshes the cache.
func (s *Stream) OnMessage(ctx context.Context, raw []byte) {
	if string(raw) == "pong" {
		return
	}

	var msg streamMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if len(msg.Data.Bids) == 0 || len(msg.Data.Asks) == 0 {
		return
	}

	bid, err := decimal.NewFromString(msg.Data.Bids[0].Price)
	if err != nil {
		slog.Debug("stream: malformed bid", slog.String("price", msg.Data.Bids[0].Price))
		return
	}
	ask, err := decimal.NewFromString(msg.Data.Asks[0].Price)
	if err != nil {
		slog.Debug("stream: malformed ask", slog.String("price", msg.Data.Asks[0].Price))
		return
	}

	snap := domain.NewOrderbookSnapshot(bid, ask)
	if !snap.Valid() {
		return
	}

	s.mu.Lock()
	s.snapshot = snap
	s.updated = time.Now()
	s.mu.Unlock()
}

// OnPing keeps the connection alive with the venue's text ping.
func (s *Stream) OnPing(ctx context.Context, conn *websocket.Conn) error {
	return s.worker.Write(websocket.TextMessage, []byte("ping"))
}
