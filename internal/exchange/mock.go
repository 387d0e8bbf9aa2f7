package exchange

import (
	"context"
	"fmt"
	"sync"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
)

// Mock is an in-memory Gateway for tests. Failures are scripted per call;
// every interaction is recorded for assertions.
type Mock struct {
	mu sync.Mutex

	// Books is consumed one snapshot per FetchOrderBook call; the last entry
	// repeats once the script runs out.
	Books    []domain.OrderbookSnapshot
	BookErr  error
	bookCall int

	// CreateErrs maps the 1-based placement call number to a scripted error.
	CreateErrs map[int]error
	Placed     []OrderRequest
	createCall int
	nextID     int

	CancelErr   error
	CancelCalls int

	Trades    []domain.Trade
	TradesErr error

	Markets    []Market
	MarketsErr error

	Closed bool
}

// NewMock returns an empty mock; populate the script fields before use.
func NewMock() *Mock {
	return &Mock{CreateErrs: make(map[int]error)}
}

func (m *Mock) FetchOrderBook(ctx context.Context, market string) (domain.OrderbookSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BookErr != nil {
		return domain.OrderbookSnapshot{}, m.BookErr
	}
	if len(m.Books) == 0 {
		return domain.OrderbookSnapshot{}, fmt.Errorf("mock: no book scripted")
	}
	idx := m.bookCall
	if idx >= len(m.Books) {
		idx = len(m.Books) - 1
	}
	m.bookCall++
	return m.Books[idx], nil
}

func (m *Mock) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCall++
	if err, ok := m.CreateErrs[m.createCall]; ok {
		return "", err
	}
	m.nextID++
	m.Placed = append(m.Placed, req)
	return fmt.Sprintf("ord-%d", m.nextID), nil
}

func (m *Mock) CancelAllOrders(ctx context.Context, market string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CancelCalls++
	return m.CancelErr
}

func (m *Mock) FetchMyTrades(ctx context.Context, market string) ([]domain.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TradesErr != nil {
		return nil, m.TradesErr
	}
	return append([]domain.Trade(nil), m.Trades...), nil
}

func (m *Mock) FetchMarkets(ctx context.Context) ([]Market, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MarketsErr != nil {
		return nil, m.MarketsErr
	}
	return append([]Market(nil), m.Markets...), nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// PlacedBySide counts recorded placements per side.
func (m *Mock) PlacedBySide(side domain.Side) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, req := range m.Placed {
		if req.Side == side {
			n++
		}
	}
	return n
}
