// Package engine runs the quote-refresh loop: cancel, settle, quote, place,
// reconcile, sleep. One goroutine owns all mutable state; exchange calls are
// awaited strictly in sequence so an old and a new order never rest on the
// same side at once.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
	"github.com/Obiwank107/grvt-volume-bot/internal/exchange"
	"github.com/Obiwank107/grvt-volume-bot/internal/quote"
	"github.com/Obiwank107/grvt-volume-bot/internal/report"
	"github.com/Obiwank107/grvt-volume-bot/internal/session"
	"github.com/Obiwank107/grvt-volume-bot/internal/storage"
)

// Journal receives the per-cycle audit rows. Writes are best-effort; a
// failing journal never affects the cycle.
type Journal interface {
	RecordCycle(ctx context.Context, rec storage.CycleRecord) error
	RecordReconciliation(ctx context.Context, rec storage.ReconcileRecord) error
}

// Scheduler drives the refresh cycles for one market. Not safe for
// concurrent use: Run is the only entry point and owns every field.
type Scheduler struct {
	cfg      domain.StrategyConfig
	gateway  exchange.Gateway
	tracker  *session.Tracker
	reporter *report.Reporter
	journal  Journal

	// active is the in-memory registry of resting orders, keyed by exchange
	// order id. Cleared only on a successful cancel-all so the books stay
	// honest when a cancel fails.
	active        map[string]domain.ActiveOrder
	clientOrderID int64
	lastBook      domain.OrderbookSnapshot
	cycle         int

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

// NewScheduler wires a scheduler. journal may be nil.
func NewScheduler(cfg domain.StrategyConfig, gateway exchange.Gateway, tracker *session.Tracker,
	reporter *report.Reporter, journal Journal) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		gateway:  gateway,
		tracker:  tracker,
		reporter: reporter,
		journal:  journal,
		active:   make(map[string]domain.ActiveOrder),
		// Wall-clock seed keeps client ids unique across restarts.
		clientOrderID: time.Now().UnixMilli(),
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Run executes cycles until a stop condition trips or ctx is cancelled, then
// performs the shutdown sequence. Returns the stop reason.
func (s *Scheduler) Run(ctx context.Context) domain.StopReason {
	slog.Info("starting order refresh cycles",
		slog.String("market", s.cfg.Market),
		slog.Duration("interval", s.cfg.RefreshInterval))

	reason := domain.StopUserCancelled
	for {
		if ctx.Err() != nil {
			break
		}
		if r, stopped := s.runCycle(ctx); stopped {
			reason = r
			break
		}
	}

	s.shutdown(reason)
	return reason
}

// runCycle performs one full refresh pass. Transient failures skip the rest
// of the cycle and never propagate; only a tripped stop condition ends the
// loop.
func (s *Scheduler) runCycle(ctx context.Context) (domain.StopReason, bool) {
	s.cycle++
	start := s.now()

	book, err := s.gateway.FetchOrderBook(ctx, s.cfg.Market)
	if err != nil || !book.Valid() {
		if err != nil {
			slog.Warn("orderbook fetch failed, skipping cycle",
				slog.Int("cycle", s.cycle), slog.Any("error", err))
		} else {
			slog.Warn("orderbook one-sided or empty, skipping cycle", slog.Int("cycle", s.cycle))
		}
		s.journalCycle(ctx, storage.CycleRecord{StartedAt: start, Skipped: true})
		s.sleepToNextCycle(ctx, start)
		return domain.StopNone, false
	}
	s.lastBook = book

	// Cancel before re-quoting. Best effort: stale orders survive one cycle
	// and get re-cancelled on the next pass, so the registry is cleared only
	// when the venue confirmed.
	if err := s.gateway.CancelAllOrders(ctx, s.cfg.Market); err != nil {
		slog.Warn("cancel all failed, registry kept for retry",
			slog.Int("cycle", s.cycle),
			slog.Int("resting", len(s.active)),
			slog.Any("error", err))
	} else {
		clear(s.active)
	}
	s.sleep(ctx, s.cfg.DelayAfterCancel)

	buyLevels, sellLevels := quote.Levels(book, s.cfg)
	if len(buyLevels) == 0 {
		s.journalCycle(ctx, storage.CycleRecord{StartedAt: start, MidPrice: book.MidPrice, Skipped: true})
		s.sleepToNextCycle(ctx, start)
		return domain.StopNone, false
	}

	placedBuys := s.placeSide(ctx, buyLevels)
	placedSells := s.placeSide(ctx, sellLevels)

	s.reconcile(ctx)

	if reason, stopped := s.tracker.EvaluateStop(s.now()); stopped {
		slog.Info("stop condition reached", slog.String("reason", reason.String()))
		return reason, true
	}

	s.reporter.MaybeStatus(s.now(), s.tracker.Snapshot(), s.tracker.Metrics(s.now()),
		s.tracker.Targets(), book, placedBuys, placedSells)

	s.journalCycle(ctx, storage.CycleRecord{
		StartedAt:   start,
		MidPrice:    book.MidPrice,
		PlacedBuys:  placedBuys,
		PlacedSells: placedSells,
	})

	s.sleepToNextCycle(ctx, start)
	return domain.StopNone, false
}

// placeSide submits one side's ladder sequentially, pausing DelayBetween
// after each submission. A failure on the first order of the side is treated
// as systemic (stale price, rejected account state) and aborts the side;
// later failures only skip their own level.
func (s *Scheduler) placeSide(ctx context.Context, levels []domain.QuoteLevel) int {
	limit := min(len(levels), s.cfg.MaxOrdersToPlace)
	placed := 0
	for i := 0; i < limit; i++ {
		if ctx.Err() != nil {
			return placed
		}

		lvl := levels[i]
		s.clientOrderID++
		id, err := s.gateway.CreateOrder(ctx, exchange.OrderRequest{
			Market:        s.cfg.Market,
			Side:          lvl.Side,
			Price:         lvl.Price,
			Size:          lvl.Size,
			PostOnly:      s.cfg.UsePostOnly,
			ClientOrderID: s.clientOrderID,
		})
		if err != nil {
			if i == 0 {
				slog.Warn("first order of side failed, aborting side for this cycle",
					slog.String("side", string(lvl.Side)),
					slog.String("price", lvl.Price.String()),
					slog.Any("error", err))
				return placed
			}
			level := slog.LevelWarn
			if errors.Is(err, exchange.ErrOrderRejected) {
				level = slog.LevelDebug
			}
			slog.Log(ctx, level, "order placement failed",
				slog.String("side", string(lvl.Side)),
				slog.Int("rank", lvl.Rank),
				slog.Any("error", err))
			s.sleep(ctx, s.cfg.DelayBetween)
			continue
		}

		s.active[id] = domain.ActiveOrder{
			ExchangeID: id,
			ClientID:   s.clientOrderID,
			Side:       lvl.Side,
			Price:      lvl.Price,
			Size:       lvl.Size,
			SubmitTime: s.now(),
		}
		placed++
		s.sleep(ctx, s.cfg.DelayBetween)
	}
	return placed
}

// reconcile refreshes the session totals from the venue's trade ledger. On
// fetch failure the tracker keeps its last known-good values.
func (s *Scheduler) reconcile(ctx context.Context) {
	trades, err := s.gateway.FetchMyTrades(ctx, s.cfg.Market)
	if err != nil {
		slog.Warn("trade history fetch failed, keeping previous totals", slog.Any("error", err))
		return
	}
	s.tracker.Reconcile(trades, s.now())

	if s.journal != nil {
		state := s.tracker.Snapshot()
		if err := s.journal.RecordReconciliation(ctx, storage.ReconcileRecord{
			At:          s.now(),
			TotalVolume: state.TotalVolume,
			TotalTrades: state.TotalTrades,
			TotalLoss:   state.TotalLoss,
		}); err != nil {
			slog.Debug("journal write failed", slog.Any("error", err))
		}
	}
}

func (s *Scheduler) journalCycle(ctx context.Context, rec storage.CycleRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordCycle(ctx, rec); err != nil {
		slog.Debug("journal write failed", slog.Any("error", err))
	}
}

// sleepToNextCycle enforces the refresh cadence as a floor: the next cycle
// starts no earlier than RefreshInterval after this one began, and a slow
// cycle is never "paid back" with a negative sleep.
func (s *Scheduler) sleepToNextCycle(ctx context.Context, start time.Time) {
	elapsed := s.now().Sub(start)
	if remaining := s.cfg.RefreshInterval - elapsed; remaining > 0 {
		s.sleep(ctx, remaining)
	}
}

// shutdown is the single exit path: an unconditional cancel-all (with its
// own deadline, since the run context may already be dead), then the final
// report. No run may end with orders resting without an attempted cancel.
func (s *Scheduler) shutdown(reason domain.StopReason) {
	slog.Info("shutting down", slog.String("reason", reason.String()))

	cancelCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.gateway.CancelAllOrders(cancelCtx, s.cfg.Market); err != nil {
		slog.Error("final cancel all failed, orders may be resting",
			slog.Int("resting", len(s.active)),
			slog.Any("error", err))
	} else {
		clear(s.active)
	}

	s.reporter.Final(s.now(), s.tracker.Snapshot(), s.tracker.Targets(), reason)
}

// ActiveOrders returns a copy of the registry for inspection.
func (s *Scheduler) ActiveOrders() []domain.ActiveOrder {
	out := make([]domain.ActiveOrder, 0, len(s.active))
	for _, o := range s.active {
		out = append(out, o)
	}
	return out
}
