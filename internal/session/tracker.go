// Package session reconciles authoritative fill data into session totals and
// decides when the run is over.
package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
)

var bpsDivisor = decimal.NewFromInt(10000)

// minHours floors elapsed/remaining time when computing rates so a fresh
// session does not divide by zero.
var minHours = 0.01

// Tracker owns the session totals. It is mutated only by the scheduler loop;
// readers take an immutable Snapshot at cycle boundaries.
type Tracker struct {
	state     domain.SessionState
	spreadBps decimal.Decimal
	targets   domain.Targets
}

// Metrics are derived reporting values. They inform the operator, not the
// stop decision.
type Metrics struct {
	ElapsedHours   float64
	RemainingHours float64
	HourlyRate     decimal.Decimal
	ProjectedTotal decimal.Decimal
	RequiredRate   decimal.Decimal
	ProgressPct    decimal.Decimal
}

// NewTracker starts a session at the given instant.
func NewTracker(start time.Time, spreadBps decimal.Decimal, targets domain.Targets) *Tracker {
	return &Tracker{
		state: domain.SessionState{
			SessionStart: start,
			HourStart:    start,
		},
		spreadBps: spreadBps,
		targets:   targets,
	}
}

// Reconcile replaces the session totals with fresh authoritative data: fills
// are filtered to the session window, volume is the sum of their notional,
// trades their count. The exchange ledger is the source of truth; local
// placement bookkeeping never feeds these numbers (placed is not filled).
// Calling Reconcile twice with the same ledger yields the same state.
func (t *Tracker) Reconcile(trades []domain.Trade, now time.Time) {
	startMS := t.state.SessionStart.UnixMilli()

	volume := decimal.Zero
	count := 0
	for _, tr := range trades {
		if tr.TimestampMS < startMS {
			continue
		}
		volume = volume.Add(tr.Notional())
		count++
	}

	// Hour counters track the delta between reconciles, so a replayed ledger
	// adds nothing.
	delta := volume.Sub(t.state.TotalVolume)
	if delta.IsPositive() {
		t.state.CurrentHourVol = t.state.CurrentHourVol.Add(delta)
	}
	if gained := count - t.state.TotalTrades; gained > 0 {
		t.state.CurrentHourTrade += gained
	}

	t.state.TotalVolume = volume
	t.state.TotalTrades = count
	t.state.TotalLoss = volume.Mul(t.spreadBps).Div(bpsDivisor)

	t.rollHour(now)
}

// rollHour closes the running hour bucket once 3600s have elapsed. Purely
// observational bookkeeping.
func (t *Tracker) rollHour(now time.Time) {
	if now.Sub(t.state.HourStart) < time.Hour {
		return
	}
	t.state.HourlyStats = append(t.state.HourlyStats, domain.HourBucket{
		Volume: t.state.CurrentHourVol,
		Trades: t.state.CurrentHourTrade,
	})
	t.state.CurrentHourVol = decimal.Zero
	t.state.CurrentHourTrade = 0
	t.state.HourStart = now
}

// EvaluateStop checks the terminal conditions in fixed priority: loss first,
// then volume, then time. The first condition that holds wins regardless of
// how many hold simultaneously.
func (t *Tracker) EvaluateStop(now time.Time) (domain.StopReason, bool) {
	if t.state.TotalLoss.GreaterThanOrEqual(t.targets.MaxLoss) {
		return domain.StopMaxLossReached, true
	}
	if t.state.TotalVolume.GreaterThanOrEqual(t.targets.Volume) {
		return domain.StopVolumeTargetReached, true
	}
	if now.Sub(t.state.SessionStart) >= t.targets.Duration() {
		return domain.StopTimeLimitReached, true
	}
	return domain.StopNone, false
}

// Metrics derives the performance numbers for status reporting.
func (t *Tracker) Metrics(now time.Time) Metrics {
	elapsed := now.Sub(t.state.SessionStart).Hours()
	remaining := float64(t.targets.Hours) - elapsed
	if remaining < 0 {
		remaining = 0
	}

	hourly := t.state.TotalVolume.Div(decimal.NewFromFloat(max(elapsed, minHours)))
	required := t.targets.Volume.Sub(t.state.TotalVolume).
		Div(decimal.NewFromFloat(max(remaining, minHours)))
	if required.IsNegative() {
		required = decimal.Zero
	}

	progress := decimal.Zero
	if t.targets.Volume.IsPositive() {
		progress = t.state.TotalVolume.Div(t.targets.Volume).Mul(decimal.NewFromInt(100))
	}

	return Metrics{
		ElapsedHours:   elapsed,
		RemainingHours: remaining,
		HourlyRate:     hourly,
		ProjectedTotal: hourly.Mul(decimal.NewFromInt(int64(t.targets.Hours))),
		RequiredRate:   required,
		ProgressPct:    progress,
	}
}

// Snapshot returns a copy of the session state safe to hand outside the loop.
func (t *Tracker) Snapshot() domain.SessionState {
	snap := t.state
	snap.HourlyStats = append([]domain.HourBucket(nil), t.state.HourlyStats...)
	return snap
}

// Targets exposes the session bounds for reporting.
func (t *Tracker) Targets() domain.Targets {
	return t.targets
}
