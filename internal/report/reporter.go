// Package report formats the periodic status block and the final summary.
// Pure formatting over immutable snapshots; no state of its own beyond the
// rate limit on status output.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
	"github.com/Obiwank107/grvt-volume-bot/internal/session"
)

var decimalHundred = decimal.NewFromInt(100)

// Reporter writes human-readable summaries no more often than every interval.
type Reporter struct {
	out      io.Writer
	interval time.Duration
	last     time.Time
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, interval time.Duration) *Reporter {
	return &Reporter{out: out, interval: interval}
}

// MaybeStatus prints a status block if the interval has elapsed since the
// last one. Returns whether it printed.
func (r *Reporter) MaybeStatus(now time.Time, state domain.SessionState, m session.Metrics,
	targets domain.Targets, book domain.OrderbookSnapshot, placedBuys, placedSells int) bool {
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	r.Status(now, state, m, targets, book, placedBuys, placedSells)
	return true
}

// Status prints one status block unconditionally.
func (r *Reporter) Status(now time.Time, state domain.SessionState, m session.Metrics,
	targets domain.Targets, book domain.OrderbookSnapshot, placedBuys, placedSells int) {
	runtime := now.Sub(state.SessionStart).Truncate(time.Second)

	pace := "ON TRACK"
	if m.HourlyRate.LessThan(m.RequiredRate) {
		pace = "BEHIND PACE"
	}

	fmt.Fprintf(r.out, "===========================================================\n")
	fmt.Fprintf(r.out, "  %s elapsed | %.1fh left | mid $%s | spread %s%%\n",
		runtime, m.RemainingHours, book.MidPrice.StringFixed(2), book.SpreadPct.StringFixed(3))
	fmt.Fprintf(r.out, "  orders this cycle: %d buy + %d sell\n", placedBuys, placedSells)
	fmt.Fprintf(r.out, "  volume:   $%s / $%s (%s%%)\n",
		state.TotalVolume.StringFixed(0), targets.Volume.StringFixed(0), m.ProgressPct.StringFixed(1))
	fmt.Fprintf(r.out, "  trades:   %d\n", state.TotalTrades)
	fmt.Fprintf(r.out, "  rate:     $%s/h now | $%s/h required | %dh projection $%s\n",
		m.HourlyRate.StringFixed(0), m.RequiredRate.StringFixed(0),
		targets.Hours, m.ProjectedTotal.StringFixed(0))
	fmt.Fprintf(r.out, "  est loss: $%s (spread cost) | status: %s\n",
		state.TotalLoss.StringFixed(2), pace)
	fmt.Fprintf(r.out, "===========================================================\n")
}

// Final prints the end-of-session report.
func (r *Reporter) Final(now time.Time, state domain.SessionState, targets domain.Targets, reason domain.StopReason) {
	runtime := now.Sub(state.SessionStart).Truncate(time.Second)
	hours := now.Sub(state.SessionStart).Hours()
	if hours < 0.01 {
		hours = 0.01
	}

	achievement := "0.0"
	if targets.Volume.IsPositive() {
		achievement = state.TotalVolume.Div(targets.Volume).
			Mul(decimalHundred).StringFixed(1)
	}

	fmt.Fprintf(r.out, "\n===========================================================\n")
	fmt.Fprintf(r.out, "  FINAL REPORT (%s)\n", reason)
	fmt.Fprintf(r.out, "===========================================================\n")
	fmt.Fprintf(r.out, "  runtime:  %s (%.2f hours)\n", runtime, hours)
	fmt.Fprintf(r.out, "  volume:   $%s of $%s target (%s%%)\n",
		state.TotalVolume.StringFixed(2), targets.Volume.StringFixed(0), achievement)
	fmt.Fprintf(r.out, "  trades:   %d (%.0f/hour)\n", state.TotalTrades, float64(state.TotalTrades)/hours)
	fmt.Fprintf(r.out, "  est loss: $%s (spread cost)\n", state.TotalLoss.StringFixed(2))
	for i, bucket := range state.HourlyStats {
		fmt.Fprintf(r.out, "  hour %2d:  $%s in %d trades\n", i+1, bucket.Volume.StringFixed(0), bucket.Trades)
	}
	fmt.Fprintf(r.out, "===========================================================\n")
}
