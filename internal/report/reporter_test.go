package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Obiwank107/grvt-volume-bot/internal/domain"
	"github.com/Obiwank107/grvt-volume-bot/internal/session"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleState(start time.Time) domain.SessionState {
	return domain.SessionState{
		SessionStart: start,
		TotalVolume:  d("12000"),
		TotalTrades:  340,
		TotalLoss:    d("2.40"),
	}
}

func TestReporter_MaybeStatus_RateLimited(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, 30*time.Second)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := sampleState(start)
	targets := domain.Targets{Volume: d("100000"), MaxLoss: d("10"), Hours: 24}
	book := domain.NewOrderbookSnapshot(d("100.00"), d("100.20"))
	m := session.Metrics{}

	if !r.MaybeStatus(start.Add(time.Minute), state, m, targets, book, 3, 3) {
		t.Error("first status should print")
	}
	if r.MaybeStatus(start.Add(time.Minute+10*time.Second), state, m, targets, book, 3, 3) {
		t.Error("status within the interval should be suppressed")
	}
	if !r.MaybeStatus(start.Add(2*time.Minute), state, m, targets, book, 3, 3) {
		t.Error("status after the interval should print")
	}
}

func TestReporter_StatusContent(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, time.Second)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	targets := domain.Targets{Volume: d("100000"), MaxLoss: d("10"), Hours: 24}
	book := domain.NewOrderbookSnapshot(d("100.00"), d("100.20"))
	m := session.Metrics{
		RemainingHours: 22,
		HourlyRate:     d("6000"),
		RequiredRate:   d("4000"),
		ProjectedTotal: d("144000"),
		ProgressPct:    d("12"),
	}
	r.Status(start.Add(2*time.Hour), sampleState(start), m, targets, book, 3, 2)

	out := buf.String()
	for _, want := range []string{"$12000 / $100000", "12.0%", "3 buy + 2 sell", "ON TRACK", "$2.40"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestReporter_Final(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, time.Second)

	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	state := sampleState(start)
	state.HourlyStats = []domain.HourBucket{{Volume: d("6000"), Trades: 170}}
	targets := domain.Targets{Volume: d("100000"), MaxLoss: d("10"), Hours: 24}

	r.Final(start.Add(90*time.Minute), state, targets, domain.StopVolumeTargetReached)

	out := buf.String()
	for _, want := range []string{"VOLUME_TARGET_REACHED", "12.0%", "hour  1", "$6000"} {
		if !strings.Contains(out, want) {
			t.Errorf("final output missing %q:\n%s", want, out)
		}
	}
}
