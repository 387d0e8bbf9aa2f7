package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StopReason is the terminal condition that ends a session. Once set the run
// transitions to shutdown and never re-enters the cycle loop.
type StopReason int

const (
	StopNone StopReason = iota
	StopMaxLossReached
	StopVolumeTargetReached
	StopTimeLimitReached
	StopUserCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopMaxLossReached:
		return "MAX_LOSS_REACHED"
	case StopVolumeTargetReached:
		return "VOLUME_TARGET_REACHED"
	case StopTimeLimitReached:
		return "TIME_LIMIT_REACHED"
	case StopUserCancelled:
		return "USER_CANCELLED"
	default:
		return "NONE"
	}
}

// HourBucket is one closed hour of observational stats.
type HourBucket struct {
	Volume decimal.Decimal
	Trades int
}

// SessionState carries the reconciled session totals. TotalVolume and
// TotalTrades are overwritten from the authoritative trade ledger on every
// reconcile, never summed incrementally.
type SessionState struct {
	SessionStart     time.Time
	HourStart        time.Time
	TotalVolume      decimal.Decimal
	TotalTrades      int
	TotalLoss        decimal.Decimal
	CurrentHourVol   decimal.Decimal
	CurrentHourTrade int
	HourlyStats      []HourBucket
}
