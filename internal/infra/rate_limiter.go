package infra

import (
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter guarding REST endpoints. Thread-safe.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewRateLimiter creates a limiter with the given burst size and refill rate
// (requests per second).
func NewRateLimiter(burst int, perSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: perSecond,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available.
func (r *RateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	for r.tokens < 1 {
		wait := time.Duration(float64(time.Second) / r.refillRate)
		r.mu.Unlock()
		time.Sleep(wait)
		r.mu.Lock()
		r.refill()
	}
	r.tokens--
}

// TryAcquire takes a token without blocking; false when none is available.
func (r *RateLimiter) TryAcquire() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}

// refill credits tokens for elapsed time. Caller holds the mutex.
func (r *RateLimiter) refill() {
	now := time.Now()
	r.tokens += now.Sub(r.lastRefill).Seconds() * r.refillRate
	if r.tokens > r.maxTokens {
		r.tokens = r.maxTokens
	}
	r.lastRefill = now
}

// GRVT publishes per-endpoint-group limits; these constructors stay a notch
// under them to keep headroom for retries.

// NewOrderLimiter bounds order placement/cancellation calls.
func NewOrderLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// NewMarketDataLimiter bounds book and trade-history reads.
func NewMarketDataLimiter() *RateLimiter {
	return NewRateLimiter(10, 20)
}
