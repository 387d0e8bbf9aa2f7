package infra

import (
	"time"
)

const (
	backoffBase = 1 * time.Second
	backoffMax  = 60 * time.Second
)

// CalculateBackoff returns the exponential reconnect delay for a retry count:
// base * 2^retry, capped at backoffMax. Negative counts get the base delay.
func CalculateBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		return backoffBase
	}
	// 2^31s already dwarfs the cap; bail before the shift can overflow.
	if retryCount > 30 {
		return backoffMax
	}
	delay := backoffBase * time.Duration(1<<retryCount)
	if delay > backoffMax {
		return backoffMax
	}
	return delay
}
