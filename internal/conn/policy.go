package conn

import (
	"errors"
	"time"
)

// RetryPolicy defines the reconnection behavior: linearly growing delays,
// capped, up to a fixed attempt count. Exceeding the cap leaves the session
// in Failed rather than retrying forever.
type RetryPolicy struct {
	MaxAttempts int           // consecutive failed attempts before giving up
	BaseDelay   time.Duration // delay before the first retry
	MaxDelay    time.Duration // cap on the growing delay
}

// DefaultRetryPolicy mirrors the production client: five attempts, two-second
// base delay growing linearly, capped at thirty seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// DelayFor returns the delay before the given retry attempt (1-based):
// min(MaxDelay, BaseDelay * attempt).
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := p.BaseDelay * time.Duration(attempt)
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

// ShouldRetry reports whether another attempt is allowed after the given
// number of consecutive failures.
func (p RetryPolicy) ShouldRetry(failures int) bool {
	return failures < p.MaxAttempts
}

// Validate checks the policy configuration.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 0 {
		return errors.New("MaxAttempts must be non-negative")
	}
	if p.BaseDelay <= 0 {
		return errors.New("BaseDelay must be positive")
	}
	if p.MaxDelay <= 0 {
		return errors.New("MaxDelay must be positive")
	}
	if p.BaseDelay > p.MaxDelay {
		return errors.New("BaseDelay cannot be greater than MaxDelay")
	}
	return nil
}
