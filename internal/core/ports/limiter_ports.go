package ports

import (
	"context"
	"time"
)

// AttemptLimiter counts failed attempts per key within a sliding window.
// Check never records anything; callers report failures explicitly, so
// successful requests do not use up the allowance. A key is rejected once
// its failures in the window exceed MaxAttempts.
type AttemptLimiter interface {
	Check(ctx context.Context, key string) (LimitDecision, error)
	RecordFailure(ctx context.Context, key string) error
}

type LimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type LimitPolicy struct {
	MaxAttempts int
	Window      time.Duration
}
