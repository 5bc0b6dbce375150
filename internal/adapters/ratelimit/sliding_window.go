// Package ratelimit bounds login attempts per client within a sliding
// window. State lives in process memory and is lost on restart; the
// PostgreSQL store in repository/postgres serves multi-instance setups.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/vncsmyrnk/notes/internal/core/ports"
)

// SlidingWindow keeps a log of failure times per key. A key is admitted
// again as soon as enough of its failures leave the window to bring the
// count back to MaxAttempts.
type SlidingWindow struct {
	mu       sync.Mutex
	policy   ports.LimitPolicy
	attempts map[string][]time.Time
	now      func() time.Time
}

func NewSlidingWindow(policy ports.LimitPolicy) *SlidingWindow {
	return &SlidingWindow{
		policy:   policy,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

func (w *SlidingWindow) Check(ctx context.Context, key string) (ports.LimitDecision, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	log := prune(w.attempts[key], now.Add(-w.policy.Window))
	if len(log) == 0 {
		delete(w.attempts, key)
	} else {
		w.attempts[key] = log
	}

	if over := len(log) - w.policy.MaxAttempts; over > 0 {
		return ports.LimitDecision{
			Allowed:    false,
			RetryAfter: log[over-1].Add(w.policy.Window).Sub(now),
		}, nil
	}
	return ports.LimitDecision{Allowed: true, Remaining: w.policy.MaxAttempts - len(log)}, nil
}

func (w *SlidingWindow) RecordFailure(ctx context.Context, key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.attempts[key] = append(prune(w.attempts[key], now.Add(-w.policy.Window)), now)
	return nil
}

// Sweep drops keys whose attempts have all aged out. The server calls it
// periodically so idle clients do not accumulate.
func (w *SlidingWindow) Sweep() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.now().Add(-w.policy.Window)
	removed := 0
	for key, log := range w.attempts {
		if log = prune(log, cutoff); len(log) == 0 {
			delete(w.attempts, key)
			removed++
			continue
		}
		w.attempts[key] = log
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (w *SlidingWindow) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// prune drops entries at or before cutoff. log is in insertion order.
func prune(log []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(log) && !log[i].After(cutoff) {
		i++
	}
	return log[i:]
}
