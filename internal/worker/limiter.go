// Package worker paces invocations of external conversion tools. OCR and
// headless office conversions can saturate a machine when thousands of
// recovered files are processed back to back; a per-tool rate limiter keeps
// the batch polite without changing the strictly sequential processing
// order.
package worker

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter implements per-tool rate limiting.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter allowing invocationsPerSecond per tool.
// A rate of zero or less disables pacing.
func NewLimiter(invocationsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	r := rate.Limit(invocationsPerSecond)
	if invocationsPerSecond <= 0 {
		r = rate.Inf
	}
	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  r,
		defaultBurst: burst,
	}
}

// Wait blocks until the named tool may be invoked again.
func (l *Limiter) Wait(ctx context.Context, tool string) error {
	return l.getLimiter(tool).Wait(ctx)
}

func (l *Limiter) getLimiter(tool string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[tool]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, exists := l.limiters[tool]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[tool] = limiter
	return limiter
}
