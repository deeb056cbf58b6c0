// Package ratelimit wraps golang.org/x/time/rate for the optional
// per-connection request ceiling described in SPEC_FULL.md §4.16,
// grounded on the pack's own rate_limit_middleware.go: same token-bucket
// idea, applied per connection instead of per client call.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// New builds a limiter for requestsPerSecond > 0. A non-positive rate
// disables limiting: callers get a nil *rate.Limiter, and Wait on a nil
// limiter is a no-op, so the core never forces a policy on the host.
func New(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

// Wait blocks until the limiter admits one request frame, or returns
// immediately if limiter is nil.
func Wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}
