// Package ratelimit provides fixed-window request limiters keyed by caller.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts requests per key within a fixed window.
// A limit of zero or less always allows.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error)
}
