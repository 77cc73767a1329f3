package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCapacity is returned when the memory limiter tracks too many live keys
var ErrCapacity = errors.New("rate limiter capacity exceeded")

type window struct {
	count int
	end   time.Time
}

// MemoryLimiter is a process-local Limiter
type MemoryLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	windows map[string]*window
	maxKeys int
}

// MemoryOptions configures NewMemoryLimiter
type MemoryOptions struct {
	Now     func() time.Time
	MaxKeys int
}

func NewMemoryLimiter(opts MemoryOptions) *MemoryLimiter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxKeys <= 0 {
		opts.MaxKeys = 10000
	}
	return &MemoryLimiter{
		now:     opts.Now,
		windows: make(map[string]*window),
		maxKeys: opts.MaxKeys,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string, limit int, d time.Duration) (Decision, error) {
	if limit <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || !now.Before(w.end) {
		if !ok && len(m.windows) >= m.maxKeys {
			m.sweep(now)
			if len(m.windows) >= m.maxKeys {
				return Decision{}, ErrCapacity
			}
		}
		w = &window{end: now.Add(d)}
		m.windows[key] = w
	}

	if w.count >= limit {
		return Decision{Allowed: false, Limit: limit, Remaining: 0, ResetAt: w.end}, nil
	}
	w.count++
	return Decision{Allowed: true, Limit: limit, Remaining: limit - w.count, ResetAt: w.end}, nil
}

// sweep drops expired windows; caller holds mu
func (m *MemoryLimiter) sweep(now time.Time) {
	for key, w := range m.windows {
		if !now.Before(w.end) {
			delete(m.windows, key)
		}
	}
}
