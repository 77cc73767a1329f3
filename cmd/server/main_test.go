package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"userledger/internal/config"
	"userledger/internal/ratelimit"
)

func TestNewLimiter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name     string
		cfg      *config.Config
		wantNil  bool
		wantType interface{}
		wantErr  bool
	}{
		{name: "disabled", cfg: &config.Config{}, wantNil: true},
		{name: "memory", cfg: &config.Config{RateLimitRequests: 5, RateLimitWindow: time.Minute}, wantType: &ratelimit.MemoryLimiter{}},
		{name: "redis", cfg: &config.Config{RateLimitRequests: 5, RateLimitWindow: time.Minute, RedisURL: "redis://" + mr.Addr()}, wantType: &ratelimit.RedisLimiter{}},
		{name: "bad redis url returns error", cfg: &config.Config{RateLimitRequests: 5, RedisURL: "not-a-url://"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, closeFn, err := newLimiter(ctx, tt.cfg, logger)
			if tt.wantErr {
				if err == nil {
					t.Fatal("newLimiter() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("newLimiter() unexpected error: %v", err)
			}
			defer closeFn()

			if tt.wantNil {
				if limiter != nil {
					t.Errorf("limiter = %T, want nil", limiter)
				}
				return
			}
			switch tt.wantType.(type) {
			case *ratelimit.MemoryLimiter:
				if _, ok := limiter.(*ratelimit.MemoryLimiter); !ok {
					t.Errorf("limiter = %T, want memory", limiter)
				}
			case *ratelimit.RedisLimiter:
				if _, ok := limiter.(*ratelimit.RedisLimiter); !ok {
					t.Errorf("limiter = %T, want redis", limiter)
				}
			}
		})
	}
}
