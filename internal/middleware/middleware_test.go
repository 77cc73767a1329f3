package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"userledger/internal/auth"
	"userledger/internal/domain/models"
	"userledger/internal/httputil"
	"userledger/internal/ratelimit"
)

type stubVerifier struct {
	email string
	err   error
	calls int
}

func (s *stubVerifier) VerifyToken(_ context.Context, _ string) (*models.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &models.Identity{UID: "uid", Email: s.email}, nil
}

func (s *stubVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// reached records whether the wrapped handler ran
func reached(flag *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*flag = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuthAndOwner(t *testing.T) {
	tests := []struct {
		name       string
		authKey    string
		email      string
		verifier   *stubVerifier
		wantStatus int
		wantReach  bool
	}{
		{
			name:       "missing header",
			email:      "a@b.com",
			verifier:   &stubVerifier{email: "a@b.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "no token segment",
			authKey:    "Bearer",
			email:      "a@b.com",
			verifier:   &stubVerifier{email: "a@b.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "verifier rejects",
			authKey:    "Bearer tok",
			email:      "a@b.com",
			verifier:   &stubVerifier{err: errors.New("expired")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "owner mismatch",
			authKey:    "Bearer tok",
			email:      "x@y.com",
			verifier:   &stubVerifier{email: "a@b.com"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "owner header missing",
			authKey:    "Bearer tok",
			verifier:   &stubVerifier{email: "a@b.com"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "owner matches",
			authKey:    "Bearer tok",
			email:      "a@b.com",
			verifier:   &stubVerifier{email: "a@b.com"},
			wantStatus: http.StatusNoContent,
			wantReach:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := discardLogger()
			gate := auth.NewGate(tt.verifier, logger)

			var ran bool
			h := RequireAuth(gate, logger)(RequireOwner(logger)(reached(&ran)))

			req := httptest.NewRequest(http.MethodGet, "/transactions/x", nil)
			if tt.authKey != "" {
				req.Header.Set(auth.AuthHeader, tt.authKey)
			}
			if tt.email != "" {
				req.Header.Set(auth.OwnerHeader, tt.email)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ran != tt.wantReach {
				t.Errorf("handler reached = %v, want %v", ran, tt.wantReach)
			}
		})
	}
}

func TestRequireAuthBindsIdentity(t *testing.T) {
	logger := discardLogger()
	gate := auth.NewGate(&stubVerifier{email: "a@b.com"}, logger)

	var got *models.Identity
	h := RequireAuth(gate, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = httputil.GetIdentity(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(auth.AuthHeader, "Bearer tok")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Email != "a@b.com" {
		t.Errorf("identity = %+v", got)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httputil.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("inbound id not reused: %q", seen)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestAccessLogRecordsStatus(t *testing.T) {
	rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusOK)
	rec.Write([]byte("hi"))

	if rec.status != http.StatusTeapot || rec.bytes != 2 {
		t.Errorf("recorder = %d/%d", rec.status, rec.bytes)
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, int, time.Duration) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	now := time.Now()
	limiter := ratelimit.NewMemoryLimiter(ratelimit.MemoryOptions{Now: func() time.Time { return now }})

	var ran bool
	h := RateLimit(limiter, 2, time.Minute, discardLogger())(reached(&ran))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1:1234"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}

	rec := send("10.0.0.1:5678")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("RateLimit-Remaining") != "0" {
		t.Errorf("headers = %v", rec.Header())
	}

	if rec := send("10.0.0.2:1234"); rec.Code != http.StatusNoContent {
		t.Errorf("other client status = %d", rec.Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	var ran bool
	h := RateLimit(brokenLimiter{}, 1, time.Minute, discardLogger())(reached(&ran))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !ran || rec.Code != http.StatusNoContent {
		t.Errorf("limiter error blocked the request: %d", rec.Code)
	}
}
