// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLoginProtection() *LoginProtection {
	return NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100, // effectively unlimited for lockout tests
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
}

func TestLoginProtectionLockout(t *testing.T) {
	lp := newTestLoginProtection()
	email := "student@campus.edu"

	for i := 0; i < 2; i++ {
		locked, _ := lp.RecordFailedAttempt(email)
		if locked {
			t.Fatalf("locked after %d attempts, want lock at 3", i+1)
		}
	}

	locked, duration := lp.RecordFailedAttempt(email)
	if !locked {
		t.Fatal("not locked after reaching the attempt limit")
	}
	if duration != time.Minute {
		t.Errorf("lock duration = %v, want %v", duration, time.Minute)
	}

	isLocked, remaining := lp.IsAccountLocked(email)
	if !isLocked {
		t.Error("IsAccountLocked() = false for a locked account")
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Errorf("remaining = %v, want within (0, 1m]", remaining)
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp := newTestLoginProtection()
	email := "repeat@campus.edu"

	// First lockout
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	_, first := lp.RecordFailedAttempt(email)

	// Clear the lock but keep the lockout count, then trigger another
	lp.attemptsMu.Lock()
	lp.failedAttempts[email].lockedUntil = time.Now().Add(-time.Second)
	lp.attemptsMu.Unlock()

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	_, second := lp.RecordFailedAttempt(email)

	if second != 2*first {
		t.Errorf("second lockout = %v, want double the first (%v)", second, first)
	}
}

func TestLoginProtectionSuccessfulLoginClears(t *testing.T) {
	lp := newTestLoginProtection()
	email := "recovered@campus.edu"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	if got := lp.GetRemainingAttempts(email); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}

	lp.RecordSuccessfulLogin(email)
	if got := lp.GetRemainingAttempts(email); got != 3 {
		t.Errorf("remaining after success = %d, want 3", got)
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       0.001, // first request consumes the whole burst
		IPBurst:           1,
		MaxFailedAttempts: 5,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})

	handler := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("GET requests are never limited", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
			}
		}
	})

	t.Run("rapid POSTs from one IP are limited", func(t *testing.T) {
		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("first POST status = %d, want %d", first.Code, http.StatusOK)
		}

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		if second.Code != http.StatusTooManyRequests {
			t.Errorf("second POST status = %d, want %d", second.Code, http.StatusTooManyRequests)
		}
	})
}

func TestGlobalRateLimiter(t *testing.T) {
	rl := NewGlobalRateLimiter(0.001, 2)
	handler := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := func(ip string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/events", nil)
		r.Header.Set("X-Real-IP", ip)
		return r
	}

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req("10.0.0.1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req("10.0.0.1"))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("over-limit status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}

	// A different IP has its own budget
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, req("10.0.0.2"))
	if other.Code != http.StatusOK {
		t.Errorf("other IP status = %d, want %d", other.Code, http.StatusOK)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"X-Real-IP preferred", map[string]string{"X-Real-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "9.9.9.9:1234", "1.2.3.4"},
		{"X-Forwarded-For fallback", map[string]string{"X-Forwarded-For": "5.6.7.8"}, "9.9.9.9:1234", "5.6.7.8"},
		{"RemoteAddr fallback", nil, "9.9.9.9:1234", "9.9.9.9:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := getClientIP(r); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
