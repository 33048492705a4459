// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, TokenSourceFunc(func(context.Context) string {
		return token
	}))
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}, "token-123")

	var out struct {
		OK bool `json:"ok"`
	}
	if err := client.Get(context.Background(), "/api/events", nil, &out); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-123")
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header not set")
	}
	if !out.OK {
		t.Error("response not decoded")
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var hadAuth bool
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}, "")

	if err := client.Get(context.Background(), "/api/events", nil, nil); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if hadAuth {
		t.Error("Authorization header sent without a token")
	}
}

func TestClient_NormalizesErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantMsg  string
	}{
		{"401 with message", http.StatusUnauthorized, `{"message":"Token expired"}`, KindUnauthorized, "Token expired"},
		{"404 empty body", http.StatusNotFound, ``, KindNotFound, "not found"},
		{"409 error field", http.StatusConflict, `{"error":"Event is full"}`, KindConflict, "Event is full"},
		{"422 validation", http.StatusUnprocessableEntity, `{"message":"email is invalid"}`, KindBadRequest, "email is invalid"},
		{"429", http.StatusTooManyRequests, ``, KindRateLimited, "too many requests, please slow down"},
		{"500 html body", http.StatusInternalServerError, `<html>oops</html>`, KindServer, "something went wrong, please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, "t")

			err := client.Get(context.Background(), "/api/x", nil, nil)
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %v is not *Error", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", apiErr.Kind, tt.wantKind)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status = %d, want %d", apiErr.Status, tt.status)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestClient_UnauthorizedSentinel(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid token"}`))
	}, "stale")

	err := client.Get(context.Background(), "/api/auth/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("errors.Is(err, ErrUnauthorized) = false for %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("401 matched ErrNotFound")
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	// Point at a closed server.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := New(srv.URL, time.Second, nil)

	err := client.Get(context.Background(), "/api/events", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not *Error", err)
	}
	if apiErr.Kind != KindNetwork {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, KindNetwork)
	}
	if apiErr.Status != 0 {
		t.Errorf("Status = %d, want 0", apiErr.Status)
	}
}

func TestMessage(t *testing.T) {
	backendErr := &Error{Kind: KindConflict, Status: 409, Message: "Already registered"}
	if got := Message(backendErr, "fallback"); got != "Already registered" {
		t.Errorf("Message() = %q, want backend message", got)
	}
	if got := Message(errors.New("boom"), "fallback"); got != "fallback" {
		t.Errorf("Message() = %q, want fallback", got)
	}
	if got := Message(&Error{Kind: KindServer, Status: 500}, "fallback"); got != "fallback" {
		t.Errorf("Message() with empty message = %q, want fallback", got)
	}
}
