// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/session"
)

func newHealthHandler(t *testing.T, backend http.Handler) (*HealthHandler, *session.Manager) {
	t.Helper()
	sm := testSessionManager(t)
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	// The probe client carries no token: /api/health is public and the
	// probes may run outside the session middleware.
	client := api.New(srv.URL, 5*time.Second, nil)
	return NewHealthHandler(client, sm, "test"), sm
}

func healthyBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func downBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
}

func TestHealth_PublicResponseIsMinimal(t *testing.T) {
	h, sm := newHealthHandler(t, healthyBackend())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = requestWithSession(t, sm, req)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	if _, leaked := resp["checks"]; leaked {
		t.Error("check details leaked to an unauthenticated caller")
	}
}

func TestHealth_AdminSeesChecks(t *testing.T) {
	h, sm := newHealthHandler(t, healthyBackend())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = requestWithSession(t, sm, req)
	if err := sm.SetAuth(req.Context(), "jwt-1", &model.User{ID: "a1", Role: model.RoleAdmin}); err != nil {
		t.Fatalf("SetAuth: %v", err)
	}
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	var resp HealthStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.Checks["backend"].Status != "healthy" {
		t.Errorf("backend check = %+v; want healthy", resp.Checks["backend"])
	}
	if resp.Version != "test" {
		t.Errorf("version = %q; want %q", resp.Version, "test")
	}
}

func TestHealth_DegradedWhenBackendDown(t *testing.T) {
	h, sm := newHealthHandler(t, downBackend())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req = requestWithSession(t, sm, req)
	rec := httptest.NewRecorder()
	h.Health(rec, req)

	assertStatus(t, rec.Code, http.StatusServiceUnavailable)
}

func TestLiveness_AlwaysAlive(t *testing.T) {
	h, _ := newHealthHandler(t, downBackend())

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assertStatus(t, rec.Code, http.StatusOK)
}

func TestReadiness_FollowsBackend(t *testing.T) {
	tests := []struct {
		name       string
		backend    http.Handler
		wantStatus int
	}{
		{"ready", healthyBackend(), http.StatusOK},
		{"not ready", downBackend(), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sm := newHealthHandler(t, tt.backend)

			req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
			req = requestWithSession(t, sm, req)
			rec := httptest.NewRecorder()
			h.Readiness(rec, req)

			assertStatus(t, rec.Code, tt.wantStatus)
		})
	}
}

func TestHealth_NoSessionContextDoesNotPanic(t *testing.T) {
	h, _ := newHealthHandler(t, healthyBackend())

	// Probes typically bypass the session middleware.
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assertStatus(t, rec.Code, http.StatusOK)
}
