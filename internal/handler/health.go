// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/session"
)

// HealthHandler handles health check requests. The frontend holds no
// state of its own besides the session store, so readiness is defined
// by reachability of the backend API.
type HealthHandler struct {
	client    *api.Client
	sessions  *session.Manager
	version   string
	startTime time.Time
}

// NewHealthHandler creates a new health handler. The client should
// carry no token source: the backend health endpoint is public and the
// probes may run outside the session middleware.
func NewHealthHandler(client *api.Client, sm *session.Manager, version string) *HealthHandler {
	return &HealthHandler{
		client:    client,
		sessions:  sm,
		version:   version,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (signed-in callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health requests.
// Returns minimal status for unauthenticated callers, full details for admins.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	backendCheck := h.checkBackend(r)

	overallStatus := "healthy"
	if backendCheck.Status != "healthy" {
		overallStatus = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	// Unauthenticated callers get minimal response
	if !h.isAuthenticated(r) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{
			Status: overallStatus,
		})
		return
	}

	// Signed-in non-admin: basic response without check details
	if !h.isAdmin(r) {
		_ = json.NewEncoder(w).Encode(HealthStatus{
			Status:    overallStatus,
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(h.startTime).Round(time.Second).String(),
			Version:   h.version,
		})
		return
	}

	// Admin only: full details including checks and optional system info
	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version,
		Checks: map[string]Check{
			"backend": backendCheck,
		},
	}

	if r.URL.Query().Get("verbose") == "true" {
		status.System = h.getSystemInfo()
	}

	_ = json.NewEncoder(w).Encode(status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// Readiness handles GET /health/ready - checks if the backend API is
// reachable. Every page except the landing depends on it.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	backendCheck := h.checkBackend(r)

	w.Header().Set("Content-Type", "application/json")

	if backendCheck.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
		})
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	resp := map[string]string{
		"status": "not_ready",
	}
	// Only include error details for signed-in callers
	if h.isAuthenticated(r) {
		resp["message"] = backendCheck.Message
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// isAuthenticated checks if the request carries a signed-in session.
// SCS panics when session data is not loaded into context, so recover
// gracefully: health probes may bypass the session middleware.
func (h *HealthHandler) isAuthenticated(r *http.Request) (authenticated bool) {
	defer func() {
		if rec := recover(); rec != nil {
			authenticated = false
		}
	}()
	if h.sessions == nil {
		return false
	}
	return h.sessions.Token(r.Context()) != ""
}

// isAdmin checks if the request carries an admin session.
func (h *HealthHandler) isAdmin(r *http.Request) (admin bool) {
	defer func() {
		if rec := recover(); rec != nil {
			admin = false
		}
	}()
	if h.sessions == nil {
		return false
	}
	user := h.sessions.User(r.Context())
	return user != nil && user.IsAdmin()
}

// checkBackend verifies the backend API answers its health endpoint.
func (h *HealthHandler) checkBackend(r *http.Request) Check {
	start := time.Now()

	err := h.client.Get(r.Context(), "/api/health", nil, nil)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Message: "Connected",
		Latency: latency.String(),
	}
}

// getSystemInfo returns system-level metrics.
func (h *HealthHandler) getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
