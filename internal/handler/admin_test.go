// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

func newAdminHandler(t *testing.T, backend http.Handler) (*AdminHandler, *session.Manager) {
	t.Helper()
	sm := testSessionManager(t)
	renderer := testRenderer(t, sm)
	client := testBackend(t, sm, backend)
	return NewAdminHandler(service.NewAdminService(client), service.NewEventsService(client), renderer, sm), sm
}

func TestAdminUsers_ForwardsFiltersToBackend(t *testing.T) {
	var gotQuery url.Values
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/users" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(service.UserPage{
			Users:      []model.User{{ID: "u1", Name: "Pat", Role: model.RoleStudent}},
			Total:      1,
			Page:       1,
			TotalPages: 1,
		})
	})
	h, sm := newAdminHandler(t, backend)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/admin/users?search=pat&role=STUDENT", nil)
	req = requestWithSession(t, sm, req)
	req = requestWithUser(req, &model.User{ID: "a1", Role: model.RoleAdmin})
	rec := httptest.NewRecorder()
	h.Users(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if got := gotQuery.Get("search"); got != "pat" {
		t.Errorf("search = %q; want %q", got, "pat")
	}
	if got := gotQuery.Get("role"); got != "STUDENT" {
		t.Errorf("role = %q; want %q", got, "STUDENT")
	}
}

func TestAdminDeleteUser_RefusesSelf(t *testing.T) {
	backendHit := false
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHit = true
	})
	h, sm := newAdminHandler(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/admin/users/a1/delete", nil)
	req = requestWithURLParams(req, map[string]string{"id": "a1"})
	req = requestWithSession(t, sm, req)
	req = requestWithUser(req, &model.User{ID: "a1", Role: model.RoleAdmin})
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, req)

	assertRedirect(t, rec, redirectAdminUsers)
	if backendHit {
		t.Error("backend called for a self-delete")
	}
}

func TestAdminDeleteUser_RemovesExactlyOne(t *testing.T) {
	var deleted []string
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = append(deleted, strings.TrimPrefix(r.URL.Path, "/api/admin/users/"))
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
	})
	h, sm := newAdminHandler(t, backend)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/admin/users/u7/delete", nil)
	req = requestWithURLParams(req, map[string]string{"id": "u7"})
	req = requestWithSession(t, sm, req)
	req = requestWithUser(req, &model.User{ID: "a1", Role: model.RoleAdmin})
	rec := httptest.NewRecorder()
	h.DeleteUser(rec, req)

	assertRedirect(t, rec, redirectAdminUsers)
	if len(deleted) != 1 || deleted[0] != "u7" {
		t.Errorf("deleted = %v; want exactly [u7]", deleted)
	}
}

func TestAdminSetUserRole_RejectsUnknownRole(t *testing.T) {
	backendHit := false
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHit = true
	})
	h, sm := newAdminHandler(t, backend)

	form := url.Values{"role": {"SUPERUSER"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/admin/users/u7/role", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithURLParams(req, map[string]string{"id": "u7"})
	req = requestWithSession(t, sm, req)
	req = requestWithUser(req, &model.User{ID: "a1", Role: model.RoleAdmin})
	rec := httptest.NewRecorder()
	h.SetUserRole(rec, req)

	assertRedirect(t, rec, redirectAdminUsers)
	if backendHit {
		t.Error("backend called with an unknown role")
	}
}

func TestAdminSetUserRole_Promotes(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/admin/users/u7/role" {
			http.NotFound(w, r)
			return
		}
		var in struct {
			Role string `json:"role"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(model.User{ID: "u7", Name: "Sam", Role: in.Role})
	})
	h, sm := newAdminHandler(t, backend)

	form := url.Values{"role": {model.RoleOrganizer}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/admin/users/u7/role", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithURLParams(req, map[string]string{"id": "u7"})
	req = requestWithSession(t, sm, req)
	req = requestWithUser(req, &model.User{ID: "a1", Role: model.RoleAdmin})
	rec := httptest.NewRecorder()
	h.SetUserRole(rec, req)

	assertRedirect(t, rec, redirectAdminUsers)
	if flash := sm.PopString(req.Context(), "flash"); !strings.Contains(flash, "ORGANIZER") {
		t.Errorf("flash = %q; want the new role", flash)
	}
}
