// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/session"
)

// testTemplateNames lists every page parsed into the test renderer.
// Each page renders its title and payload flags only; layout fidelity
// is covered by the render package tests.
var testTemplateNames = map[string][]string{
	"auth":  {"login", "admin_login", "register", "forgot_password", "reset_password"},
	"pages": {"home", "events", "event_detail", "event_form", "organizer_events", "event_attendees", "registrations", "certificates", "profile", "dashboard_student", "dashboard_organizer", "dashboard_admin", "admin_users", "admin_events", "notfound"},
}

// testRenderer builds a renderer over a synthetic template set so
// handler tests exercise real template lookup without the full layout.
func testRenderer(t *testing.T, sm *session.Manager) *render.Renderer {
	t.Helper()

	fsys := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{if .Flash}}<p class="flash {{.FlashType}}">{{.Flash}}</p>{{end}}{{template "content" .}}{{end}}`),
		},
	}
	for dir, names := range testTemplateNames {
		for _, name := range names {
			fsys[dir+"/"+name+".html"] = &fstest.MapFile{
				Data: []byte(`{{define "content"}}` + name + `{{end}}`),
			}
		}
	}

	renderer, err := render.New(render.Config{TemplatesFS: fsys, Sessions: sm, IsDev: true})
	if err != nil {
		t.Fatalf("failed to build test renderer: %v", err)
	}
	return renderer
}

// testSessionManager creates an in-memory session manager for testing.
func testSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewMemory()
}

// testBackend serves as the fake EventFlow API and returns a client
// pointed at it. The client sends the token stored in the session.
func testBackend(t *testing.T, sm *session.Manager, h http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, 5*time.Second, api.TokenSourceFunc(func(ctx context.Context) string {
		return sm.Token(ctx)
	}))
}

// requestWithSession wraps a request with loaded session context.
func requestWithSession(t *testing.T, sm *session.Manager, r *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return r.WithContext(ctx)
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithUser puts a signed-in user into the request context the
// way the LoadUser middleware does.
func requestWithUser(r *http.Request, user *model.User) *http.Request {
	// Store the value, not the pointer: GetUser type-asserts model.User,
	// mirroring what LoadUser puts into the context.
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, *user))
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a redirect to the expected location.
func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther && rec.Code != http.StatusFound {
		t.Fatalf("status = %d; want a redirect", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != want {
		t.Errorf("redirect location = %q; want %q", got, want)
	}
}
