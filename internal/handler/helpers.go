// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/session"
)

// handleAPIError is the single conversion point from backend errors to
// browser responses. A 401 means the stored token is no longer accepted:
// the session is torn down and the user is sent to the login page, no
// matter which handler made the call. Anything else becomes a flash
// message on fallbackURL, using the backend's message when it sent one.
func handleAPIError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, sm *session.Manager, err error, fallbackURL, fallbackMsg string) {
	if errors.Is(err, api.ErrUnauthorized) {
		if clearErr := sm.Clear(r.Context()); clearErr != nil {
			slog.Error("failed to clear session", "error", clearErr)
		}
		flashError(w, r, renderer, redirectLogin, "Your session has expired. Please sign in again.")
		return
	}

	if errors.Is(err, api.ErrNotFound) {
		flashError(w, r, renderer, fallbackURL, api.Message(err, "Not found"))
		return
	}

	slog.Error("backend request failed", "error", err, "path", r.URL.Path)
	flashError(w, r, renderer, fallbackURL, api.Message(err, fallbackMsg))
}

// requireEventWithRedirect fetches an event by ID, flashing and
// redirecting to the event catalog when it cannot be loaded. Returns the
// event and true on success.
func requireEventWithRedirect[T any](
	w http.ResponseWriter,
	r *http.Request,
	renderer *render.Renderer,
	sm *session.Manager,
	id string,
	queryFn func(id string) (T, error),
) (T, bool) {
	var zero T
	entity, err := queryFn(id)
	if err != nil {
		handleAPIError(w, r, renderer, sm, err, redirectEvents, "Error loading event")
		return zero, false
	}
	return entity, true
}
