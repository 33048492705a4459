// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

// homeFeaturedCount caps how many upcoming events the landing page shows.
const homeFeaturedCount = 6

// FrontendHandler renders the public pages that need no sign-in.
type FrontendHandler struct {
	events   *service.EventsService
	renderer *render.Renderer
	sessions *session.Manager
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(events *service.EventsService, renderer *render.Renderer, sm *session.Manager) *FrontendHandler {
	return &FrontendHandler{events: events, renderer: renderer, sessions: sm}
}

// HomeData is the template payload for the landing page.
type HomeData struct {
	Featured []model.Event
	Now      time.Time
}

// Home renders the landing page with a teaser of upcoming events. The
// page must render even when the backend is down, so a fetch failure
// degrades to an empty teaser instead of an error.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := HomeData{Now: time.Now()}

	page, err := h.events.List(r.Context(), service.EventQuery{
		Phase: model.PhaseUpcoming,
		Limit: homeFeaturedCount,
	})
	if err == nil {
		data.Featured = page.Events
	}

	if err := h.renderer.Render(w, r, "pages/home", render.TemplateData{
		Title: "EventFlow",
		Data:  data,
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render page", "template", "pages/home", "error", err)
	}
}

// NotFound renders the 404 page for unmatched routes.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := h.renderer.Render(w, r, "pages/notfound", render.TemplateData{
		Title: "Page Not Found",
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render page", "template", "pages/notfound", "error", err)
	}
}
