// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

// ProfileHandler shows and updates the signed-in user's profile.
type ProfileHandler struct {
	auth     *service.AuthService
	renderer *render.Renderer
	sessions *session.Manager
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(auth *service.AuthService, renderer *render.Renderer, sm *session.Manager) *ProfileHandler {
	return &ProfileHandler{auth: auth, renderer: renderer, sessions: sm}
}

// ProfileFormData is the template payload for the profile page.
type ProfileFormData struct {
	Name         string
	Department   string
	ProfileImage string
	Errors       FormErrors
}

// Show renders the profile form pre-filled from the session user.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	data := ProfileFormData{
		Name:         user.Name,
		Department:   user.Department,
		ProfileImage: user.ProfileImage,
	}
	h.render(w, r, data)
}

// Update validates and submits profile edits. The email and role are
// not editable here; the backend ignores them if sent.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectProfile) {
		return
	}

	data := ProfileFormData{
		Name:         r.FormValue("name"),
		Department:   r.FormValue("department"),
		ProfileImage: r.FormValue("profileImage"),
		Errors:       FormErrors{},
	}
	validateRequired(data.Errors, "name", data.Name, "Name")
	if data.Errors.HasErrors() {
		h.render(w, r, data)
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), service.UpdateProfileInput{
		Name:         data.Name,
		Department:   data.Department,
		ProfileImage: data.ProfileImage,
	})
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectProfile, "Could not update your profile")
		return
	}

	// Refresh the cached session user so the nav shows the new name
	// without waiting for the next /api/auth/me round trip.
	if err := h.sessions.SetUser(r.Context(), user); err != nil {
		logAndInternalError(w, "failed to update session user", "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectProfile, "Profile updated")
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, data ProfileFormData) {
	if err := h.renderer.Render(w, r, "pages/profile", render.TemplateData{
		Title: "Profile",
		Data:  data,
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render page", "template", "pages/profile", "error", err)
	}
}
