// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

const adminUsersPerPage = 20

// AdminHandler handles the admin-only management screens. Route guards
// restrict these to the ADMIN role; the backend enforces it again.
type AdminHandler struct {
	admin    *service.AdminService
	events   *service.EventsService
	renderer *render.Renderer
	sessions *session.Manager
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin *service.AdminService, events *service.EventsService, renderer *render.Renderer, sm *session.Manager) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		events:   events,
		renderer: renderer,
		sessions: sm,
	}
}

// AdminUserListData is the template payload for the user management page.
type AdminUserListData struct {
	Users      []model.User
	Query      service.UserQuery
	Pagination Pagination
	Roles      []string
}

// Users renders the user management list. The user base grows without
// bound, so search and role filters are forwarded to the backend.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	q := service.UserQuery{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
		Page:   ParsePageParam(r.URL.Query().Get("page")),
		Limit:  adminUsersPerPage,
	}

	page, err := h.admin.ListUsers(r.Context(), q)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectDashboardAdmin, "Could not load users")
		return
	}

	data := AdminUserListData{
		Users:      page.Users,
		Query:      q,
		Pagination: BuildPagination(page.Page, page.Total, adminUsersPerPage, redirectAdminUsers, r.URL.Query()),
		Roles:      []string{model.RoleAdmin, model.RoleOrganizer, model.RoleStudent},
	}
	h.renderPage(w, r, "pages/admin_users", "Manage Users", data)
}

// DeleteUser removes an account. The backend cascades its registrations.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if middleware.GetUserID(r) == id {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot delete your own account")
		return
	}
	if err := h.admin.DeleteUser(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectAdminUsers, "Could not delete the user")
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers, "User deleted")
}

// SetUserRole grants a user a different role.
func (h *AdminHandler) SetUserRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminUsers) {
		return
	}
	role := r.FormValue("role")
	if !model.ValidRole(role) {
		flashError(w, r, h.renderer, redirectAdminUsers, "Unknown role")
		return
	}
	if middleware.GetUserID(r) == id {
		flashError(w, r, h.renderer, redirectAdminUsers, "You cannot change your own role")
		return
	}

	user, err := h.admin.SetUserRole(r.Context(), id, role)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectAdminUsers, "Could not change the role")
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminUsers, user.Name+" is now "+role)
}

// AdminEventListData is the template payload for the event management page.
type AdminEventListData struct {
	Events     []model.Event
	Query      service.EventQuery
	Pagination Pagination
	Now        time.Time
}

// Events renders the event management list. Admins see every event and
// can edit or delete any of them.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	q := service.EventQuery{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Phase:    r.URL.Query().Get("status"),
		Page:     ParsePageParam(r.URL.Query().Get("page")),
		Limit:    eventsPerPage,
	}

	page, err := h.events.List(r.Context(), q)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectDashboardAdmin, "Could not load events")
		return
	}

	data := AdminEventListData{
		Events:     page.Events,
		Query:      q,
		Pagination: BuildPagination(page.Page, page.Total, eventsPerPage, redirectAdminEvents, r.URL.Query()),
		Now:        time.Now(),
	}
	h.renderPage(w, r, "pages/admin_events", "Manage Events", data)
}

func (h *AdminHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data, User: middleware.GetUser(r)}); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}
