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

// DashboardHandler renders the role-specific dashboards. Each role gets
// its own route; Root dispatches everyone to the right one.
type DashboardHandler struct {
	events        *service.EventsService
	registrations *service.RegistrationsService
	certificates  *service.CertificatesService
	admin         *service.AdminService
	renderer      *render.Renderer
	sessions      *session.Manager
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	events *service.EventsService,
	registrations *service.RegistrationsService,
	certificates *service.CertificatesService,
	admin *service.AdminService,
	renderer *render.Renderer,
	sm *session.Manager,
) *DashboardHandler {
	return &DashboardHandler{
		events:        events,
		registrations: registrations,
		certificates:  certificates,
		admin:         admin,
		renderer:      renderer,
		sessions:      sm,
	}
}

// Root redirects signed-in users to their role's dashboard. It lets the
// student route double as the generic "/dashboard" landing point.
func (h *DashboardHandler) Root(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user.IsAdmin() || user.IsOrganizer() {
		http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
		return
	}
	h.Student(w, r)
}

// StudentDashboardData is the template payload for the student dashboard.
type StudentDashboardData struct {
	Upcoming         []model.Registration
	ActiveCount      int
	WaitlistedCount  int
	AttendedCount    int
	CertificateCount int
	Now              time.Time
}

// Student renders the student dashboard: active registrations split by
// status, upcoming events, and the certificate count.
func (h *DashboardHandler) Student(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.ListMine(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectEvents, "Could not load your dashboard")
		return
	}
	certs, err := h.certificates.ListMine(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectEvents, "Could not load your dashboard")
		return
	}

	now := time.Now()
	data := StudentDashboardData{CertificateCount: len(certs), Now: now}
	for _, reg := range regs {
		switch reg.Status {
		case model.StatusRegistered:
			data.ActiveCount++
		case model.StatusWaitlisted:
			data.WaitlistedCount++
		}
		if reg.Attended {
			data.AttendedCount++
		}
		if reg.Active() && reg.Event != nil && reg.Event.Phase(now) == model.PhaseUpcoming {
			data.Upcoming = append(data.Upcoming, reg)
		}
	}

	h.renderPage(w, r, "pages/dashboard_student", "Dashboard", data)
}

// OrganizerDashboardData is the template payload for the organizer
// dashboard. Events are grouped by phase at render time.
type OrganizerDashboardData struct {
	Upcoming  []model.Event
	Ongoing   []model.Event
	Past      []model.Event
	TotalRegs int
	Now       time.Time
}

// Organizer renders the organizer dashboard with the user's own events
// partitioned into upcoming, ongoing and past.
func (h *DashboardHandler) Organizer(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListMine(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectEvents, "Could not load your events")
		return
	}

	now := time.Now()
	data := OrganizerDashboardData{Now: now}
	for _, ev := range events {
		data.TotalRegs += ev.RegistrationCount
		switch ev.Phase(now) {
		case model.PhaseUpcoming:
			data.Upcoming = append(data.Upcoming, ev)
		case model.PhaseOngoing:
			data.Ongoing = append(data.Ongoing, ev)
		default:
			data.Past = append(data.Past, ev)
		}
	}

	h.renderPage(w, r, "pages/dashboard_organizer", "Organizer Dashboard", data)
}

// AdminDashboardData is the template payload for the admin dashboard.
type AdminDashboardData struct {
	Stats *service.Stats
}

// Admin renders the admin dashboard with the platform counters.
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectEvents, "Could not load platform stats")
		return
	}

	h.renderPage(w, r, "pages/dashboard_admin", "Admin Dashboard", AdminDashboardData{Stats: stats})
}

func (h *DashboardHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data, User: middleware.GetUser(r)}); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}
