// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventflow/eventflow-web/internal/listview"
	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

// registrationsPerPage is the "my registrations" page size.
const registrationsPerPage = 10

// RegistrationsHandler handles the student registration flows and the
// organizer attendance view.
type RegistrationsHandler struct {
	registrations *service.RegistrationsService
	renderer      *render.Renderer
	sessions      *session.Manager
}

// NewRegistrationsHandler creates a new RegistrationsHandler.
func NewRegistrationsHandler(registrations *service.RegistrationsService, renderer *render.Renderer, sm *session.Manager) *RegistrationsHandler {
	return &RegistrationsHandler{
		registrations: registrations,
		renderer:      renderer,
		sessions:      sm,
	}
}

// newRegistrationListModel builds the in-memory list view for a user's
// registrations. The collection is small (one row per event the user
// ever joined), so it is fetched whole and filtered here.
func newRegistrationListModel() *listview.Model[model.Registration] {
	return listview.New(listview.Config[model.Registration]{
		Match: func(reg model.Registration, q listview.Query) bool {
			if status := q.Filter("status"); status != "" && reg.Status != status {
				return false
			}
			if phase := q.Filter("phase"); phase != "" {
				if reg.Event == nil || reg.Event.Phase(time.Now()) != phase {
					return false
				}
			}
			if q.Search != "" {
				if reg.Event == nil || !strings.Contains(strings.ToLower(reg.Event.Title), strings.ToLower(q.Search)) {
					return false
				}
			}
			return true
		},
		Sorts: map[string]func(a, b model.Registration) bool{
			"date": func(a, b model.Registration) bool {
				if a.Event == nil || b.Event == nil {
					return a.Event != nil
				}
				return a.Event.StartDateTime.Before(b.Event.StartDateTime)
			},
		},
		PerPage: registrationsPerPage,
	})
}

// RegistrationListData is the template payload for "my registrations".
type RegistrationListData struct {
	Page  listview.Page[model.Registration]
	Query listview.Query
	Now   time.Time
}

// List renders the signed-in user's registrations with status and phase
// filters applied in memory.
func (h *RegistrationsHandler) List(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.ListMine(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectDashboard, "Could not load your registrations")
		return
	}

	m := newRegistrationListModel()
	m.Replace(regs)

	q := listview.Query{
		Search: r.URL.Query().Get("search"),
		Filters: map[string]string{
			"status": r.URL.Query().Get("status"),
			"phase":  r.URL.Query().Get("phase"),
		},
		Sort: r.URL.Query().Get("sort"),
	}
	m.SetQuery(q)
	m.SetPage(ParsePageParam(r.URL.Query().Get("page")))

	data := RegistrationListData{Page: m.Current(), Query: q, Now: time.Now()}
	h.renderPage(w, r, "pages/registrations", "My Registrations", data)
}

// Register creates a registration for the addressed event. The backend
// decides between REGISTERED and WAITLISTED based on capacity.
func (h *RegistrationsHandler) Register(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	eventURL := fmt.Sprintf(redirectEventsIDFmt, eventID)

	reg, err := h.registrations.Register(r.Context(), eventID)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, eventURL, "Could not register for this event")
		return
	}

	if reg.Status == model.StatusWaitlisted {
		flashAndRedirect(w, r, h.renderer, eventURL, "The event is full; you are on the waitlist.", "info")
		return
	}
	flashSuccess(w, r, h.renderer, eventURL, "You are registered!")
}

// Cancel cancels one registration. Exactly the addressed registration
// changes; a waitlisted user may be promoted by the backend afterwards.
func (h *RegistrationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.registrations.Cancel(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectMyRegistrations, "Could not cancel the registration")
		return
	}

	flashSuccess(w, r, h.renderer, redirectMyRegistrations, "Registration cancelled")
}

// AttendeeListData is the template payload for the organizer's
// attendance view of one event.
type AttendeeListData struct {
	EventID       string
	Registrations []model.Registration
}

// Attendees renders the registrations for an event the organizer owns.
func (h *RegistrationsHandler) Attendees(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")

	regs, err := h.registrations.ListForEvent(r.Context(), eventID)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectOrganizerEvents, "Could not load attendees")
		return
	}

	data := AttendeeListData{EventID: eventID, Registrations: regs}
	h.renderPage(w, r, "pages/event_attendees", "Attendees", data)
}

// SetAttendance marks one registration attended or not.
func (h *RegistrationsHandler) SetAttendance(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "id")
	regID := chi.URLParam(r, "regId")
	backURL := fmt.Sprintf(redirectEventsIDFmt, eventID) + "/attendees"

	if !parseFormOrRedirect(w, r, h.renderer, backURL) {
		return
	}
	attended := r.FormValue("attended") == "true"

	if _, err := h.registrations.SetAttendance(r.Context(), regID, attended); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL, "Could not update attendance")
		return
	}

	flashSuccess(w, r, h.renderer, backURL, "Attendance updated")
}

func (h *RegistrationsHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data, User: middleware.GetUser(r)}); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}
