// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

// eventsPerPage is the catalog page size.
const eventsPerPage = 12

// EventsHandler handles the public event catalog and the organizer CRUD.
type EventsHandler struct {
	events        *service.EventsService
	registrations *service.RegistrationsService
	renderer      *render.Renderer
	sessions      *session.Manager
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(events *service.EventsService, registrations *service.RegistrationsService, renderer *render.Renderer, sm *session.Manager) *EventsHandler {
	return &EventsHandler{
		events:        events,
		registrations: registrations,
		renderer:      renderer,
		sessions:      sm,
	}
}

// EventListData is the template payload for the event catalog.
type EventListData struct {
	Events     []model.Event
	Query      service.EventQuery
	Pagination Pagination
	Now        time.Time
}

// List renders the public event catalog. The catalog grows without
// bound, so filtering is server-side: the query controls are forwarded
// to the backend and a single page comes back.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := service.EventQuery{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		Department: r.URL.Query().Get("department"),
		Phase:      r.URL.Query().Get("status"),
		Page:       ParsePageParam(r.URL.Query().Get("page")),
		Limit:      eventsPerPage,
	}

	page, err := h.events.List(r.Context(), q)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteRoot, "Could not load events")
		return
	}

	data := EventListData{
		Events:     page.Events,
		Query:      q,
		Pagination: BuildPagination(page.Page, page.Total, eventsPerPage, RouteEvents, r.URL.Query()),
		Now:        time.Now(),
	}
	h.renderPage(w, r, "pages/events", "Events", data)
}

// OrganizerEventListData is the template payload for the organizer's
// own event list.
type OrganizerEventListData struct {
	Events []model.Event
	Now    time.Time
}

// ListMine renders the events the signed-in organizer owns, with edit
// and delete controls.
func (h *EventsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListMine(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectOrganizer, "Could not load your events")
		return
	}

	data := OrganizerEventListData{Events: events, Now: time.Now()}
	h.renderPage(w, r, "pages/organizer_events", "My Events", data)
}

// EventDetailData is the template payload for the event detail page.
type EventDetailData struct {
	Event model.Event
	Now   time.Time
	// Registration is the signed-in user's active registration, nil when
	// not registered or not signed in.
	Registration *model.Registration
	// CanManage is true for the owning organizer and admins.
	CanManage bool
}

// Detail renders one event with its markdown description and, for a
// signed-in student, their registration state.
func (h *EventsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, ok := requireEventWithRedirect(w, r, h.renderer, h.sessions, id, func(id string) (*model.Event, error) {
		return h.events.Get(r.Context(), id)
	})
	if !ok {
		return
	}

	data := EventDetailData{Event: *event, Now: time.Now()}

	if user := middleware.GetUser(r); user != nil {
		data.CanManage = user.IsAdmin() || (user.IsOrganizer() && event.OrganizerID == user.ID)

		if user.Role == model.RoleStudent && h.sessions.IsAuthenticated(r.Context()) {
			if regs, err := h.registrations.ListMine(r.Context()); err == nil {
				for i := range regs {
					if regs[i].EventID == id && regs[i].Active() {
						data.Registration = &regs[i]
						break
					}
				}
			}
		}
	}

	h.renderPage(w, r, "pages/event_detail", event.Title, data)
}

// EventFormData is the template payload for the create/edit form.
type EventFormData struct {
	Event  model.Event
	Errors FormErrors
	IsEdit bool
}

// CreateForm renders the event creation form.
func (h *EventsHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "pages/event_form", "Create Event", EventFormData{})
}

// Create handles the event creation submission.
func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectEventsCreate) {
		return
	}

	input, form := h.parseEventForm(r)
	if form.Errors.HasErrors() {
		h.renderPage(w, r, "pages/event_form", "Create Event", form)
		return
	}

	event, err := h.events.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			handleAPIError(w, r, h.renderer, h.sessions, err, redirectEventsCreate, "Could not create the event")
			return
		}
		form.Errors["form"] = api.Message(err, "Could not create the event")
		h.renderPage(w, r, "pages/event_form", "Create Event", form)
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectEventsIDFmt, event.ID), "Event created")
}

// EditForm renders the edit form, pre-filled with the event's state.
func (h *EventsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, ok := requireEventWithRedirect(w, r, h.renderer, h.sessions, id, func(id string) (*model.Event, error) {
		return h.events.Get(r.Context(), id)
	})
	if !ok {
		return
	}

	if !h.canManage(r, event) {
		flashError(w, r, h.renderer, fmt.Sprintf(redirectEventsIDFmt, id), "You can only edit your own events")
		return
	}

	h.renderPage(w, r, "pages/event_form", "Edit Event", EventFormData{Event: *event, IsEdit: true})
}

// Update handles the edit submission.
func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	selfURL := fmt.Sprintf(redirectEventsIDEditFmt, id)

	if !parseFormOrRedirect(w, r, h.renderer, selfURL) {
		return
	}

	input, form := h.parseEventForm(r)
	form.IsEdit = true
	form.Event.ID = id
	if form.Errors.HasErrors() {
		h.renderPage(w, r, "pages/event_form", "Edit Event", form)
		return
	}

	if _, err := h.events.Update(r.Context(), id, input); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, selfURL, "Could not update the event")
		return
	}

	flashSuccess(w, r, h.renderer, fmt.Sprintf(redirectEventsIDFmt, id), "Event updated")
}

// Delete handles event deletion. Exactly the addressed event is removed;
// the backend rejects deletes by anyone but the owner or an admin.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.events.Delete(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, fmt.Sprintf(redirectEventsIDFmt, id), "Could not delete the event")
		return
	}

	flashSuccess(w, r, h.renderer, redirectOrganizerEvents, "Event deleted")
}

// parseEventForm reads and validates the create/edit form. The returned
// EventFormData carries the submitted values so the form re-renders
// filled in on validation failure.
func (h *EventsHandler) parseEventForm(r *http.Request) (service.EventInput, EventFormData) {
	errs := FormErrors{}
	form := EventFormData{Errors: errs}

	form.Event = model.Event{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		BannerImage: r.FormValue("bannerImage"),
		Department:  r.FormValue("department"),
		Club:        r.FormValue("club"),
		Category:    r.FormValue("category"),
	}

	validateRequired(errs, "title", form.Event.Title, "Title")
	validateRequired(errs, "description", form.Event.Description, "Description")
	validateRequired(errs, "location", form.Event.Location, "Location")

	start := parseDateTimeField(errs, "startDateTime", r.FormValue("startDateTime"), "Start time")
	end := parseDateTimeField(errs, "endDateTime", r.FormValue("endDateTime"), "End time")
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		errs["endDateTime"] = "End time must be after the start time"
	}
	form.Event.StartDateTime = start
	form.Event.EndDateTime = end

	form.Event.MaxParticipants = parseIntField(errs, "maxParticipants", r.FormValue("maxParticipants"), "Maximum participants")

	input := service.EventInput{
		Title:           form.Event.Title,
		Description:     form.Event.Description,
		StartDateTime:   start,
		EndDateTime:     end,
		Location:        form.Event.Location,
		BannerImage:     form.Event.BannerImage,
		Department:      form.Event.Department,
		Club:            form.Event.Club,
		Category:        form.Event.Category,
		MaxParticipants: form.Event.MaxParticipants,
	}
	return input, form
}

// canManage reports whether the signed-in user may edit the event.
func (h *EventsHandler) canManage(r *http.Request, event *model.Event) bool {
	user := middleware.GetUser(r)
	if user == nil {
		return false
	}
	return user.IsAdmin() || (user.IsOrganizer() && event.OrganizerID == user.ID)
}

// parseDateTimeField parses an HTML datetime-local value.
func parseDateTimeField(errs FormErrors, field, value, label string) time.Time {
	if value == "" {
		errs[field] = label + " is required"
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t
		}
	}
	errs[field] = label + " is not a valid date and time"
	return time.Time{}
}

func (h *EventsHandler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	if err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data, User: middleware.GetUser(r)}); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}
