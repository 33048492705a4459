// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
)

// EventsService talks to /api/events.
type EventsService struct {
	client *api.Client
}

// NewEventsService creates an EventsService.
func NewEventsService(client *api.Client) *EventsService {
	return &EventsService{client: client}
}

// EventQuery holds the server-side filter parameters for event listings.
// Zero values are omitted from the query string.
type EventQuery struct {
	Search     string
	Category   string
	Department string
	Phase      string // upcoming | ongoing | past
	Page       int
	Limit      int
}

// Values encodes the query as URL parameters.
func (q EventQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Department != "" {
		v.Set("department", q.Department)
	}
	if q.Phase != "" {
		v.Set("status", q.Phase)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// EventPage is one page of an event listing.
type EventPage struct {
	Events     []model.Event `json:"events"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

// List returns a filtered, paginated page of events.
func (s *EventsService) List(ctx context.Context, q EventQuery) (*EventPage, error) {
	var out EventPage
	if err := s.client.Get(ctx, "/api/events", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns a single event by ID.
func (s *EventsService) Get(ctx context.Context, id string) (*model.Event, error) {
	var out model.Event
	if err := s.client.Get(ctx, "/api/events/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMine returns the events organized by the signed-in user.
func (s *EventsService) ListMine(ctx context.Context) ([]model.Event, error) {
	var out struct {
		Events []model.Event `json:"events"`
	}
	if err := s.client.Get(ctx, "/api/events/organizer", nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

// EventInput is the payload for creating or updating an event.
type EventInput struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartDateTime   time.Time `json:"startDateTime"`
	EndDateTime     time.Time `json:"endDateTime"`
	Location        string    `json:"location"`
	BannerImage     string    `json:"bannerImage,omitempty"`
	Department      string    `json:"department,omitempty"`
	Club            string    `json:"club,omitempty"`
	Category        string    `json:"category,omitempty"`
	MaxParticipants int       `json:"maxParticipants"`
}

// Create creates a new event owned by the signed-in organizer.
func (s *EventsService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	var out model.Event
	if err := s.client.Post(ctx, "/api/events", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an event's editable fields.
func (s *EventsService) Update(ctx context.Context, id string, in EventInput) (*model.Event, error) {
	var out model.Event
	if err := s.client.Put(ctx, "/api/events/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an event. The backend cascades registrations.
func (s *EventsService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/events/"+url.PathEscape(id), nil)
}
