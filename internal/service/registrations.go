// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/url"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
)

// RegistrationsService talks to /api/registrations. Status transitions
// (REGISTERED, WAITLISTED, CANCELLED) and waitlist promotion happen in
// the backend; these methods only request a transition.
type RegistrationsService struct {
	client *api.Client
}

// NewRegistrationsService creates a RegistrationsService.
func NewRegistrationsService(client *api.Client) *RegistrationsService {
	return &RegistrationsService{client: client}
}

// Register registers the signed-in user for an event. The backend
// decides between REGISTERED and WAITLISTED based on capacity.
func (s *RegistrationsService) Register(ctx context.Context, eventID string) (*model.Registration, error) {
	var out model.Registration
	if err := s.client.Post(ctx, "/api/registrations", map[string]string{"eventId": eventID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Cancel cancels a registration. A waitlisted user may be promoted by
// the backend as a consequence; the frontend just re-fetches.
func (s *RegistrationsService) Cancel(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/registrations/"+url.PathEscape(id), nil)
}

// ListMine returns the signed-in user's registrations with the event
// reference expanded.
func (s *RegistrationsService) ListMine(ctx context.Context) ([]model.Registration, error) {
	var out struct {
		Registrations []model.Registration `json:"registrations"`
	}
	if err := s.client.Get(ctx, "/api/registrations/me", nil, &out); err != nil {
		return nil, err
	}
	return out.Registrations, nil
}

// ListForEvent returns an event's registrations with the user reference
// expanded. Restricted by the backend to the event's organizer and admins.
func (s *RegistrationsService) ListForEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	var out struct {
		Registrations []model.Registration `json:"registrations"`
	}
	if err := s.client.Get(ctx, "/api/registrations/event/"+url.PathEscape(eventID), nil, &out); err != nil {
		return nil, err
	}
	return out.Registrations, nil
}

// SetAttendance marks whether a registrant attended. Organizer-only.
func (s *RegistrationsService) SetAttendance(ctx context.Context, id string, attended bool) (*model.Registration, error) {
	var out model.Registration
	body := map[string]bool{"attended": attended}
	if err := s.client.Put(ctx, "/api/registrations/"+url.PathEscape(id)+"/attendance", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
