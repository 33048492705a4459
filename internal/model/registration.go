// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Registration statuses. Transitions between them are performed by the
// backend; the frontend only requests a transition and re-fetches.
const (
	StatusRegistered = "REGISTERED"
	StatusWaitlisted = "WAITLISTED"
	StatusCancelled  = "CANCELLED"
)

// Registration represents a user's registration for an event.
// The backend guarantees at most one active (registered or waitlisted)
// registration per user and event; the frontend reflects whatever the
// backend returns and never reconciles conflicting states locally.
type Registration struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	EventID   string    `json:"eventId"`
	Status    string    `json:"status"`
	Attended  bool      `json:"attended"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Event is populated when the backend expands the reference,
	// e.g. on the "my registrations" endpoint.
	Event *Event `json:"event,omitempty"`
	// User is populated on organizer-facing attendee listings.
	User *User `json:"user,omitempty"`
}

// Active returns true for registrations that still occupy a spot or a
// waitlist position.
func (r Registration) Active() bool {
	return r.Status == StatusRegistered || r.Status == StatusWaitlisted
}
