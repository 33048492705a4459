// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event phases derived from the wall clock at render time. The backend
// stores only the start and end timestamps; the phase is never persisted.
const (
	PhaseUpcoming = "upcoming"
	PhaseOngoing  = "ongoing"
	PhasePast     = "past"
)

// Event represents a campus event as served by the backend.
type Event struct {
	ID                string    `json:"_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"` // markdown
	StartDateTime     time.Time `json:"startDateTime"`
	EndDateTime       time.Time `json:"endDateTime"`
	Location          string    `json:"location"`
	BannerImage       string    `json:"bannerImage,omitempty"`
	OrganizerID       string    `json:"organizerId"`
	Department        string    `json:"department,omitempty"`
	Club              string    `json:"club,omitempty"`
	Category          string    `json:"category,omitempty"`
	MaxParticipants   int       `json:"maxParticipants"`
	RegistrationCount int       `json:"registrationCount"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// Phase returns the event's phase relative to now.
// An event is upcoming strictly before its start, past strictly after
// its end, and ongoing in between (boundaries count as ongoing), so the
// three phases partition any set of events at a fixed instant.
func (e Event) Phase(now time.Time) string {
	switch {
	case e.StartDateTime.After(now):
		return PhaseUpcoming
	case e.EndDateTime.Before(now):
		return PhasePast
	default:
		return PhaseOngoing
	}
}

// IsFull returns true when the registration count has reached capacity.
// A zero MaxParticipants means the backend imposed no capacity.
func (e Event) IsFull() bool {
	return e.MaxParticipants > 0 && e.RegistrationCount >= e.MaxParticipants
}

// SpotsLeft returns the number of open spots, or -1 for uncapped events.
func (e Event) SpotsLeft() int {
	if e.MaxParticipants <= 0 {
		return -1
	}
	left := e.MaxParticipants - e.RegistrationCount
	if left < 0 {
		return 0
	}
	return left
}
