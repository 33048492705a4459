// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
)

func TestEventsService_GetDecodesEvent(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/events/e42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"_id": "e42",
			"title": "Intro to Distributed Systems",
			"description": "## Agenda\n\nConsensus, clocks, failure.",
			"startDateTime": "2026-10-01T14:00:00Z",
			"endDateTime": "2026-10-01T16:00:00Z",
			"location": "Hall B",
			"organizerId": "u7",
			"department": "CS",
			"category": "workshop",
			"maxParticipants": 30,
			"registrationCount": 30
		}`))
	}))

	event, err := NewEventsService(client).Get(context.Background(), "e42")
	require.NoError(t, err)

	assert.Equal(t, "e42", event.ID)
	assert.Equal(t, "Intro to Distributed Systems", event.Title)
	assert.Equal(t, "Hall B", event.Location)
	assert.Equal(t, "u7", event.OrganizerID)
	assert.Equal(t, 30, event.MaxParticipants)
	assert.True(t, event.IsFull())
	assert.Equal(t, 0, event.SpotsLeft())
	assert.Equal(t,
		time.Date(2026, 10, 1, 14, 0, 0, 0, time.UTC),
		event.StartDateTime.UTC(),
	)
	assert.Equal(t, model.PhaseUpcoming, event.Phase(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, model.PhasePast, event.Phase(time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)))
}

func TestEventsService_GetNotFound(t *testing.T) {
	client := newBackend(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Event not found"}`))
	}))

	event, err := NewEventsService(client).Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Nil(t, event)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Equal(t, "Event not found", api.Message(err, ""))
}
