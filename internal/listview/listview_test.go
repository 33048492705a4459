// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listview

import (
	"strings"
	"testing"
	"time"

	"github.com/eventflow/eventflow-web/internal/model"
)

type record struct {
	ID       string
	Name     string
	Category string
}

func testModel(perPage int) *Model[record] {
	return New(Config[record]{
		Match: func(item record, q Query) bool {
			if q.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(q.Search)) {
				return false
			}
			if c := q.Filter("category"); c != "" && item.Category != c {
				return false
			}
			return true
		},
		Sorts: map[string]func(a, b record) bool{
			"name": func(a, b record) bool { return a.Name < b.Name },
		},
		PerPage: perPage,
	})
}

func sampleRecords() []record {
	return []record{
		{ID: "1", Name: "Robotics Workshop", Category: "technical"},
		{ID: "2", Name: "Annual Concert", Category: "cultural"},
		{ID: "3", Name: "Hackathon", Category: "technical"},
		{ID: "4", Name: "Poetry Evening", Category: "cultural"},
		{ID: "5", Name: "Chess Open", Category: "sports"},
	}
}

func ids(items []record) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterAndSort(t *testing.T) {
	m := testModel(10)
	m.Replace(sampleRecords())

	m.SetQuery(Query{Filters: map[string]string{"category": "technical"}, Sort: "name"})
	page := m.Current()

	if !equalIDs(ids(page.Items), []string{"3", "1"}) {
		t.Errorf("items = %v, want [3 1]", ids(page.Items))
	}
	if page.Total != 2 {
		t.Errorf("Total = %d, want 2", page.Total)
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	m := testModel(10)
	m.Replace(sampleRecords())

	m.SetQuery(Query{Search: "HACK"})
	page := m.Current()

	if !equalIDs(ids(page.Items), []string{"3"}) {
		t.Errorf("items = %v, want [3]", ids(page.Items))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	m := testModel(10)
	m.Replace(sampleRecords())

	q := Query{Filters: map[string]string{"category": "cultural"}, Sort: "name"}
	m.SetQuery(q)
	first := m.Current()

	// Reapplying the same query and re-rendering must not accumulate state.
	m.SetQuery(q)
	second := m.Current()
	third := m.Current()

	if !equalIDs(ids(first.Items), ids(second.Items)) || !equalIDs(ids(second.Items), ids(third.Items)) {
		t.Errorf("repeated renders differ: %v, %v, %v", ids(first.Items), ids(second.Items), ids(third.Items))
	}
	if m.Len() != 5 {
		t.Errorf("raw item count = %d, want 5", m.Len())
	}
}

func TestQueryChangeResetsPage(t *testing.T) {
	m := testModel(2)
	m.Replace(sampleRecords())

	m.SetPage(3)
	if got := m.Current().Number; got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}

	m.SetQuery(Query{Search: ""})
	if got := m.Current().Number; got != 1 {
		t.Errorf("page after query change = %d, want 1", got)
	}
}

func TestPagination(t *testing.T) {
	m := testModel(2)
	m.Replace(sampleRecords())

	tests := []struct {
		page       int
		wantIDs    []string
		wantNumber int
	}{
		{1, []string{"1", "2"}, 1},
		{2, []string{"3", "4"}, 2},
		{3, []string{"5"}, 3},
		{99, []string{"5"}, 3}, // clamped to last page
	}

	for _, tt := range tests {
		m.SetPage(tt.page)
		got := m.Current()
		if got.Number != tt.wantNumber {
			t.Errorf("SetPage(%d): Number = %d, want %d", tt.page, got.Number, tt.wantNumber)
		}
		if !equalIDs(ids(got.Items), tt.wantIDs) {
			t.Errorf("SetPage(%d): items = %v, want %v", tt.page, ids(got.Items), tt.wantIDs)
		}
		if got.TotalPages != 3 {
			t.Errorf("SetPage(%d): TotalPages = %d, want 3", tt.page, got.TotalPages)
		}
	}
}

func TestPageNavigation(t *testing.T) {
	m := testModel(2)
	m.Replace(sampleRecords())

	m.SetPage(1)
	p := m.Current()
	if p.HasPrev() {
		t.Error("HasPrev() = true on first page")
	}
	if !p.HasNext() {
		t.Error("HasNext() = false with more pages")
	}

	m.SetPage(3)
	p = m.Current()
	if !p.HasPrev() {
		t.Error("HasPrev() = false on last page")
	}
	if p.HasNext() {
		t.Error("HasNext() = true on last page")
	}
}

func TestRemoveFirstDeletesExactlyOne(t *testing.T) {
	m := testModel(10)
	m.Replace([]record{
		{ID: "1", Category: "technical"},
		{ID: "2", Category: "technical"},
		{ID: "3", Category: "technical"},
	})

	removed := m.RemoveFirst(func(r record) bool { return r.Category == "technical" })
	if !removed {
		t.Fatal("RemoveFirst() = false, want true")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}

	page := m.Current()
	if !equalIDs(ids(page.Items), []string{"2", "3"}) {
		t.Errorf("items = %v, want [2 3]", ids(page.Items))
	}

	if m.RemoveFirst(func(r record) bool { return r.ID == "missing" }) {
		t.Error("RemoveFirst() = true for no match")
	}
	if m.Len() != 2 {
		t.Errorf("Len() after no-op = %d, want 2", m.Len())
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	m := testModel(10)

	slow := m.Begin()
	fast := m.Begin()

	if !m.Complete(fast, []record{{ID: "fresh"}}) {
		t.Fatal("latest fetch was discarded")
	}
	if m.Complete(slow, []record{{ID: "stale"}}) {
		t.Error("stale fetch was applied")
	}

	page := m.Current()
	if !equalIDs(ids(page.Items), []string{"fresh"}) {
		t.Errorf("items = %v, want [fresh]", ids(page.Items))
	}
}

// Phase filtering over events partitions the collection: every event is
// upcoming, ongoing, or past, and no event is in two buckets.
func TestEventPhaseFilterPartition(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: "up1", StartDateTime: now.Add(time.Hour), EndDateTime: now.Add(2 * time.Hour)},
		{ID: "up2", StartDateTime: now.Add(24 * time.Hour), EndDateTime: now.Add(26 * time.Hour)},
		{ID: "on1", StartDateTime: now.Add(-time.Hour), EndDateTime: now.Add(time.Hour)},
		{ID: "past1", StartDateTime: now.Add(-3 * time.Hour), EndDateTime: now.Add(-2 * time.Hour)},
	}

	m := New(Config[model.Event]{
		Match: func(e model.Event, q Query) bool {
			if phase := q.Filter("phase"); phase != "" {
				return e.Phase(now) == phase
			}
			return true
		},
		PerPage: 10,
	})
	m.Replace(events)

	counts := map[string][]string{}
	for _, phase := range []string{"upcoming", "ongoing", "past"} {
		m.SetQuery(Query{Filters: map[string]string{"phase": phase}})
		for _, e := range m.Current().Items {
			counts[phase] = append(counts[phase], e.ID)
		}
	}

	total := len(counts["upcoming"]) + len(counts["ongoing"]) + len(counts["past"])
	if total != len(events) {
		t.Errorf("phase buckets cover %d events, want %d", total, len(events))
	}

	seen := map[string]bool{}
	for phase, bucket := range counts {
		for _, id := range bucket {
			if seen[id] {
				t.Errorf("event %s appears in more than one phase bucket (%s)", id, phase)
			}
			seen[id] = true
		}
	}

	if !equalIDs(counts["upcoming"], []string{"up1", "up2"}) {
		t.Errorf("upcoming = %v, want [up1 up2]", counts["upcoming"])
	}
	if !equalIDs(counts["past"], []string{"past1"}) {
		t.Errorf("past = %v, want [past1]", counts["past"])
	}
}
