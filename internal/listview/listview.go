// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package listview implements a reusable view model for filtered, sorted,
// paginated collections fetched from the backend. One abstraction serves
// every list page: it is parameterized by a match function and a set of
// sort comparators, so pages do not duplicate bespoke filter logic.
//
// Collections small enough to fetch whole (a user's registrations or
// certificates) are filtered in memory here; large collections (the event
// catalog, the admin user list) are filtered server-side and only paged
// through this model.
package listview

import (
	"sort"
	"sync"
)

// Query captures the user-visible list controls.
type Query struct {
	// Search is a free-text needle matched by the model's Match function.
	Search string
	// Filters are categorical filters keyed by name (department, category,
	// status). An empty value means the filter is off.
	Filters map[string]string
	// Sort names a comparator registered in Config.Sorts.
	Sort string
}

// Filter returns the named categorical filter value, or "".
func (q Query) Filter(name string) string {
	if q.Filters == nil {
		return ""
	}
	return q.Filters[name]
}

// Config parameterizes a Model for one record type.
type Config[T any] struct {
	// Match reports whether an item passes the query's search text and
	// categorical filters. A nil Match passes everything.
	Match func(item T, q Query) bool

	// Sorts maps sort keys to comparators. An unknown or empty sort key
	// keeps the fetched order.
	Sorts map[string]func(a, b T) bool

	// PerPage is the page size. Defaults to 10.
	PerPage int
}

// Page is one rendered page of the collection.
type Page[T any] struct {
	Items      []T
	Number     int // 1-based
	TotalPages int
	Total      int // items after filtering, before paging
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// Model holds the fetched items and the current query. The visible page is
// always recomputed from the raw items, so reapplying the same query yields
// the same result. Safe for concurrent use.
type Model[T any] struct {
	cfg Config[T]

	mu     sync.Mutex
	issued uint64 // latest fetch sequence handed out
	items  []T
	query  Query
	page   int
}

// New creates a list view model.
func New[T any](cfg Config[T]) *Model[T] {
	if cfg.PerPage <= 0 {
		cfg.PerPage = 10
	}
	return &Model[T]{cfg: cfg, page: 1}
}

// Begin issues a sequence number for a fetch. Pass it to Complete with the
// fetched items; only the most recently issued fetch is applied, so a slow
// stale response cannot overwrite fresher state.
//
// Begin/Complete are for callers that keep one model alive across
// overlapping fetches. The page handlers build a model per request and
// fetch synchronously, so they use Replace instead.
func (m *Model[T]) Begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued++
	return m.issued
}

// Complete stores the fetched items if seq is still the latest issued
// sequence. Returns false when the response was stale and discarded.
func (m *Model[T]) Complete(seq uint64, items []T) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.issued {
		return false
	}
	m.items = items
	return true
}

// Replace stores items unconditionally. Useful when the caller did not
// race fetches, e.g. a fetch performed inside a single request handler.
func (m *Model[T]) Replace(items []T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

// SetQuery replaces the query and resets to the first page.
func (m *Model[T]) SetQuery(q Query) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.query = q
	m.page = 1
}

// Query returns the current query.
func (m *Model[T]) Query() Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.query
}

// SetPage moves to the given 1-based page. Out-of-range values are clamped
// when the page is rendered.
func (m *Model[T]) SetPage(page int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if page < 1 {
		page = 1
	}
	m.page = page
}

// RemoveFirst deletes the first item matching pred from the raw collection.
// Returns true if an item was removed. Exactly one item is removed even if
// several match.
func (m *Model[T]) RemoveFirst(pred func(T) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, item := range m.items {
		if pred(item) {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the raw item count.
func (m *Model[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Current computes the visible page: filter, sort, then paginate. The raw
// items are never mutated, so calling Current repeatedly with the same
// query returns the same page.
func (m *Model[T]) Current() Page[T] {
	m.mu.Lock()
	items := m.items
	q := m.query
	page := m.page
	m.mu.Unlock()

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if m.cfg.Match == nil || m.cfg.Match(item, q) {
			filtered = append(filtered, item)
		}
	}

	if less, ok := m.cfg.Sorts[q.Sort]; ok && less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return less(filtered[i], filtered[j])
		})
	}

	total := len(filtered)
	totalPages := (total + m.cfg.PerPage - 1) / m.cfg.PerPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * m.cfg.PerPage
	end := start + m.cfg.PerPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      filtered[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}
