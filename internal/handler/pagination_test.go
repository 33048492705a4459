// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/url"
	"strings"
	"testing"
)

func TestParsePageParam(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-3", 1},
		{"abc", 1},
		{"7", 7},
	}

	for _, tt := range tests {
		if got := ParsePageParam(tt.in); got != tt.want {
			t.Errorf("ParsePageParam(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildPagination_Basic(t *testing.T) {
	p := BuildPagination(2, 50, 12, "/events", nil)

	if p.TotalPages != 5 {
		t.Errorf("TotalPages = %d; want 5", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Error("page 2 of 5 should have both prev and next")
	}
	if got := p.PageURL(3); got != "/events?page=3" {
		t.Errorf("PageURL(3) = %q; want %q", got, "/events?page=3")
	}
}

func TestBuildPagination_ClampsOutOfRangePage(t *testing.T) {
	p := BuildPagination(99, 30, 12, "/events", nil)

	if p.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d; want 3", p.CurrentPage)
	}
	if p.HasNext {
		t.Error("last page reports a next page")
	}
}

func TestBuildPagination_PreservesFiltersWithoutPage(t *testing.T) {
	params := url.Values{
		"search": {"fest"},
		"status": {"upcoming"},
		"page":   {"2"},
	}
	p := BuildPagination(2, 50, 12, "/events", params)

	u := p.PageURL(3)
	if !strings.Contains(u, "search=fest") || !strings.Contains(u, "status=upcoming") {
		t.Errorf("URL %q lost filter params", u)
	}
	if strings.Count(u, "page=") != 1 {
		t.Errorf("URL %q has a duplicated page param", u)
	}
}

func TestBuildPagination_EllipsisWindow(t *testing.T) {
	p := BuildPagination(10, 240, 12, "/events", nil)

	var hasEllipsis bool
	var first, last int
	for _, page := range p.Pages {
		if page.IsEllipsis {
			hasEllipsis = true
			continue
		}
		if first == 0 {
			first = page.Number
		}
		last = page.Number
	}

	if !hasEllipsis {
		t.Error("window in the middle of 20 pages should have ellipses")
	}
	if first != 1 || last != 20 {
		t.Errorf("page links run %d..%d; want 1..20", first, last)
	}
}

func TestBuildPagination_SinglePage(t *testing.T) {
	p := BuildPagination(1, 5, 12, "/events", nil)

	if p.ShouldShow() {
		t.Error("one page should not show pagination")
	}
	if p.PageRange() != "1-5" {
		t.Errorf("PageRange = %q; want %q", p.PageRange(), "1-5")
	}
}
