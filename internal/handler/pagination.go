// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Pagination holds pagination data for list templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []PaginationPage
	BaseURL     string
	QueryString string
}

// PaginationPage represents a single page link.
type PaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// ParsePageParam parses a page query parameter, defaulting to 1.
func ParsePageParam(s string) int {
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// BuildPagination creates pagination data for list templates.
// baseURL is the path without query string (e.g., "/events");
// queryParams are the current query parameters to preserve (filters).
func BuildPagination(currentPage, totalItems, perPage int, baseURL string, queryParams url.Values) Pagination {
	totalPages := (totalItems + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	pagination := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		BaseURL:     baseURL,
	}

	// Build query string without page parameter
	if queryParams != nil {
		params := make(url.Values)
		for k, v := range queryParams {
			if k != "page" && len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if len(params) > 0 {
			pagination.QueryString = params.Encode()
		}
	}

	buildURL := func(page int) string {
		if pagination.QueryString != "" {
			return fmt.Sprintf("%s?%s&page=%d", baseURL, pagination.QueryString, page)
		}
		return fmt.Sprintf("%s?page=%d", baseURL, page)
	}

	// Show max 5 pages around current with ellipsis
	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		pagination.Pages = append(pagination.Pages, PaginationPage{
			Number: 1,
			URL:    buildURL(1),
		})
		if start > 2 {
			pagination.Pages = append(pagination.Pages, PaginationPage{IsEllipsis: true})
		}
	}

	for i := start; i <= end; i++ {
		pagination.Pages = append(pagination.Pages, PaginationPage{
			Number:    i,
			URL:       buildURL(i),
			IsCurrent: i == currentPage,
		})
	}

	if end < totalPages {
		if end < totalPages-1 {
			pagination.Pages = append(pagination.Pages, PaginationPage{IsEllipsis: true})
		}
		pagination.Pages = append(pagination.Pages, PaginationPage{
			Number: totalPages,
			URL:    buildURL(totalPages),
		})
	}

	return pagination
}

// PageURL returns the URL for a specific page number.
func (p Pagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL for the previous page.
func (p Pagination) PrevURL() string {
	return p.PageURL(p.PrevPage)
}

// NextURL returns the URL for the next page.
func (p Pagination) NextURL() string {
	return p.PageURL(p.NextPage)
}

// ShouldShow returns true if pagination should be displayed (more than 1 page).
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// PageRange returns a description of the current page range.
func (p Pagination) PageRange() string {
	start := (p.CurrentPage-1)*p.PerPage + 1
	end := p.CurrentPage * p.PerPage
	if end > p.TotalItems {
		end = p.TotalItems
	}
	if start > end {
		start = end
	}
	return strings.TrimSpace(fmt.Sprintf("%d-%d", start, end))
}
