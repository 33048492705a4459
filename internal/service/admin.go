// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
)

// AdminService talks to /api/admin. Every endpoint requires the ADMIN
// role; the backend enforces it, the route guard mirrors it.
type AdminService struct {
	client *api.Client
}

// NewAdminService creates an AdminService.
func NewAdminService(client *api.Client) *AdminService {
	return &AdminService{client: client}
}

// UserQuery holds the server-side filter parameters for user listings.
type UserQuery struct {
	Search string
	Role   string
	Page   int
	Limit  int
}

// Values encodes the query as URL parameters.
func (q UserQuery) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Role != "" {
		v.Set("role", q.Role)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users      []model.User `json:"users"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
}

// ListUsers returns a filtered, paginated page of platform users.
func (s *AdminService) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	var out UserPage
	if err := s.client.Get(ctx, "/api/admin/users", q.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account and its registrations.
func (s *AdminService) DeleteUser(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/api/admin/users/"+url.PathEscape(id), nil)
}

// SetUserRole grants a user a different role.
func (s *AdminService) SetUserRole(ctx context.Context, id, role string) (*model.User, error) {
	var out model.User
	body := map[string]string{"role": role}
	if err := s.client.Put(ctx, "/api/admin/users/"+url.PathEscape(id)+"/role", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats are the platform-wide counters on the admin dashboard.
type Stats struct {
	TotalUsers         int `json:"totalUsers"`
	TotalEvents        int `json:"totalEvents"`
	TotalRegistrations int `json:"totalRegistrations"`
	TotalCertificates  int `json:"totalCertificates"`
}

// Stats returns the platform counters.
func (s *AdminService) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := s.client.Get(ctx, "/api/admin/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
