// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records mirrored from the EventFlow
// backend API: User, Event, Registration, and Certificate. The backend
// owns the lifecycle of every record; this application decodes them
// from JSON responses and renders them.
package model

import "time"

// User roles as returned by the backend.
const (
	RoleAdmin     = "ADMIN"
	RoleOrganizer = "ORGANIZER"
	RoleStudent   = "STUDENT"
)

// User represents an EventFlow account.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Department   string    `json:"department,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsOrganizer returns true if the user has the organizer role.
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

// DashboardPath returns the dashboard root for the user's role.
// Unknown roles fall back to the student dashboard.
func (u *User) DashboardPath() string {
	return DashboardPathForRole(u.Role)
}

// DashboardPathForRole maps a role to its dashboard root.
func DashboardPathForRole(role string) string {
	switch role {
	case RoleAdmin:
		return "/dashboard/admin"
	case RoleOrganizer:
		return "/dashboard/organizer"
	default:
		return "/dashboard"
	}
}

// ValidRole reports whether role is one of the roles the backend issues.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleOrganizer, RoleStudent:
		return true
	}
	return false
}
