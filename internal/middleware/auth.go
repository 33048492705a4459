// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/auth/login"

// RequireAuth creates middleware that requires an authenticated session.
// Requests without a backend token are redirected to the login page.
func RequireAuth(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.Token(r.Context()) == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request
// context. The cached session copy is used when present; otherwise the user
// is fetched from the backend and cached. A rejected token clears the session
// and redirects to login. This should be used after RequireAuth.
func LoadUser(sm *session.Manager, auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.Token(r.Context()) == "" {
				next.ServeHTTP(w, r)
				return
			}

			user := sm.User(r.Context())
			if user == nil {
				fetched, err := auth.Me(r.Context())
				if err != nil {
					// The backend no longer accepts this token.
					_ = sm.Clear(r.Context())
					if !errors.Is(err, api.ErrUnauthorized) {
						slog.Error("failed to load current user", "error", err)
					}
					http.Redirect(w, r, LoginPath, http.StatusSeeOther)
					return
				}
				if err := sm.SetUser(r.Context(), fetched); err != nil {
					slog.Error("failed to cache user in session", "error", err)
				}
				user = fetched
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser creates middleware that loads the current user into
// context when a session exists, without requiring one. Use this for public
// routes where the header changes for signed-in visitors.
func OptionalLoadUser(sm *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := sm.User(r.Context())
			if user == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, *user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or "" if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// RequireRoles creates middleware that restricts a route to the given roles.
// Users whose role is not in the list are sent to their own dashboard, so an
// organizer opening an admin URL lands on the organizer dashboard instead of
// an error page. This should be used after LoadUser.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			if !allowed[user.Role] {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"remote_addr", r.RemoteAddr,
				)
				http.Redirect(w, r, user.DashboardPath(), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin creates middleware that requires the ADMIN role.
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRoles(model.RoleAdmin)
}

// RequireOrganizer creates middleware that requires the ORGANIZER role.
func RequireOrganizer() func(http.Handler) http.Handler {
	return RequireRoles(model.RoleOrganizer)
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
