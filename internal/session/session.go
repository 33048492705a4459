// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session owns the browser session: the backend bearer token
// and a cached copy of the signed-in user. It is the single write path
// for authentication state; everything else reads through the typed
// accessors. The lifecycle is two operations: SetAuth on login and
// Clear on logout or backend 401.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"

	"github.com/eventflow/eventflow-web/internal/model"
)

// Session keys for authentication state.
const (
	keyToken = "token"
	keyUser  = "user"
)

// Manager wraps scs with typed access to the authentication state.
type Manager struct {
	*scs.SessionManager
}

// New creates a session manager backed by the given SQLite database.
func New(db *sql.DB, isDev bool) *Manager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	configure(sm, isDev)
	return &Manager{sm}
}

// NewRedis creates a session manager backed by Redis, for deployments
// running more than one frontend instance.
func NewRedis(client *redis.Client, isDev bool) *Manager {
	sm := scs.New()
	sm.Store = goredisstore.New(client)
	configure(sm, isDev)
	return &Manager{sm}
}

// NewMemory creates a session manager with the in-memory store.
// Intended for tests.
func NewMemory() *Manager {
	sm := scs.New()
	configure(sm, true)
	return &Manager{sm}
}

func configure(sm *scs.SessionManager, isDev bool) {
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
}

// OpenSQLiteStore opens (creating if needed) the SQLite database that
// holds session records. This is the only table the frontend owns; all
// business data lives behind the backend API.
func OpenSQLiteStore(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening session database: %w", err)
	}
	const schema = `
		CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating sessions table: %w", err)
	}
	return db, nil
}

// SetAuth stores the bearer token and user after a successful login or
// registration. The session ID is regenerated to prevent fixation.
func (m *Manager) SetAuth(ctx context.Context, token string, user *model.User) error {
	if err := m.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	m.Put(ctx, keyToken, token)
	return m.SetUser(ctx, user)
}

// SetUser refreshes the cached user record, e.g. after a profile update
// or a rehydration against the current-user endpoint.
func (m *Manager) SetUser(ctx context.Context, user *model.User) error {
	if user == nil {
		m.Remove(ctx, keyUser)
		return nil
	}
	buf, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}
	m.Put(ctx, keyUser, string(buf))
	return nil
}

// Token returns the stored bearer token, or "" when signed out.
func (m *Manager) Token(ctx context.Context) string {
	return m.GetString(ctx, keyToken)
}

// User returns the cached user, or nil when signed out or undecodable.
func (m *Manager) User(ctx context.Context) *model.User {
	raw := m.GetString(ctx, keyUser)
	if raw == "" {
		return nil
	}
	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// IsAuthenticated reports whether a token is present. The token is
// opaque; its validity is only known after a backend call.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	return m.Token(ctx) != ""
}

// Clear destroys the session: used on logout and whenever the backend
// answers 401, mirroring the single-teardown rule for auth state.
func (m *Manager) Clear(ctx context.Context) error {
	return m.Destroy(ctx)
}
