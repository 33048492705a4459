// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that annotates log
// records with request-scoped data such as the URL path.
package logging

import (
	"context"
	"log/slog"

	"github.com/eventflow/eventflow-web/internal/middleware"
)

// ContextHandler is a slog.Handler that wraps another handler and adds
// the request path from the context to WARN and ERROR records, so an
// error in the backend client can be traced to the page that caused it.
type ContextHandler struct {
	inner slog.Handler
	level slog.Level // Minimum level to annotate (default: WARN)
}

// NewContextHandler creates a ContextHandler that wraps the given handler.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{
		inner: inner,
		level: slog.LevelWarn,
	}
}

// NewContextHandlerWithLevel creates a ContextHandler with a custom minimum level.
func NewContextHandlerWithLevel(inner slog.Handler, level slog.Level) *ContextHandler {
	return &ContextHandler{
		inner: inner,
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		if path := middleware.GetRequestPath(ctx); path != "" && !hasAttr(r, "path") {
			r = r.Clone()
			r.AddAttrs(slog.String("path", path))
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		inner: h.inner.WithAttrs(attrs),
		level: h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{
		inner: h.inner.WithGroup(name),
		level: h.level,
	}
}

// hasAttr reports whether the record already carries the given key, so a
// handler-supplied path is never overwritten.
func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}

// ParseLevel maps a config string to a slog.Level, defaulting to INFO.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
