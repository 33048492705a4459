// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a backend call failure into a closed set so that
// callers pattern-match on it instead of probing unknown error shapes.
type Kind string

// Error kinds.
const (
	KindNetwork      Kind = "network"
	KindBadRequest   Kind = "bad_request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindServer       Kind = "server"
)

// Error is the normalized form of any failed backend call. Every error
// returned by the client is either a *Error or wraps one.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // server-provided message, else a generic fallback
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("eventflow api: %s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("eventflow api: %s: %s", e.Kind, e.Message)
}

// Is matches two api errors by kind, so errors.Is(err, ErrUnauthorized)
// works for any 401 regardless of the message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is matching by kind.
var (
	ErrUnauthorized = &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: "authentication required"}
	ErrNotFound     = &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: "not found"}
)

// kindForStatus maps an HTTP status code to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 400 && status < 500:
		return KindBadRequest
	default:
		return KindServer
	}
}

// Message extracts a human-readable message from any error. Backend
// messages pass through; anything else gets the generic fallback.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
