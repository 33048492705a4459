// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api is the HTTP client for the EventFlow backend. It attaches
// the session's bearer token to every request, tags requests with an
// X-Request-ID for correlation, and normalizes every failure into a
// closed *Error type. It performs no retries and no caching; a failed
// call surfaces to the caller unmodified beyond normalization.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for outbound requests. An empty
// string means the request is sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// TokenSourceFunc adapts a function to the TokenSource interface.
type TokenSourceFunc func(ctx context.Context) string

// Token implements TokenSource.
func (f TokenSourceFunc) Token(ctx context.Context) string { return f(ctx) }

// Client performs JSON requests against the backend base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a Client for the given base URL. tokens may be nil for an
// always-unauthenticated client.
func New(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Get performs a GET request. query may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body. body may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: "could not reach the EventFlow service"}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(method, path, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// maxErrorBody caps how much of an error response is read for a message.
const maxErrorBody = 64 * 1024

// errorFromResponse builds the normalized error for a non-2xx response.
func (c *Client) errorFromResponse(method, path string, resp *http.Response) error {
	apiErr := &Error{
		Kind:   kindForStatus(resp.StatusCode),
		Status: resp.StatusCode,
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			apiErr.Message = envelope.Message
		} else if envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = fallbackMessage(apiErr.Kind)
	}

	if apiErr.Kind == KindServer {
		slog.Error("backend call failed", "method", method, "path", path, "status", resp.StatusCode)
	}
	return apiErr
}

func fallbackMessage(kind Kind) string {
	switch kind {
	case KindUnauthorized:
		return "authentication required"
	case KindForbidden:
		return "you do not have permission to do that"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "the request conflicts with the current state"
	case KindRateLimited:
		return "too many requests, please slow down"
	case KindBadRequest:
		return "the request was invalid"
	default:
		return "something went wrong, please try again"
	}
}
