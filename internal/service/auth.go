// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service exposes one service per backend resource. Methods map
// one-to-one onto REST endpoints and return decoded JSON verbatim: no
// retries, no caching, no response-shape validation beyond decoding.
package service

import (
	"context"
	"net/url"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
)

// AuthService talks to /api/auth.
type AuthService struct {
	client *api.Client
}

// NewAuthService creates an AuthService.
func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// AuthResponse is the backend's reply to login and register.
type AuthResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// RegisterInput is the payload for account creation. The backend
// assigns the STUDENT role; elevated roles are granted by admins.
type RegisterInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department,omitempty"`
}

// Login exchanges credentials for a token and the user record.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := s.client.Post(ctx, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := s.client.Post(ctx, "/api/auth/register", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the current token belongs to. A 401 here means
// the stored session is stale and must be cleared.
func (s *AuthService) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := s.client.Get(ctx, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword asks the backend to send a reset email. The backend
// answers success whether or not the address exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.client.Post(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using an emailed reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	path := "/api/auth/reset-password/" + url.PathEscape(token)
	return s.client.Post(ctx, path, map[string]string{"password": password}, nil)
}

// UpdateProfileInput is the payload for profile edits.
type UpdateProfileInput struct {
	Name         string `json:"name"`
	Department   string `json:"department,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// UpdateProfile changes the signed-in user's profile fields and returns
// the updated record.
func (s *AuthService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*model.User, error) {
	var out model.User
	if err := s.client.Put(ctx, "/api/auth/me", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
