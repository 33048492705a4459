// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"

	"github.com/eventflow/eventflow-web/internal/api"
	"github.com/eventflow/eventflow-web/internal/model"
)

// CertificatesService talks to /api/certificates. Certificates are
// read-only from the frontend's perspective.
type CertificatesService struct {
	client *api.Client
}

// NewCertificatesService creates a CertificatesService.
func NewCertificatesService(client *api.Client) *CertificatesService {
	return &CertificatesService{client: client}
}

// ListMine returns the signed-in user's certificates with the event
// reference expanded.
func (s *CertificatesService) ListMine(ctx context.Context) ([]model.Certificate, error) {
	var out struct {
		Certificates []model.Certificate `json:"certificates"`
	}
	if err := s.client.Get(ctx, "/api/certificates/me", nil, &out); err != nil {
		return nil, err
	}
	return out.Certificates, nil
}
