// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/eventflow/eventflow-web/internal/listview"
	"github.com/eventflow/eventflow-web/internal/middleware"
	"github.com/eventflow/eventflow-web/internal/model"
	"github.com/eventflow/eventflow-web/internal/render"
	"github.com/eventflow/eventflow-web/internal/service"
	"github.com/eventflow/eventflow-web/internal/session"
)

const certificatesPerPage = 10

// CertificatesHandler lists the signed-in user's certificates.
type CertificatesHandler struct {
	certificates *service.CertificatesService
	renderer     *render.Renderer
	sessions     *session.Manager
}

// NewCertificatesHandler creates a new CertificatesHandler.
func NewCertificatesHandler(certificates *service.CertificatesService, renderer *render.Renderer, sm *session.Manager) *CertificatesHandler {
	return &CertificatesHandler{
		certificates: certificates,
		renderer:     renderer,
		sessions:     sm,
	}
}

// CertificateListData is the template payload for "my certificates".
type CertificateListData struct {
	Page  listview.Page[model.Certificate]
	Query listview.Query
}

// List renders the user's certificates, searchable by event title.
// Download links point at the backend-hosted PDFs.
func (h *CertificatesHandler) List(w http.ResponseWriter, r *http.Request) {
	certs, err := h.certificates.ListMine(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, redirectDashboard, "Could not load your certificates")
		return
	}

	m := listview.New(listview.Config[model.Certificate]{
		Match: func(c model.Certificate, q listview.Query) bool {
			if q.Search == "" {
				return true
			}
			return c.Event != nil && strings.Contains(strings.ToLower(c.Event.Title), strings.ToLower(q.Search))
		},
		Sorts: map[string]func(a, b model.Certificate) bool{
			"issued": func(a, b model.Certificate) bool {
				return a.IssuedDate.After(b.IssuedDate)
			},
		},
		PerPage: certificatesPerPage,
	})
	m.Replace(certs)

	q := listview.Query{
		Search: r.URL.Query().Get("search"),
		Sort:   "issued",
	}
	m.SetQuery(q)
	m.SetPage(ParsePageParam(r.URL.Query().Get("page")))

	data := CertificateListData{Page: m.Current(), Query: q}
	if err := h.renderer.Render(w, r, "pages/certificates", render.TemplateData{
		Title: "My Certificates",
		Data:  data,
		User:  middleware.GetUser(r),
	}); err != nil {
		logAndInternalError(w, "failed to render page", "template", "pages/certificates", "error", err)
	}
}
