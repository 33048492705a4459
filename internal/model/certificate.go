// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Certificate represents an issued participation certificate.
// Certificates are generated by the backend; the frontend only lists
// them and links to the hosted PDF.
type Certificate struct {
	ID             string    `json:"_id"`
	UserID         string    `json:"userId"`
	EventID        string    `json:"eventId"`
	RegistrationID string    `json:"registrationId"`
	PDFURL         string    `json:"pdfUrl"`
	IssuedDate     time.Time `json:"issuedDate"`

	Event *Event `json:"event,omitempty"`
}
