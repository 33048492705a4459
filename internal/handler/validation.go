// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/mail"
	"strconv"
	"strings"
)

// minPasswordLength matches the backend's account policy.
const minPasswordLength = 6

// FormErrors collects field-scoped validation messages. Validation runs
// entirely in the frontend before any backend call; a form with errors
// is re-rendered with its values intact.
type FormErrors map[string]string

// HasErrors reports whether any field failed validation.
func (e FormErrors) HasErrors() bool {
	return len(e) > 0
}

// Field returns the message for a field, or "".
func (e FormErrors) Field(name string) string {
	return e[name]
}

// First returns an arbitrary single message, for flows that surface one
// error at a time.
func (e FormErrors) First() string {
	for _, msg := range e {
		return msg
	}
	return ""
}

// validateRequired adds an error when the trimmed value is empty.
func validateRequired(errs FormErrors, field, value, label string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = label + " is required"
	}
}

// validateEmail adds an error when the value is not a plausible address.
// Runs only when the field is non-empty so it composes with validateRequired.
func validateEmail(errs FormErrors, field, value string) {
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		errs[field] = "Enter a valid email address"
	}
}

// validatePassword enforces the minimum length.
func validatePassword(errs FormErrors, field, value string) {
	if value == "" {
		errs[field] = "Password is required"
		return
	}
	if len(value) < minPasswordLength {
		errs[field] = "Password must be at least 6 characters"
	}
}

// validatePasswordConfirmation checks the confirmation matches.
func validatePasswordConfirmation(errs FormErrors, field, password, confirmation string) {
	if confirmation == "" {
		errs[field] = "Please confirm your password"
		return
	}
	if password != confirmation {
		errs[field] = "Passwords do not match"
	}
}

// parseIntField coerces a numeric form field, adding an error when the
// value is present but not a non-negative integer. An empty value yields
// zero without error; required-ness is checked separately.
func parseIntField(errs FormErrors, field, value, label string) int {
	if strings.TrimSpace(value) == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		errs[field] = label + " must be a non-negative number"
		return 0
	}
	return n
}
