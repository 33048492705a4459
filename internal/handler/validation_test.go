// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import "testing"

func TestValidateRequired(t *testing.T) {
	errs := FormErrors{}
	validateRequired(errs, "title", "  ", "Title")
	validateRequired(errs, "location", "Hall A", "Location")

	if !errs.HasErrors() {
		t.Fatal("expected an error for the blank field")
	}
	if errs.Field("title") == "" {
		t.Error("no error recorded for title")
	}
	if errs.Field("location") != "" {
		t.Errorf("unexpected error for location: %q", errs.Field("location"))
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"pat@example.edu", false},
		{"Pat Doe <pat@example.edu>", false},
		{"not-an-email", true},
		{"", false}, // composes with validateRequired
	}

	for _, tt := range tests {
		errs := FormErrors{}
		validateEmail(errs, "email", tt.value)
		if got := errs.HasErrors(); got != tt.wantErr {
			t.Errorf("validateEmail(%q) error = %v; want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", true},
		{"abc12", true},
		{"abc123", false},
		{"a much longer passphrase", false},
	}

	for _, tt := range tests {
		errs := FormErrors{}
		validatePassword(errs, "password", tt.value)
		if got := errs.HasErrors(); got != tt.wantErr {
			t.Errorf("validatePassword(%q) error = %v; want %v", tt.value, got, tt.wantErr)
		}
	}
}

func TestValidatePasswordConfirmation(t *testing.T) {
	errs := FormErrors{}
	validatePasswordConfirmation(errs, "confirmPassword", "secret123", "secret123")
	if errs.HasErrors() {
		t.Errorf("matching confirmation flagged: %v", errs)
	}

	errs = FormErrors{}
	validatePasswordConfirmation(errs, "confirmPassword", "secret123", "secret124")
	if !errs.HasErrors() {
		t.Error("mismatched confirmation not flagged")
	}
}

func TestParseIntField(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"30", 30, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		errs := FormErrors{}
		got := parseIntField(errs, "maxParticipants", tt.value, "Maximum participants")
		if got != tt.want {
			t.Errorf("parseIntField(%q) = %d; want %d", tt.value, got, tt.want)
		}
		if errs.HasErrors() != tt.wantErr {
			t.Errorf("parseIntField(%q) error = %v; want %v", tt.value, errs.HasErrors(), tt.wantErr)
		}
	}
}

func TestFormErrorsFirst(t *testing.T) {
	errs := FormErrors{}
	if errs.First() != "" {
		t.Errorf("First on empty = %q; want empty", errs.First())
	}
	errs["email"] = "Email is required"
	if errs.First() != "Email is required" {
		t.Errorf("First = %q; want the recorded message", errs.First())
	}
}
