// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"omitempty,oneof=draft published"`
}

func TestValidate(t *testing.T) {
	if err := Validate(sample{Name: "Ann"}); err != nil {
		t.Fatalf("valid input: %v", err)
	}

	err := Validate(sample{Name: "Bartholomew", Email: "not-an-email", Status: "gone"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %T, want *ValidationError", err)
	}

	want := map[string]string{
		"name":   "must be at most 5 characters",
		"email":  "must be a valid email address",
		"status": "must be one of: draft, published",
	}
	for field, msg := range want {
		if ve.Fields[field] != msg {
			t.Errorf("Fields[%q] = %q, want %q", field, ve.Fields[field], msg)
		}
	}
	if !strings.HasPrefix(ve.Error(), "validation failed: email") {
		t.Errorf("Error() = %q", ve.Error())
	}
	if !IsValidationError(err) {
		t.Error("IsValidationError = false")
	}
}

func TestValidate_Required(t *testing.T) {
	var ve *ValidationError
	if !errors.As(Validate(sample{}), &ve) {
		t.Fatal("expected validation error")
	}
	if ve.Fields["name"] != "is required" {
		t.Errorf("Fields = %v", ve.Fields)
	}
}
