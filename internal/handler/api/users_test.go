// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/auth"
	"github.com/sanctuary-web/sanctuary/internal/model"
)

func TestCreateUser(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleAdmin, http.MethodPost, "/api/admin/users", map[string]any{
		"email":    "  Deacon@Example.com ",
		"name":     "Deacon Dave",
		"role":     model.RoleEditor,
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decodeAs[UserResponse](t, rr)
	assert.Equal(t, "deacon@example.com", created.Email)
	assert.True(t, created.HasPassword)
	assert.NotContains(t, rr.Body.String(), "passwordHash")

	stored, err := f.queries.GetUserByID(context.Background(), created.ID)
	require.NoError(t, err)
	ok, err := auth.CheckPassword("correct horse battery", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateUser_Rejections(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"duplicate email", map[string]any{"email": "EDITOR@example.com", "name": "Dup", "role": model.RoleViewer}, "email"},
		{"short password", map[string]any{"email": "a@example.com", "name": "A", "role": model.RoleViewer, "password": "short"}, "password"},
		{"unknown role", map[string]any{"email": "b@example.com", "name": "B", "role": "pastor"}, "role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, model.RoleAdmin, http.MethodPost, "/api/admin/users", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeAs[ErrorResponse](t, rr).Fields, tt.field)
		})
	}

	n, err := f.queries.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestUpdateUser(t *testing.T) {
	f := newAPIFixture(t)
	viewer := f.users[model.RoleViewer]
	path := fmt.Sprintf("/api/admin/users/%d", viewer.ID)

	rr := f.do(t, model.RoleAdmin, http.MethodPut, path, map[string]any{
		"email": viewer.Email,
		"name":  "Promoted",
		"role":  model.RoleEditor,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeAs[UserResponse](t, rr)
	assert.Equal(t, model.RoleEditor, updated.Role)
	assert.Equal(t, "Promoted", updated.Name)

	stored, err := f.queries.GetUserByID(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, viewer.PasswordHash, stored.PasswordHash, "empty password keeps the current one")
}

func TestUpdateUser_OwnRole(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.users[model.RoleAdmin]

	rr := f.do(t, model.RoleAdmin, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", admin.ID), map[string]any{
		"email": admin.Email,
		"name":  admin.Name,
		"role":  model.RoleViewer,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "you cannot change your own role", decodeAs[ErrorResponse](t, rr).Fields["role"])
}

func TestDeleteUser(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleAdmin, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", f.users[model.RoleAdmin].ID), nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "You cannot delete your own account", decodeAs[ErrorResponse](t, rr).Error)

	rr = f.do(t, model.RoleAdmin, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", f.users[model.RoleViewer].ID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, model.RoleAdmin, http.MethodGet, "/api/admin/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeAs[[]UserResponse](t, rr), 2)
}
