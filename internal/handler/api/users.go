// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/auth"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// UserResponse represents a user in API responses. The password hash is
// never included.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	ImageURL    string     `json:"imageUrl"`
	HasPassword bool       `json:"hasPassword"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func storeUserToResponse(u store.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		ImageURL:    u.ImageURL,
		HasPassword: u.PasswordHash != "",
		LastLoginAt: util.NullTimeToPtr(u.LastLoginAt),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// UserRequest is the body for creating or updating a user. An empty
// password leaves the current one unchanged; users without a password can
// only sign in with Google.
type UserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin editor viewer"`
	ImageURL string `json:"imageUrl" validate:"max=500"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
}

func (h *Handler) auditUser(r *http.Request, message string, metadata map[string]any) {
	if h.events == nil {
		return
	}
	_ = h.events.LogUserEvent(r.Context(), message, middleware.GetUserIDPtr(r), util.ClientIP(r), r.URL.Path, metadata)
}

// checkUserRequest normalizes the request and checks email uniqueness.
func (h *Handler) checkUserRequest(ctx context.Context, w http.ResponseWriter, req *UserRequest, excludeID int64) bool {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if !validateRequest(w, req) {
		return false
	}

	exists, err := h.queries.UserEmailExists(ctx, req.Email, excludeID)
	if err != nil {
		WriteInternalError(w, "Failed to check email")
		return false
	}
	if exists {
		WriteValidationError(w, map[string]string{"email": "is already registered"})
		return false
	}
	return true
}

// isLastAdmin reports whether u is the only remaining admin.
func (h *Handler) isLastAdmin(ctx context.Context, u store.User) (bool, error) {
	if u.Role != model.RoleAdmin {
		return false, nil
	}
	n, err := h.queries.CountUsersByRole(ctx, model.RoleAdmin)
	if err != nil {
		return false, err
	}
	return n <= 1, nil
}

// ListUsers handles GET /api/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.queries.ListUsers(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list users")
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, storeUserToResponse(u))
	}
	WriteOK(w, out)
}

// GetUser handles GET /api/admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteOK(w, storeUserToResponse(user))
}

// CreateUser handles POST /api/admin/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UserRequest
	if !decodeJSON(w, r, &req) || !h.checkUserRequest(ctx, w, &req, 0) {
		return
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			WriteInternalError(w, "Failed to create user")
			return
		}
	}

	now := h.now()
	user, err := h.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		ImageURL:     req.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create user", "error", err)
		WriteInternalError(w, "Failed to create user")
		return
	}

	h.auditUser(r, "User created", map[string]any{"user_id": user.ID, "email": user.Email, "role": user.Role})
	WriteCreated(w, storeUserToResponse(user))
}

// UpdateUser handles PUT /api/admin/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}

	var req UserRequest
	if !decodeJSON(w, r, &req) || !h.checkUserRequest(ctx, w, &req, existing.ID) {
		return
	}

	if req.Role != existing.Role {
		if existing.ID == middleware.GetUserID(r) {
			WriteValidationError(w, map[string]string{"role": "you cannot change your own role"})
			return
		}
		last, err := h.isLastAdmin(ctx, existing)
		if err != nil {
			WriteInternalError(w, "Failed to update user")
			return
		}
		if last {
			WriteValidationError(w, map[string]string{"role": "at least one admin is required"})
			return
		}
	}

	var hash string
	if req.Password != "" {
		var err error
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err)
			WriteInternalError(w, "Failed to update user")
			return
		}
	}

	now := h.now()
	var user store.User
	err := store.ExecTx(ctx, h.db, func(q *store.Queries) error {
		var err error
		user, err = q.UpdateUser(ctx, store.UpdateUserParams{
			Email:     req.Email,
			Name:      req.Name,
			Role:      req.Role,
			ImageURL:  req.ImageURL,
			UpdatedAt: now,
			ID:        existing.ID,
		})
		if err != nil || hash == "" {
			return err
		}
		user.PasswordHash = hash
		return q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    now,
			ID:           existing.ID,
		})
	})
	if err != nil {
		slog.Error("failed to update user", "error", err, "user_id", existing.ID)
		WriteInternalError(w, "Failed to update user")
		return
	}

	h.auditUser(r, "User updated", map[string]any{
		"user_id":          user.ID,
		"role":             user.Role,
		"password_changed": hash != "",
	})
	WriteOK(w, storeUserToResponse(user))
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := requireEntityByID(w, r, "user", func(id int64) (store.User, error) {
		return h.queries.GetUserByID(ctx, id)
	})
	if !ok {
		return
	}

	if user.ID == middleware.GetUserID(r) {
		WriteBadRequest(w, "You cannot delete your own account")
		return
	}
	last, err := h.isLastAdmin(ctx, user)
	if err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}
	if last {
		WriteBadRequest(w, "Cannot delete the last admin")
		return
	}

	if err := h.queries.DeleteUser(ctx, user.ID); err != nil {
		WriteInternalError(w, "Failed to delete user")
		return
	}

	h.auditUser(r, "User deleted", map[string]any{"user_id": user.ID, "email": user.Email})
	WriteOK(w, map[string]any{"success": true})
}
