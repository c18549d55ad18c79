// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/sanctuary-web/sanctuary/internal/auth"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/session"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// Frontend pages the OAuth sign-in flow redirects to.
const (
	redirectLogin = "/login"
	redirectAdmin = "/admin"
)

const (
	msgInvalidCredentials = "Invalid email or password"
	maxLoginBodyBytes     = 4 << 10
)

// SessionUser is the signed-in user as returned to the frontend.
type SessionUser struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func toSessionUser(u store.User) SessionUser {
	return SessionUser{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		ImageURL:    u.ImageURL,
		LastLoginAt: util.NullTimeToPtr(u.LastLoginAt),
	}
}

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	queries         *store.Queries
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	google          *auth.GoogleLogin
	autoCreate      bool
}

// NewAuthHandler creates a new AuthHandler. google may be nil when Google
// sign-in is not configured; autoCreate lets unknown Google accounts sign
// in as viewers.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection, google *auth.GoogleLogin, autoCreate bool) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		google:          google,
		autoCreate:      autoCreate,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req, maxLoginBodyBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	ctx := r.Context()
	clientIP := util.ClientIP(r)
	requestURL := r.URL.Path
	meta := map[string]any{"email": email}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login attempt on locked account", nil, clientIP, requestURL, meta)
			writeJSONError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Account temporarily locked. Try again in %s.", formatDuration(remaining)))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.Debug("login attempt for non-existent user", "email", email)
			_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed: user not found", nil, clientIP, requestURL, meta)
		} else {
			slog.Error("database error during login", "error", err)
		}
		// Count attempts for unknown accounts too so responses don't reveal which emails exist
		h.failLogin(w, r, email, nil)
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil && !errors.Is(err, auth.ErrNoPassword) {
		slog.Error("password check error", "error", err, "user_id", user.ID)
	}
	if !valid {
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Login failed: invalid password", &user.ID, clientIP, requestURL, meta)
		h.failLogin(w, r, email, &user.ID)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Upgrade hashes created with older parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now().UTC(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	if err := h.signIn(ctx, &user); err != nil {
		slog.Error("session renewal error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", &user.ID, clientIP, requestURL, meta)

	writeJSON(w, http.StatusOK, map[string]any{"user": toSessionUser(user)})
}

// failLogin records a failed attempt and writes the matching response.
func (h *AuthHandler) failLogin(w http.ResponseWriter, r *http.Request, email string, userID *int64) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", userID,
				util.ClientIP(r), r.URL.Path, map[string]any{"email": email, "duration": lockDuration.String()})
			writeJSONError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(lockDuration)))
			return
		}
		if remaining := h.loginProtection.GetRemainingAttempts(email); remaining <= 3 && remaining > 0 {
			writeJSONError(w, http.StatusUnauthorized,
				fmt.Sprintf("%s. %d attempts remaining before lockout.", msgInvalidCredentials, remaining))
			return
		}
	}
	writeJSONError(w, http.StatusUnauthorized, msgInvalidCredentials)
}

// signIn renews the session token and stores the user in it.
func (h *AuthHandler) signIn(ctx context.Context, user *store.User) error {
	now := time.Now().UTC()
	if err := h.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		// Don't block sign-in on this
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
	} else {
		user.LastLoginAt = sql.NullTime{Time: now, Valid: true}
	}

	// New token on privilege change prevents session fixation
	if err := h.sessionManager.RenewToken(ctx); err != nil {
		return err
	}
	h.sessionManager.Put(ctx, session.KeyUserID, user.ID)
	return nil
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), session.KeyUserID)
	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", &userID, util.ClientIP(r), r.URL.Path, nil)
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	writeJSONSuccess(w, nil)
}

// Session handles GET /api/auth/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, middleware.MsgNotAuthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toSessionUser(*user)})
}

// GoogleStart handles GET /api/auth/google.
func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.google == nil || !h.google.Enabled() {
		writeJSONError(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}

	state := auth.NewState()
	h.sessionManager.Put(r.Context(), session.KeyOAuthState, state)
	http.Redirect(w, r, h.google.AuthURL(state), http.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	clientIP := util.ClientIP(r)

	if h.google == nil || !h.google.Enabled() {
		redirectLoginError(w, r, "not_configured")
		return
	}

	expected := h.sessionManager.PopString(ctx, session.KeyOAuthState)
	if expected == "" || q.Get("state") != expected {
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Google sign-in rejected: state mismatch", nil, clientIP, r.URL.Path, nil)
		redirectLoginError(w, r, "invalid_state")
		return
	}
	if providerErr := q.Get("error"); providerErr != "" {
		redirectLoginError(w, r, providerErr)
		return
	}

	identity, err := h.google.Exchange(ctx, q.Get("code"))
	if err != nil {
		slog.Error("google sign-in failed", "error", err)
		redirectLoginError(w, r, "exchange_failed")
		return
	}

	user, err := h.queries.GetUserByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, sql.ErrNoRows) && h.autoCreate:
		now := time.Now().UTC()
		name := identity.Name
		if name == "" {
			name = identity.Email
		}
		user, err = h.queries.CreateUser(ctx, store.CreateUserParams{
			Email:     identity.Email,
			Name:      name,
			Role:      model.RoleViewer,
			ImageURL:  identity.Picture,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			slog.Error("creating google user", "error", err, "email", identity.Email)
			redirectLoginError(w, r, "server_error")
			return
		}
		_ = h.eventService.LogUserEvent(ctx, "User created from Google sign-in", &user.ID, clientIP, r.URL.Path,
			map[string]any{"email": user.Email, "role": user.Role})
	case errors.Is(err, sql.ErrNoRows):
		_ = h.eventService.LogAuthEvent(ctx, model.EventLevelWarning, "Google sign-in rejected: unknown account", nil, clientIP, r.URL.Path,
			map[string]any{"email": identity.Email})
		redirectLoginError(w, r, "not_registered")
		return
	case err != nil:
		slog.Error("database error during google sign-in", "error", err)
		redirectLoginError(w, r, "server_error")
		return
	}

	if err := h.signIn(ctx, &user); err != nil {
		slog.Error("session renewal error", "error", err)
		redirectLoginError(w, r, "server_error")
		return
	}

	slog.Info("user logged in with google", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in with Google", &user.ID, clientIP, r.URL.Path,
		map[string]any{"email": user.Email})

	http.Redirect(w, r, redirectAdmin, http.StatusFound)
}

func redirectLoginError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, redirectLogin+"?error="+url.QueryEscape(reason), http.StatusFound)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
