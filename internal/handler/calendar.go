// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/sanctuary-web/sanctuary/internal/auth"
	"github.com/sanctuary-web/sanctuary/internal/calendar"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/session"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// redirectCalendar is the admin page the connect flow returns to.
const redirectCalendar = "/admin/calendar"

// CalendarConnectHandler runs the Google Calendar connect flow and stores the
// resulting tokens in cookies.
type CalendarConnectHandler struct {
	oauth          *calendar.OAuth
	feed           *calendar.Feed
	sessionManager *scs.SessionManager
	eventService   *service.EventService
	secureCookies  bool
	now            func() time.Time
}

// NewCalendarConnectHandler creates a new CalendarConnectHandler.
func NewCalendarConnectHandler(oauth *calendar.OAuth, feed *calendar.Feed, sm *scs.SessionManager, events *service.EventService, secureCookies bool) *CalendarConnectHandler {
	return &CalendarConnectHandler{
		oauth:          oauth,
		feed:           feed,
		sessionManager: sm,
		eventService:   events,
		secureCookies:  secureCookies,
		now:            time.Now,
	}
}

// Routes registers the connect flow under /calendar. Every step requires an
// editor, since a completed callback replaces the stored calendar tokens.
func (h *CalendarConnectHandler) Routes(r chi.Router) {
	r.Route("/calendar", func(r chi.Router) {
		r.Use(middleware.RequireEditor(h.eventService))
		r.Get("/auth", h.Connect)
		r.Get("/callback", h.Callback)
		r.Post("/disconnect", h.Disconnect)
	})
}

// Connect handles GET /api/calendar/auth.
func (h *CalendarConnectHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if !h.oauth.Enabled() {
		redirectCalendarError(w, r, "not_configured")
		return
	}

	state := auth.NewState()
	h.sessionManager.Put(r.Context(), session.KeyCalendarRet, state)
	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusFound)
}

// Callback handles GET /api/calendar/callback.
func (h *CalendarConnectHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if providerErr := q.Get("error"); providerErr != "" {
		slog.Warn("calendar connect declined", "category", model.EventCategoryCalendar, "error", providerErr)
		redirectCalendarError(w, r, providerErr)
		return
	}

	code := q.Get("code")
	if code == "" {
		redirectCalendarError(w, r, "missing_code")
		return
	}

	expected := h.sessionManager.PopString(ctx, session.KeyCalendarRet)
	if expected == "" || q.Get("state") != expected {
		redirectCalendarError(w, r, "invalid_state")
		return
	}

	tok, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Error("calendar token exchange failed", "category", model.EventCategoryCalendar, "error", err)
		redirectCalendarError(w, r, "exchange_failed")
		return
	}

	calendar.SetTokenCookies(w, tok, h.secureCookies, h.now())
	h.feed.Invalidate(ctx)

	_ = h.eventService.LogEvent(ctx, model.EventLevelInfo, model.EventCategoryCalendar, "Google Calendar connected",
		middleware.GetUserIDPtr(r), util.ClientIP(r), r.URL.Path, map[string]any{"account": tok.Email})

	http.Redirect(w, r, redirectCalendar+"?connected=true", http.StatusFound)
}

// Disconnect handles POST /api/calendar/disconnect.
func (h *CalendarConnectHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	calendar.ClearTokenCookies(w, h.secureCookies)
	h.feed.Invalidate(r.Context())

	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryCalendar, "Google Calendar disconnected",
		middleware.GetUserIDPtr(r), util.ClientIP(r), r.URL.Path, nil)

	writeJSONSuccess(w, nil)
}

func redirectCalendarError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, redirectCalendar+"?error="+url.QueryEscape(reason), http.StatusFound)
}
