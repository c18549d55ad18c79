// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sanctuary-web/sanctuary/internal/calendar"
	"github.com/sanctuary-web/sanctuary/internal/model"
)

// CalendarEvents handles GET /api/calendar/events. Provider failures degrade
// to the weekly schedule and never fail the request.
func (h *Handler) CalendarEvents(w http.ResponseWriter, r *http.Request) {
	if h.calendar == nil {
		WriteError(w, http.StatusServiceUnavailable, "Calendar is unavailable")
		return
	}
	WriteOK(w, h.calendar.Events(r.Context(), calendar.CredentialsFromRequest(r)))
}

// Calendars handles GET /api/calendar/calendars
func (h *Handler) Calendars(w http.ResponseWriter, r *http.Request) {
	if h.calendar == nil {
		WriteError(w, http.StatusServiceUnavailable, "Calendar is unavailable")
		return
	}

	list, err := h.calendar.Calendars(r.Context(), calendar.CredentialsFromRequest(r))
	if err != nil {
		if errors.Is(err, calendar.ErrNotConfigured) {
			WriteUnauthorized(w, "Google Calendar is not connected")
			return
		}
		slog.Error("failed to list calendars", "category", model.EventCategoryCalendar, "error", err)
		WriteError(w, http.StatusBadGateway, "Failed to list calendars")
		return
	}
	if list == nil {
		list = []calendar.CalendarInfo{}
	}
	WriteOK(w, map[string]any{"calendars": list})
}
