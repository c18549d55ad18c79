// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// DashboardStats holds the admin dashboard counters.
type DashboardStats struct {
	UnreadContacts    int64 `json:"unreadContacts"`
	UnreadPrayers     int64 `json:"unreadPrayers"`
	PendingVolunteers int64 `json:"pendingVolunteers"`
	PublishedPosts    int64 `json:"publishedPosts"`
	DraftPosts        int64 `json:"draftPosts"`
	Ministries        int64 `json:"ministries"`
	StaffMembers      int64 `json:"staffMembers"`
	Faqs              int64 `json:"faqs"`
	Users             int64 `json:"users"`
}

// Dashboard handles GET /api/admin/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats
	g, ctx := errgroup.WithContext(r.Context())

	count := func(dst *int64, fn func() (int64, error)) {
		g.Go(func() error {
			n, err := fn()
			*dst = n
			return err
		})
	}

	count(&stats.UnreadContacts, func() (int64, error) { return h.queries.CountContactSubmissions(ctx, true) })
	count(&stats.UnreadPrayers, func() (int64, error) { return h.queries.CountPrayerRequests(ctx, true) })
	count(&stats.PendingVolunteers, func() (int64, error) {
		return h.queries.CountVolunteerSignups(ctx, model.VolunteerStatusPending)
	})
	count(&stats.PublishedPosts, func() (int64, error) { return h.queries.CountBlogPosts(ctx, model.PostStatusPublished) })
	count(&stats.DraftPosts, func() (int64, error) { return h.queries.CountBlogPosts(ctx, model.PostStatusDraft) })
	count(&stats.Ministries, func() (int64, error) { return h.queries.CountMinistries(ctx) })
	count(&stats.StaffMembers, func() (int64, error) { return h.queries.CountStaffMembers(ctx) })
	count(&stats.Faqs, func() (int64, error) { return h.queries.CountFaqs(ctx) })
	count(&stats.Users, func() (int64, error) { return h.queries.CountUsers(ctx) })

	if err := g.Wait(); err != nil {
		slog.Error("failed to load dashboard stats", "error", err)
		WriteInternalError(w, "Failed to load dashboard")
		return
	}
	WriteOK(w, stats)
}

// EventResponse represents an event log entry in API responses.
type EventResponse struct {
	ID         int64           `json:"id"`
	Level      string          `json:"level"`
	Category   string          `json:"category"`
	Message    string          `json:"message"`
	UserID     *int64          `json:"userId,omitempty"`
	Metadata   json.RawMessage `json:"metadata"`
	IPAddress  string          `json:"ipAddress"`
	RequestURL string          `json:"requestUrl"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func storeEventToResponse(e store.Event) EventResponse {
	meta := json.RawMessage(e.Metadata)
	if !json.Valid(meta) {
		meta = json.RawMessage("{}")
	}
	return EventResponse{
		ID:         e.ID,
		Level:      e.Level,
		Category:   e.Category,
		Message:    e.Message,
		UserID:     util.NullInt64ToPtr(e.UserID),
		Metadata:   meta,
		IPAddress:  e.IpAddress,
		RequestURL: e.RequestUrl,
		CreatedAt:  e.CreatedAt,
	}
}

// ListEvents handles GET /api/admin/events
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	level := r.URL.Query().Get("level")
	category := r.URL.Query().Get("category")
	page := handler.ParsePage(r, 50)

	events, err := h.queries.ListEvents(ctx, store.ListEventsParams{
		Level:    level,
		Category: category,
		Limit:    page.Limit(),
		Offset:   page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list events")
		return
	}
	total, err := h.queries.CountEvents(ctx, store.CountEventsParams{Level: level, Category: category})
	if err != nil {
		WriteInternalError(w, "Failed to count events")
		return
	}

	items := make([]EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, storeEventToResponse(e))
	}
	WriteOK(w, ListResponse[EventResponse]{Items: items, Meta: newMeta(total, page)})
}
