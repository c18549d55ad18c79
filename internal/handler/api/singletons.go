// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// Announcement banners, donate settings and the current sermon series allow
// at most one active row. Every write that can set is_active runs in a
// transaction that clears the other rows first.

// saveSingleActive runs write in a transaction, clearing the active flag on
// every other row of table first when active is set. keepID is 0 on create.
func saveSingleActive[T any](ctx context.Context, h *Handler, table string, active bool, keepID int64, write func(q *store.Queries) (T, error)) (T, error) {
	var out T
	err := store.ExecTx(ctx, h.db, func(q *store.Queries) error {
		if active {
			if err := q.DeactivateOthers(ctx, table, keepID); err != nil {
				return err
			}
		}
		var err error
		out, err = write(q)
		return err
	})
	return out, err
}

// activate makes the {id} row the only active one and returns it.
func activate[T any](h *Handler, w http.ResponseWriter, r *http.Request, table, entityName string, fetch fetchFunc[T]) {
	ctx := r.Context()

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return
	}

	if err := store.Activate(ctx, h.db, table, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
			return
		}
		slog.Error("failed to activate", "table", table, "id", id, "error", err)
		WriteInternalError(w, "Failed to activate "+entityName)
		return
	}

	entity, err := fetch(ctx, id)
	if err != nil {
		WriteInternalError(w, "Failed to retrieve "+entityName)
		return
	}

	h.audit(r, capitalizeFirst(entityName)+" activated", map[string]any{"id": id})
	WriteOK(w, entity)
}

// Announcement banners

// AnnouncementRequest is the body for creating or replacing a banner.
type AnnouncementRequest struct {
	Message  string `json:"message" validate:"required,max=500"`
	LinkURL  string `json:"linkUrl" validate:"max=500"`
	LinkText string `json:"linkText" validate:"max=100"`
	Variant  string `json:"variant" validate:"omitempty,oneof=info warning success urgent"`
	IsActive bool   `json:"isActive"`
}

// ListAnnouncements handles GET /api/admin/announcements
func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	banners, err := h.queries.ListAnnouncementBanners(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list announcements")
		return
	}
	WriteOK(w, banners)
}

// GetAnnouncement handles GET /api/admin/announcements/{id}
func (h *Handler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "announcement", h.queries.GetAnnouncementBannerByID)
}

// CreateAnnouncement handles POST /api/admin/announcements
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AnnouncementRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}
	if req.Variant == "" {
		req.Variant = "info"
	}

	now := h.now()
	banner, err := saveSingleActive(ctx, h, store.TableAnnouncementBanners, req.IsActive, 0,
		func(q *store.Queries) (store.AnnouncementBanner, error) {
			return q.CreateAnnouncementBanner(ctx, store.CreateAnnouncementBannerParams{
				Message:   strings.TrimSpace(req.Message),
				LinkURL:   req.LinkURL,
				LinkText:  req.LinkText,
				Variant:   req.Variant,
				IsActive:  req.IsActive,
				CreatedAt: now,
				UpdatedAt: now,
			})
		})
	if err != nil {
		slog.Error("failed to create announcement", "error", err)
		WriteInternalError(w, "Failed to create announcement")
		return
	}

	h.audit(r, "Announcement created", map[string]any{"id": banner.ID, "active": banner.IsActive})
	WriteCreated(w, banner)
}

// UpdateAnnouncement handles PUT /api/admin/announcements/{id}
func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "announcement", func(id int64) (store.AnnouncementBanner, error) {
		return h.queries.GetAnnouncementBannerByID(ctx, id)
	})
	if !ok {
		return
	}

	var req AnnouncementRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}
	if req.Variant == "" {
		req.Variant = existing.Variant
	}

	banner, err := saveSingleActive(ctx, h, store.TableAnnouncementBanners, req.IsActive, existing.ID,
		func(q *store.Queries) (store.AnnouncementBanner, error) {
			return q.UpdateAnnouncementBanner(ctx, store.UpdateAnnouncementBannerParams{
				Message:   strings.TrimSpace(req.Message),
				LinkURL:   req.LinkURL,
				LinkText:  req.LinkText,
				Variant:   req.Variant,
				IsActive:  req.IsActive,
				UpdatedAt: h.now(),
				ID:        existing.ID,
			})
		})
	if err != nil {
		WriteInternalError(w, "Failed to update announcement")
		return
	}

	h.audit(r, "Announcement updated", map[string]any{"id": banner.ID, "active": banner.IsActive})
	WriteOK(w, banner)
}

// DeleteAnnouncement handles DELETE /api/admin/announcements/{id}
func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "announcement", h.queries.GetAnnouncementBannerByID, h.queries.DeleteAnnouncementBanner)
}

// ActivateAnnouncement handles POST /api/admin/announcements/{id}/activate
func (h *Handler) ActivateAnnouncement(w http.ResponseWriter, r *http.Request) {
	activate(h, w, r, store.TableAnnouncementBanners, "announcement", h.queries.GetAnnouncementBannerByID)
}

// PublicAnnouncement handles GET /api/announcement
func (h *Handler) PublicAnnouncement(w http.ResponseWriter, r *http.Request) {
	banner, err := h.queries.GetActiveAnnouncementBanner(r.Context())
	writeSingle(w, "announcement", banner, err)
}

// Donate settings

// DonateSettingRequest is the body for creating or replacing donate settings.
type DonateSettingRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	DonateURL   string `json:"donateUrl" validate:"required,url,max=500"`
	ButtonText  string `json:"buttonText" validate:"max=100"`
	IsActive    bool   `json:"isActive"`
}

// ListDonateSettings handles GET /api/admin/donate-settings
func (h *Handler) ListDonateSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.queries.ListDonateSettings(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list donate settings")
		return
	}
	WriteOK(w, settings)
}

// GetDonateSetting handles GET /api/admin/donate-settings/{id}
func (h *Handler) GetDonateSetting(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "donate setting", h.queries.GetDonateSettingByID)
}

// CreateDonateSetting handles POST /api/admin/donate-settings
func (h *Handler) CreateDonateSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DonateSettingRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}
	if req.ButtonText == "" {
		req.ButtonText = "Give Online"
	}

	now := h.now()
	setting, err := saveSingleActive(ctx, h, store.TableDonateSettings, req.IsActive, 0,
		func(q *store.Queries) (store.DonateSetting, error) {
			return q.CreateDonateSetting(ctx, store.CreateDonateSettingParams{
				Title:       strings.TrimSpace(req.Title),
				Description: req.Description,
				DonateURL:   req.DonateURL,
				ButtonText:  req.ButtonText,
				IsActive:    req.IsActive,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		})
	if err != nil {
		slog.Error("failed to create donate setting", "error", err)
		WriteInternalError(w, "Failed to create donate setting")
		return
	}

	h.audit(r, "Donate setting created", map[string]any{"id": setting.ID, "active": setting.IsActive})
	WriteCreated(w, setting)
}

// UpdateDonateSetting handles PUT /api/admin/donate-settings/{id}
func (h *Handler) UpdateDonateSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "donate setting", func(id int64) (store.DonateSetting, error) {
		return h.queries.GetDonateSettingByID(ctx, id)
	})
	if !ok {
		return
	}

	var req DonateSettingRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}
	if req.ButtonText == "" {
		req.ButtonText = existing.ButtonText
	}

	setting, err := saveSingleActive(ctx, h, store.TableDonateSettings, req.IsActive, existing.ID,
		func(q *store.Queries) (store.DonateSetting, error) {
			return q.UpdateDonateSetting(ctx, store.UpdateDonateSettingParams{
				Title:       strings.TrimSpace(req.Title),
				Description: req.Description,
				DonateURL:   req.DonateURL,
				ButtonText:  req.ButtonText,
				IsActive:    req.IsActive,
				UpdatedAt:   h.now(),
				ID:          existing.ID,
			})
		})
	if err != nil {
		WriteInternalError(w, "Failed to update donate setting")
		return
	}

	h.audit(r, "Donate setting updated", map[string]any{"id": setting.ID, "active": setting.IsActive})
	WriteOK(w, setting)
}

// DeleteDonateSetting handles DELETE /api/admin/donate-settings/{id}
func (h *Handler) DeleteDonateSetting(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "donate setting", h.queries.GetDonateSettingByID, h.queries.DeleteDonateSetting)
}

// ActivateDonateSetting handles POST /api/admin/donate-settings/{id}/activate
func (h *Handler) ActivateDonateSetting(w http.ResponseWriter, r *http.Request) {
	activate(h, w, r, store.TableDonateSettings, "donate setting", h.queries.GetDonateSettingByID)
}

// PublicDonateSettings handles GET /api/donate-settings
func (h *Handler) PublicDonateSettings(w http.ResponseWriter, r *http.Request) {
	setting, err := h.queries.GetActiveDonateSetting(r.Context())
	writeSingle(w, "donate setting", setting, err)
}

// Current sermon series

// CurrentSeriesResponse represents a sermon series in API responses.
type CurrentSeriesResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	SermonURL   string     `json:"sermonUrl"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func storeCurrentSeriesToResponse(s store.CurrentSeries) CurrentSeriesResponse {
	return CurrentSeriesResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		SermonURL:   s.SermonURL,
		StartDate:   util.NullTimeToPtr(s.StartDate),
		EndDate:     util.NullTimeToPtr(s.EndDate),
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (h *Handler) getCurrentSeriesResponse(ctx context.Context, id int64) (CurrentSeriesResponse, error) {
	s, err := h.queries.GetCurrentSeriesByID(ctx, id)
	if err != nil {
		return CurrentSeriesResponse{}, err
	}
	return storeCurrentSeriesToResponse(s), nil
}

// CurrentSeriesRequest is the body for creating or replacing a sermon series.
type CurrentSeriesRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	ImageURL    string     `json:"imageUrl" validate:"max=500"`
	SermonURL   string     `json:"sermonUrl" validate:"omitempty,url,max=500"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    bool       `json:"isActive"`
}

func validateSeriesDates(w http.ResponseWriter, req CurrentSeriesRequest) bool {
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		WriteValidationError(w, map[string]string{"endDate": "must not be before startDate"})
		return false
	}
	return true
}

// ListCurrentSeries handles GET /api/admin/current-series
func (h *Handler) ListCurrentSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.queries.ListCurrentSeries(r.Context())
	if err != nil {
		WriteInternalError(w, "Failed to list series")
		return
	}
	out := make([]CurrentSeriesResponse, 0, len(series))
	for _, s := range series {
		out = append(out, storeCurrentSeriesToResponse(s))
	}
	WriteOK(w, out)
}

// GetCurrentSeries handles GET /api/admin/current-series/{id}
func (h *Handler) GetCurrentSeries(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "series", h.getCurrentSeriesResponse)
}

// CreateCurrentSeries handles POST /api/admin/current-series
func (h *Handler) CreateCurrentSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CurrentSeriesRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) || !validateSeriesDates(w, req) {
		return
	}

	now := h.now()
	series, err := saveSingleActive(ctx, h, store.TableCurrentSeries, req.IsActive, 0,
		func(q *store.Queries) (store.CurrentSeries, error) {
			return q.CreateCurrentSeries(ctx, store.CreateCurrentSeriesParams{
				Title:       strings.TrimSpace(req.Title),
				Description: req.Description,
				ImageURL:    req.ImageURL,
				SermonURL:   req.SermonURL,
				StartDate:   util.NullTimeFromPtr(req.StartDate),
				EndDate:     util.NullTimeFromPtr(req.EndDate),
				IsActive:    req.IsActive,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		})
	if err != nil {
		slog.Error("failed to create series", "error", err)
		WriteInternalError(w, "Failed to create series")
		return
	}

	h.audit(r, "Series created", map[string]any{"id": series.ID, "active": series.IsActive})
	WriteCreated(w, storeCurrentSeriesToResponse(series))
}

// UpdateCurrentSeries handles PUT /api/admin/current-series/{id}
func (h *Handler) UpdateCurrentSeries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "series", func(id int64) (store.CurrentSeries, error) {
		return h.queries.GetCurrentSeriesByID(ctx, id)
	})
	if !ok {
		return
	}

	var req CurrentSeriesRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) || !validateSeriesDates(w, req) {
		return
	}

	series, err := saveSingleActive(ctx, h, store.TableCurrentSeries, req.IsActive, existing.ID,
		func(q *store.Queries) (store.CurrentSeries, error) {
			return q.UpdateCurrentSeries(ctx, store.UpdateCurrentSeriesParams{
				Title:       strings.TrimSpace(req.Title),
				Description: req.Description,
				ImageURL:    req.ImageURL,
				SermonURL:   req.SermonURL,
				StartDate:   util.NullTimeFromPtr(req.StartDate),
				EndDate:     util.NullTimeFromPtr(req.EndDate),
				IsActive:    req.IsActive,
				UpdatedAt:   h.now(),
				ID:          existing.ID,
			})
		})
	if err != nil {
		WriteInternalError(w, "Failed to update series")
		return
	}

	h.audit(r, "Series updated", map[string]any{"id": series.ID, "active": series.IsActive})
	WriteOK(w, storeCurrentSeriesToResponse(series))
}

// DeleteCurrentSeries handles DELETE /api/admin/current-series/{id}
func (h *Handler) DeleteCurrentSeries(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "series", h.queries.GetCurrentSeriesByID, h.queries.DeleteCurrentSeries)
}

// ActivateCurrentSeries handles POST /api/admin/current-series/{id}/activate
func (h *Handler) ActivateCurrentSeries(w http.ResponseWriter, r *http.Request) {
	activate(h, w, r, store.TableCurrentSeries, "series", h.getCurrentSeriesResponse)
}

// PublicCurrentSeries handles GET /api/current-series
func (h *Handler) PublicCurrentSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.queries.GetActiveCurrentSeries(r.Context())
	if err != nil {
		writeSingle(w, "series", series, err)
		return
	}
	WriteOK(w, storeCurrentSeriesToResponse(series))
}
