// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/upload"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// UploadResponse represents a stored upload in API responses.
type UploadResponse struct {
	Key          string    `json:"key"`
	Endpoint     string    `json:"endpoint"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	UploadedBy   *int64    `json:"uploadedBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func storeUploadToResponse(u store.Upload) UploadResponse {
	return UploadResponse{
		Key:          u.Key,
		Endpoint:     u.Endpoint,
		OriginalName: u.OriginalName,
		MimeType:     u.MimeType,
		Size:         u.Size,
		URL:          u.URL,
		UploadedBy:   util.NullInt64ToPtr(u.UploadedBy),
		CreatedAt:    u.CreatedAt,
	}
}

// ListUploads handles GET /api/admin/uploads
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint != "" {
		if _, ok := upload.Lookup(endpoint); !ok {
			WriteBadRequest(w, "Unknown upload endpoint")
			return
		}
	}
	page := handler.ParsePage(r, 50)

	uploads, err := h.queries.ListUploads(r.Context(), store.ListUploadsParams{
		Endpoint: endpoint,
		Limit:    page.Limit(),
		Offset:   page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list uploads")
		return
	}

	out := make([]UploadResponse, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, storeUploadToResponse(u))
	}
	WriteOK(w, out)
}

// DeleteUpload handles DELETE /api/admin/uploads/{key}
func (h *Handler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		WriteBadRequest(w, "Upload key is required")
		return
	}
	if h.uploads == nil {
		WriteError(w, http.StatusServiceUnavailable, "Uploads are unavailable")
		return
	}

	if err := h.uploads.Delete(r.Context(), key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Upload not found")
			return
		}
		slog.Error("failed to delete upload", "key", key, "error", err)
		WriteInternalError(w, "Failed to delete upload")
		return
	}

	h.audit(r, "Upload deleted", map[string]any{"key": key})
	WriteOK(w, map[string]any{"success": true})
}
