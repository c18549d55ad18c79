// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/upload"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temp files.
const multipartMemory = 8 << 20

// UploadsHandler accepts files for the named upload endpoints.
type UploadsHandler struct {
	store        *upload.Store
	eventService *service.EventService
}

// NewUploadsHandler creates a new UploadsHandler.
func NewUploadsHandler(store *upload.Store, events *service.EventService) *UploadsHandler {
	return &UploadsHandler{store: store, eventService: events}
}

// Upload handles POST /api/uploads/{endpoint} with multipart field "files".
func (h *UploadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ep, ok := upload.Lookup(chi.URLParam(r, "endpoint"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "Unknown upload endpoint")
		return
	}

	user := middleware.GetUser(r)
	if user == nil {
		writeJSONError(w, http.StatusUnauthorized, middleware.MsgNotAuthenticated)
		return
	}
	if !model.HasRole(user.Role, ep.MinRole) {
		writeJSONError(w, http.StatusUnauthorized, middleware.MsgInsufficientAccess)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, ep.MaxRequestSize())
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "Upload exceeds the size limit")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files, err := h.store.Save(r.Context(), ep, r.MultipartForm.File["files"], user.ID)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNoFiles),
			errors.Is(err, upload.ErrTooManyFiles),
			errors.Is(err, upload.ErrTypeNotAllowed),
			errors.Is(err, upload.ErrInvalidImage):
			writeJSONError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, upload.ErrFileTooLarge):
			writeJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			slog.Error("saving upload", "endpoint", ep.Name, "error", err)
			writeJSONError(w, http.StatusInternalServerError, "Failed to store upload")
		}
		return
	}

	keys := make([]string, 0, len(files))
	for _, f := range files {
		keys = append(keys, f.Key)
	}
	_ = h.eventService.LogEvent(r.Context(), model.EventLevelInfo, model.EventCategoryUpload, "Files uploaded",
		&user.ID, util.ClientIP(r), r.URL.Path, map[string]any{"endpoint": ep.Name, "keys": keys})

	writeJSON(w, http.StatusOK, files)
}

// Endpoints handles GET /api/uploads and lists the endpoint limits so the
// admin UI can validate before posting.
func (h *UploadsHandler) Endpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, upload.Endpoints)
}

// Files serves stored uploads under /uploads/.
func (h *UploadsHandler) Files() http.Handler {
	fs := http.StripPrefix(upload.URLPrefix+"/", http.FileServer(noDirFS{http.Dir(h.store.Dir())}))
	return middleware.StaticCache(middleware.UploadCacheMaxAge)(fs)
}

// noDirFS hides directory listings.
type noDirFS struct {
	fs http.FileSystem
}

func (n noDirFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
