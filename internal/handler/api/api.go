// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON handlers for the public site and the admin
// dashboard.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/calendar"
	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/summary"
	"github.com/sanctuary-web/sanctuary/internal/upload"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db          *sql.DB
	queries     *store.Queries
	events      *service.EventService
	submissions *service.SubmissionService
	summary     *summary.Service
	calendar    *calendar.Feed
	uploads     *upload.Store
	now         func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, events *service.EventService) *Handler {
	return &Handler{
		db:      db,
		queries: store.New(db),
		events:  events,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetSubmissionService sets the service behind the public submission forms.
func (h *Handler) SetSubmissionService(s *service.SubmissionService) {
	h.submissions = s
}

// SetSummaryService sets the AI summary provider. A nil or unconfigured
// service makes the summary endpoint report 503.
func (h *Handler) SetSummaryService(s *summary.Service) {
	h.summary = s
}

// SetCalendarFeed sets the calendar feed.
func (h *Handler) SetCalendarFeed(f *calendar.Feed) {
	h.calendar = f
}

// SetUploadStore sets the upload store used by the upload admin endpoints.
func (h *Handler) SetUploadStore(s *upload.Store) {
	h.uploads = s
}

// Meta contains pagination metadata.
type Meta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"perPage"`
	Pages   int   `json:"pages"`
}

// ListResponse is a page of items.
type ListResponse[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

func newMeta(total int64, p handler.Page) Meta {
	return Meta{
		Total:   total,
		Page:    p.Number,
		PerPage: p.PerPage,
		Pages:   handler.CalculateTotalPages(int(total), p.PerPage),
	}
}

// ErrorResponse is the API error body.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 response.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteValidationError writes a 400 response with per-field messages.
func WriteValidationError(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: fields})
}

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		WriteBadRequest(w, "Invalid JSON body")
		return false
	}
	return true
}

// validateRequest runs struct-tag validation and writes a 400 on failure.
func validateRequest(w http.ResponseWriter, v any) bool {
	err := service.Validate(v)
	if err == nil {
		return true
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		WriteValidationError(w, ve.Fields)
	} else {
		WriteInternalError(w, "Failed to validate request")
	}
	return false
}

// EntityFetcher is a function that fetches an entity by ID.
type EntityFetcher[T any] func(id int64) (T, error)

// requireEntityByID parses the {id} URL parameter and fetches the entity.
// On failure the response has been written and ok is false.
func requireEntityByID[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch EntityFetcher[T]) (T, bool) {
	var zero T

	id, err := handler.ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid "+entityName+" ID")
		return zero, false
	}

	entity, err := fetch(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, capitalizeFirst(entityName)+" not found")
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return zero, false
	}

	return entity, true
}

// writeSingle writes a single active record, or 404 when none exists.
func writeSingle[T any](w http.ResponseWriter, entityName string, entity T, err error) {
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "No active "+entityName)
		} else {
			WriteInternalError(w, "Failed to retrieve "+entityName)
		}
		return
	}
	WriteOK(w, entity)
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// audit records an admin mutation in the event log.
func (h *Handler) audit(r *http.Request, message string, metadata map[string]any) {
	if h.events == nil {
		return
	}
	_ = h.events.LogContentEvent(r.Context(), message, middleware.GetUserIDPtr(r), util.ClientIP(r), r.URL.Path, metadata)
}
