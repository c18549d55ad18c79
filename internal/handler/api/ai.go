// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sanctuary-web/sanctuary/internal/metrics"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/summary"
)

// EventSummary handles POST /api/ai/event-summary
func (h *Handler) EventSummary(w http.ResponseWriter, r *http.Request) {
	var req summary.EventDetails
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		WriteValidationError(w, map[string]string{"title": "is required"})
		return
	}
	if !validateRequest(w, req) {
		return
	}

	if !h.summary.Enabled() {
		metrics.AISummariesTotal.WithLabelValues("unavailable").Inc()
		WriteError(w, http.StatusServiceUnavailable, "AI summaries are not configured")
		return
	}

	text, err := h.summary.Summarize(r.Context(), req)
	if err != nil {
		if errors.Is(err, summary.ErrTitleRequired) {
			WriteValidationError(w, map[string]string{"title": "is required"})
			return
		}
		metrics.AISummariesTotal.WithLabelValues("error").Inc()
		slog.Error("AI summary failed", "category", model.EventCategorySystem, "error", err)
		WriteInternalError(w, "Failed to generate summary")
		return
	}

	metrics.AISummariesTotal.WithLabelValues("ok").Inc()
	WriteOK(w, map[string]string{"summary": text})
}
