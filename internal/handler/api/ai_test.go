// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/summary"
)

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func TestEventSummary(t *testing.T) {
	event := map[string]any{
		"title":    "Community Picnic",
		"date":     "Saturday, June 6",
		"location": "Church lawn",
	}

	t.Run("not configured", func(t *testing.T) {
		f := newAPIFixture(t)
		rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/ai/event-summary", event)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("not configured still validates", func(t *testing.T) {
		f := newAPIFixture(t)
		for _, title := range []string{"", "   "} {
			rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/ai/event-summary", map[string]any{"title": title})
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "is required", decodeAs[ErrorResponse](t, rr).Fields["title"])
		}
	})

	t.Run("success", func(t *testing.T) {
		f := newAPIFixture(t)
		gen := &fakeGenerator{text: "  Bring a blanket and join us on the lawn!  "}
		f.handler.SetSummaryService(summary.NewWithGenerator(gen))

		rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/ai/event-summary", event)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.Equal(t, "Bring a blanket and join us on the lawn!", decodeAs[map[string]string](t, rr)["summary"])
		assert.Contains(t, gen.prompt, "Community Picnic")
		assert.Contains(t, gen.prompt, "Church lawn")
	})

	t.Run("provider error", func(t *testing.T) {
		f := newAPIFixture(t)
		f.handler.SetSummaryService(summary.NewWithGenerator(&fakeGenerator{err: errors.New("rate limited")}))

		rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/ai/event-summary", event)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "rate limited")
	})

	t.Run("missing title", func(t *testing.T) {
		f := newAPIFixture(t)
		gen := &fakeGenerator{text: "unused"}
		f.handler.SetSummaryService(summary.NewWithGenerator(gen))

		for _, title := range []string{"", "   "} {
			rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/ai/event-summary", map[string]any{"title": title})
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "is required", decodeAs[ErrorResponse](t, rr).Fields["title"])
		}
		assert.Empty(t, gen.prompt, "the model must not be called")
	})

	t.Run("viewer", func(t *testing.T) {
		f := newAPIFixture(t)
		rr := f.do(t, model.RoleViewer, http.MethodPost, "/api/ai/event-summary", event)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
