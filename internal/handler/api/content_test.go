// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/store"
)

func (f *apiFixture) createFaq(t *testing.T, question string, active bool) store.Faq {
	t.Helper()
	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/faqs", map[string]any{
		"question": question,
		"answer":   "Yes.",
		"isActive": active,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeAs[store.Faq](t, rr)
}

func TestFaqs_CRUD(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/faqs", map[string]any{"question": "Parking?"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "is required", decodeAs[ErrorResponse](t, rr).Fields["answer"])

	faq := f.createFaq(t, "Is there childcare?", true)
	assert.True(t, faq.IsActive)

	path := fmt.Sprintf("/api/admin/faqs/%d", faq.ID)
	rr = f.do(t, model.RoleViewer, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Is there childcare?", decodeAs[store.Faq](t, rr).Question)

	rr = f.do(t, model.RoleEditor, http.MethodPut, path, map[string]any{
		"question": "Is there childcare on Sunday?",
		"answer":   "Nursery opens at 9:30.",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decodeAs[store.Faq](t, rr)
	assert.Equal(t, "Nursery opens at 9:30.", updated.Answer)
	assert.True(t, updated.IsActive, "omitted isActive keeps the stored value")

	rr = f.do(t, model.RoleEditor, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, model.RoleViewer, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "FAQ not found", decodeAs[ErrorResponse](t, rr).Error)
}

func TestPublicFaqs_OnlyActive(t *testing.T) {
	f := newAPIFixture(t)
	f.createFaq(t, "Visible", true)
	f.createFaq(t, "Hidden", false)

	rr := f.do(t, "", http.MethodGet, "/api/faqs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	faqs := decodeAs[[]store.Faq](t, rr)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Visible", faqs[0].Question)

	rr = f.do(t, model.RoleViewer, http.MethodGet, "/api/admin/faqs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeAs[[]store.Faq](t, rr), 2)
}

func TestReorderFaqs(t *testing.T) {
	f := newAPIFixture(t)
	a := f.createFaq(t, "A", true)
	b := f.createFaq(t, "B", true)
	c := f.createFaq(t, "C", true)

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/faqs/reorder", map[string]any{
		"ids": []int64{c.ID, a.ID, b.ID},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, "", http.MethodGet, "/api/faqs", nil)
	faqs := decodeAs[[]store.Faq](t, rr)
	require.Len(t, faqs, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{faqs[0].Question, faqs[1].Question, faqs[2].Question})

	rr = f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/faqs/reorder", map[string]any{
		"ids": []int64{a.ID, 9999},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/faqs/reorder", map[string]any{"ids": []int64{}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMinistries_Slug(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/ministries", map[string]any{"name": "Youth Ministry"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "youth-ministry", decodeAs[store.Ministry](t, rr).Slug)

	rr = f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/ministries", map[string]any{"name": "Youth Ministry"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "already exists", decodeAs[ErrorResponse](t, rr).Fields["slug"])
}

func TestSlides_RequireImage(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/slideshow", map[string]any{"title": "Welcome home"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeAs[ErrorResponse](t, rr).Fields, "imageUrl")

	rr = f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/slideshow", map[string]any{
		"title":    "Welcome home",
		"imageUrl": "/uploads/slides/welcome.webp",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = f.do(t, "", http.MethodGet, "/api/slideshow", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeAs[[]store.HomeSlide](t, rr), 1)
}

func TestLists_EmptyTablesEncodeAsArrays(t *testing.T) {
	f := newAPIFixture(t)

	bare := []struct {
		role string
		path string
	}{
		{"", "/api/faqs"},
		{"", "/api/ministries"},
		{"", "/api/staff"},
		{"", "/api/mission-partners"},
		{"", "/api/slideshow"},
		{model.RoleViewer, "/api/admin/faqs"},
		{model.RoleViewer, "/api/admin/ministries"},
		{model.RoleViewer, "/api/admin/staff"},
		{model.RoleViewer, "/api/admin/mission-partners"},
		{model.RoleViewer, "/api/admin/slideshow"},
		{model.RoleViewer, "/api/admin/announcements"},
		{model.RoleViewer, "/api/admin/donate-settings"},
		{model.RoleViewer, "/api/admin/current-series"},
		{model.RoleViewer, "/api/admin/uploads"},
	}
	for _, tt := range bare {
		t.Run(tt.path, func(t *testing.T) {
			rr := f.do(t, tt.role, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
		})
	}

	paged := []string{
		"/api/blog",
		"/api/admin/blog-posts",
		"/api/admin/contact-submissions",
		"/api/admin/prayer-requests",
		"/api/admin/volunteers",
	}
	for _, path := range paged {
		t.Run(path, func(t *testing.T) {
			rr := f.do(t, model.RoleViewer, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
			assert.Contains(t, rr.Body.String(), `"items":[]`)
		})
	}
}
