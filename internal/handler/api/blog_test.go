// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanctuary-web/sanctuary/internal/model"
)

func (f *apiFixture) createPost(t *testing.T, body map[string]any) BlogPostResponse {
	t.Helper()
	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/blog-posts", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeAs[BlogPostResponse](t, rr)
}

func TestAdminWrites_RequireSession(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name   string
		role   string
		method string
		path   string
	}{
		{"anonymous blog create", "", http.MethodPost, "/api/admin/blog-posts"},
		{"viewer blog create", model.RoleViewer, http.MethodPost, "/api/admin/blog-posts"},
		{"anonymous admin read", "", http.MethodGet, "/api/admin/blog-posts"},
		{"editor user create", model.RoleEditor, http.MethodPost, "/api/admin/users"},
		{"anonymous ai summary", "", http.MethodPost, "/api/ai/event-summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, tt.role, tt.method, tt.path, map[string]any{
				"title": "Easter Service",
				"email": "new@example.com",
				"name":  "New",
				"role":  model.RoleViewer,
			})
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.NotEmpty(t, decodeAs[ErrorResponse](t, rr).Error)
		})
	}

	total, err := f.queries.CountBlogPosts(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, total, "rejected writes must not create rows")

	users, err := f.queries.CountUsers(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, users)
}

func TestCreateBlogPost(t *testing.T) {
	f := newAPIFixture(t)

	post := f.createPost(t, map[string]any{"title": "Easter Sunday Service", "content": "He is risen."})

	assert.Equal(t, "easter-sunday-service", post.Slug)
	assert.Equal(t, model.PostStatusDraft, post.Status)
	assert.Nil(t, post.PublishedAt)
	require.NotNil(t, post.AuthorID)
	assert.Equal(t, f.users[model.RoleEditor].ID, *post.AuthorID)
}

func TestCreateBlogPost_DuplicateSlug(t *testing.T) {
	f := newAPIFixture(t)
	f.createPost(t, map[string]any{"title": "Welcome", "slug": "welcome"})

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/blog-posts", map[string]any{
		"title": "Another welcome",
		"slug":  "welcome",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeAs[ErrorResponse](t, rr)
	assert.Equal(t, "already exists", body.Fields["slug"])

	total, err := f.queries.CountBlogPosts(context.Background(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

// A BEFORE INSERT trigger claims the slug between the existence check and
// the insert, as a concurrent request would.
func TestCreateBlogPost_SlugTakenConcurrently(t *testing.T) {
	f := newAPIFixture(t)
	_, err := f.db.Exec(`CREATE TRIGGER claim_slug BEFORE INSERT ON blog_posts
		WHEN NEW.slug = 'harvest-supper' AND NEW.title <> 'first'
		BEGIN
			INSERT INTO blog_posts (title, slug) VALUES ('first', 'harvest-supper');
		END`)
	require.NoError(t, err)

	rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/blog-posts", map[string]any{
		"title": "Harvest Supper",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Equal(t, "already exists", decodeAs[ErrorResponse](t, rr).Fields["slug"])
}

func TestUpdateBlogPost_SlugTakenConcurrently(t *testing.T) {
	f := newAPIFixture(t)
	post := f.createPost(t, map[string]any{"title": "Choir Practice"})
	_, err := f.db.Exec(`CREATE TRIGGER claim_slug BEFORE UPDATE OF slug ON blog_posts
		WHEN NEW.slug = 'choir-rehearsal'
		BEGIN
			INSERT INTO blog_posts (title, slug) VALUES ('first', 'choir-rehearsal');
		END`)
	require.NoError(t, err)

	rr := f.do(t, model.RoleEditor, http.MethodPut, fmt.Sprintf("/api/admin/blog-posts/%d", post.ID), map[string]any{
		"title": "Choir Practice",
		"slug":  "choir-rehearsal",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Equal(t, "already exists", decodeAs[ErrorResponse](t, rr).Fields["slug"])
}

func TestCreateBlogPost_Invalid(t *testing.T) {
	f := newAPIFixture(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing title", map[string]any{"content": "x"}, "title"},
		{"bad status", map[string]any{"title": "T", "status": "hidden"}, "status"},
		{"bad slug", map[string]any{"title": "T", "slug": "Not A Slug"}, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, model.RoleEditor, http.MethodPost, "/api/admin/blog-posts", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, decodeAs[ErrorResponse](t, rr).Fields, tt.field)
		})
	}
}

func TestUpdateBlogPost_PublishStampsPublishedAt(t *testing.T) {
	f := newAPIFixture(t)
	post := f.createPost(t, map[string]any{
		"title":       "Advent Schedule",
		"scheduledAt": "2099-12-01T10:00:00Z",
	})
	require.NotNil(t, post.ScheduledAt)

	path := fmt.Sprintf("/api/admin/blog-posts/%d", post.ID)
	rr := f.do(t, model.RoleEditor, http.MethodPut, path, map[string]any{
		"title":  "Advent Schedule",
		"slug":   post.Slug,
		"status": model.PostStatusPublished,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	published := decodeAs[BlogPostResponse](t, rr)
	require.NotNil(t, published.PublishedAt)
	assert.Nil(t, published.ScheduledAt)

	// Saving again keeps the original publish time.
	rr = f.do(t, model.RoleEditor, http.MethodPut, path, map[string]any{
		"title":  "Advent Schedule (updated)",
		"slug":   post.Slug,
		"status": model.PostStatusPublished,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	again := decodeAs[BlogPostResponse](t, rr)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, published.PublishedAt.Equal(*again.PublishedAt))
}

func TestUpdateBlogPost_NotFound(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, model.RoleEditor, http.MethodPut, "/api/admin/blog-posts/999", map[string]any{"title": "X"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Blog post not found", decodeAs[ErrorResponse](t, rr).Error)
}

func TestDeleteBlogPost(t *testing.T) {
	f := newAPIFixture(t)
	post := f.createPost(t, map[string]any{"title": "Old news"})
	path := fmt.Sprintf("/api/admin/blog-posts/%d", post.ID)

	rr := f.do(t, model.RoleEditor, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = f.do(t, model.RoleEditor, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListBlogPosts_Pagination(t *testing.T) {
	f := newAPIFixture(t)
	for i := range 3 {
		f.createPost(t, map[string]any{"title": fmt.Sprintf("Post %d", i)})
	}
	f.createPost(t, map[string]any{"title": "Live", "status": model.PostStatusPublished})

	rr := f.do(t, model.RoleViewer, http.MethodGet, "/api/admin/blog-posts?status=draft&per_page=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	page := decodeAs[ListResponse[BlogPostResponse]](t, rr)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 3, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.Pages)

	rr = f.do(t, model.RoleViewer, http.MethodGet, "/api/admin/blog-posts?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublicBlog(t *testing.T) {
	f := newAPIFixture(t)
	f.createPost(t, map[string]any{"title": "Draft only"})
	f.createPost(t, map[string]any{
		"title":   "Harvest Festival",
		"status":  model.PostStatusPublished,
		"content": "Join us **Sunday**.\n\n<script>alert('x')</script>",
	})

	rr := f.do(t, "", http.MethodGet, "/api/blog", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeAs[ListResponse[BlogPostResponse]](t, rr)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "harvest-festival", list.Items[0].Slug)

	rr = f.do(t, "", http.MethodGet, "/api/blog/harvest-festival", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	post := decodeAs[BlogPostResponse](t, rr)
	assert.Contains(t, post.ContentHTML, "<strong>Sunday</strong>")
	assert.NotContains(t, post.ContentHTML, "<script>")

	rr = f.do(t, "", http.MethodGet, "/api/blog/draft-only", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
