// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/middleware"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// BlogPostResponse represents a blog post in API responses.
type BlogPostResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	ContentHTML   string     `json:"contentHtml,omitempty"`
	CoverImageURL string     `json:"coverImageUrl"`
	Status        string     `json:"status"`
	AuthorID      *int64     `json:"authorId,omitempty"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	ScheduledAt   *time.Time `json:"scheduledAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// BlogPostRequest is the body for creating or replacing a blog post.
type BlogPostRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Slug          string     `json:"slug" validate:"max=120"`
	Excerpt       string     `json:"excerpt" validate:"max=500"`
	Content       string     `json:"content" validate:"max=200000"`
	CoverImageURL string     `json:"coverImageUrl" validate:"max=500"`
	Status        string     `json:"status" validate:"omitempty,oneof=draft published archived"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
}

// storeBlogPostToResponse converts a store.BlogPost to BlogPostResponse.
func storeBlogPostToResponse(p store.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
		Status:        p.Status,
		AuthorID:      util.NullInt64ToPtr(p.AuthorID),
		PublishedAt:   util.NullTimeToPtr(p.PublishedAt),
		ScheduledAt:   util.NullTimeToPtr(p.ScheduledAt),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func blogPostsToResponse(posts []store.BlogPost) []BlogPostResponse {
	out := make([]BlogPostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, storeBlogPostToResponse(p))
	}
	return out
}

// normalizeBlogPost trims the request, applies defaults and checks the slug.
// excludeID is the post being updated, or 0 on create.
func (h *Handler) normalizeBlogPost(ctx context.Context, w http.ResponseWriter, req *BlogPostRequest, excludeID int64) bool {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Status == "" {
		req.Status = model.PostStatusDraft
	}
	if !validateRequest(w, req) {
		return false
	}

	if req.Slug == "" {
		req.Slug = util.Slugify(req.Title)
	}
	if !util.IsValidSlug(req.Slug) {
		WriteValidationError(w, map[string]string{"slug": "must contain only lowercase letters, numbers and single hyphens"})
		return false
	}

	exists, err := h.queries.BlogSlugExists(ctx, req.Slug, excludeID)
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return false
	}
	if exists {
		WriteValidationError(w, map[string]string{"slug": "already exists"})
		return false
	}
	return true
}

// ListBlogPosts handles GET /api/admin/blog-posts
func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidPostStatus(status) {
		WriteBadRequest(w, "Invalid status filter")
		return
	}
	page := handler.ParsePage(r, handler.DefaultPerPage)

	posts, err := h.queries.ListBlogPosts(ctx, store.ListBlogPostsParams{
		Status: status,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list blog posts")
		return
	}
	total, err := h.queries.CountBlogPosts(ctx, status)
	if err != nil {
		WriteInternalError(w, "Failed to count blog posts")
		return
	}

	WriteOK(w, ListResponse[BlogPostResponse]{Items: blogPostsToResponse(posts), Meta: newMeta(total, page)})
}

// GetBlogPost handles GET /api/admin/blog-posts/{id}
func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, ok := requireEntityByID(w, r, "blog post", func(id int64) (store.BlogPost, error) {
		return h.queries.GetBlogPostByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteOK(w, storeBlogPostToResponse(post))
}

// CreateBlogPost handles POST /api/admin/blog-posts
func (h *Handler) CreateBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BlogPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.normalizeBlogPost(ctx, w, &req, 0) {
		return
	}

	now := h.now()
	params := store.CreateBlogPostParams{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Status:        req.Status,
		AuthorID:      util.NullInt64FromPtr(middleware.GetUserIDPtr(r)),
		ScheduledAt:   util.NullTimeFromPtr(req.ScheduledAt),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Status == model.PostStatusPublished {
		params.PublishedAt = sql.NullTime{Time: now, Valid: true}
		params.ScheduledAt = sql.NullTime{}
	}

	post, err := h.queries.CreateBlogPost(ctx, params)
	if store.IsUniqueViolation(err) {
		// Another request took the slug after normalizeBlogPost checked it.
		WriteValidationError(w, map[string]string{"slug": "already exists"})
		return
	}
	if err != nil {
		slog.Error("failed to create blog post", "error", err)
		WriteInternalError(w, "Failed to create blog post")
		return
	}

	h.audit(r, "Blog post created", map[string]any{"post_id": post.ID, "slug": post.Slug})
	WriteCreated(w, storeBlogPostToResponse(post))
}

// UpdateBlogPost handles PUT /api/admin/blog-posts/{id}
func (h *Handler) UpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, ok := requireEntityByID(w, r, "blog post", func(id int64) (store.BlogPost, error) {
		return h.queries.GetBlogPostByID(ctx, id)
	})
	if !ok {
		return
	}

	var req BlogPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.normalizeBlogPost(ctx, w, &req, existing.ID) {
		return
	}

	now := h.now()
	params := store.UpdateBlogPostParams{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		CoverImageURL: req.CoverImageURL,
		Status:        req.Status,
		PublishedAt:   existing.PublishedAt,
		ScheduledAt:   util.NullTimeFromPtr(req.ScheduledAt),
		UpdatedAt:     now,
		ID:            existing.ID,
	}
	if req.Status == model.PostStatusPublished {
		if !existing.PublishedAt.Valid || existing.Status != model.PostStatusPublished {
			params.PublishedAt = sql.NullTime{Time: now, Valid: true}
		}
		params.ScheduledAt = sql.NullTime{}
	}

	post, err := h.queries.UpdateBlogPost(ctx, params)
	if store.IsUniqueViolation(err) {
		WriteValidationError(w, map[string]string{"slug": "already exists"})
		return
	}
	if err != nil {
		slog.Error("failed to update blog post", "error", err, "post_id", existing.ID)
		WriteInternalError(w, "Failed to update blog post")
		return
	}

	h.audit(r, "Blog post updated", map[string]any{"post_id": post.ID, "status": post.Status})
	WriteOK(w, storeBlogPostToResponse(post))
}

// DeleteBlogPost handles DELETE /api/admin/blog-posts/{id}
func (h *Handler) DeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	post, ok := requireEntityByID(w, r, "blog post", func(id int64) (store.BlogPost, error) {
		return h.queries.GetBlogPostByID(ctx, id)
	})
	if !ok {
		return
	}

	if err := h.queries.DeleteBlogPost(ctx, post.ID); err != nil {
		WriteInternalError(w, "Failed to delete blog post")
		return
	}

	h.audit(r, "Blog post deleted", map[string]any{"post_id": post.ID, "slug": post.Slug})
	WriteOK(w, map[string]any{"success": true})
}

// PublicBlogPosts handles GET /api/blog
func (h *Handler) PublicBlogPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := handler.ParsePage(r, 10)

	posts, err := h.queries.ListPublishedBlogPosts(ctx, store.ListPublishedBlogPostsParams{
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list blog posts")
		return
	}
	total, err := h.queries.CountBlogPosts(ctx, model.PostStatusPublished)
	if err != nil {
		WriteInternalError(w, "Failed to count blog posts")
		return
	}

	WriteOK(w, ListResponse[BlogPostResponse]{Items: blogPostsToResponse(posts), Meta: newMeta(total, page)})
}

// PublicBlogPost handles GET /api/blog/{slug}
func (h *Handler) PublicBlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required")
		return
	}

	post, err := h.queries.GetPublishedBlogPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Blog post not found")
		} else {
			WriteInternalError(w, "Failed to retrieve blog post")
		}
		return
	}

	resp := storeBlogPostToResponse(post)
	html, err := service.RenderMarkdown(post.Content)
	if err != nil {
		slog.Error("failed to render blog post", "error", err, "post_id", post.ID)
		WriteInternalError(w, "Failed to render blog post")
		return
	}
	resp.ContentHTML = html
	WriteOK(w, resp)
}
