// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const blogPostColumns = `id, title, slug, excerpt, content, cover_image_url, status, author_id, published_at, scheduled_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Content,
		&p.CoverImageURL,
		&p.Status,
		&p.AuthorID,
		&p.PublishedAt,
		&p.ScheduledAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectBlogPosts(rows *sql.Rows) ([]BlogPost, error) {
	defer func() { _ = rows.Close() }()
	items := []BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const createBlogPost = `INSERT INTO blog_posts (title, slug, excerpt, content, cover_image_url, status, author_id, published_at, scheduled_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + blogPostColumns

type CreateBlogPostParams struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	CoverImageURL string
	Status        string
	AuthorID      sql.NullInt64
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRowContext(ctx, createBlogPost,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.CoverImageURL,
		arg.Status,
		arg.AuthorID,
		arg.PublishedAt,
		arg.ScheduledAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBlogPost(row)
}

const getBlogPostByID = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = ?`

func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPostByID, id))
}

const getPublishedBlogPostBySlug = `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = ? AND status = 'published'`

func (q *Queries) GetPublishedBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getPublishedBlogPostBySlug, slug))
}

const listBlogPosts = `SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE (? = '' OR status = ?)
ORDER BY updated_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListBlogPostsParams struct {
	Status string
	Limit  int64
	Offset int64
}

func (q *Queries) ListBlogPosts(ctx context.Context, arg ListBlogPostsParams) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listBlogPosts, arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

const countBlogPosts = `SELECT COUNT(*) FROM blog_posts WHERE (? = '' OR status = ?)`

func (q *Queries) CountBlogPosts(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBlogPosts, status, status).Scan(&n)
	return n, err
}

const listPublishedBlogPosts = `SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE status = 'published'
ORDER BY published_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListPublishedBlogPostsParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListPublishedBlogPosts(ctx context.Context, arg ListPublishedBlogPostsParams) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedBlogPosts, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

const blogSlugExists = `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = ? AND id != ?)`

// BlogSlugExists reports whether slug is taken by a post other than excludeID.
func (q *Queries) BlogSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, blogSlugExists, slug, excludeID).Scan(&exists)
	return exists, err
}

const updateBlogPost = `UPDATE blog_posts SET
    title = ?, slug = ?, excerpt = ?, content = ?, cover_image_url = ?,
    status = ?, published_at = ?, scheduled_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + blogPostColumns

type UpdateBlogPostParams struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	CoverImageURL string
	Status        string
	PublishedAt   sql.NullTime
	ScheduledAt   sql.NullTime
	UpdatedAt     time.Time
	ID            int64
}

func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRowContext(ctx, updateBlogPost,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.CoverImageURL,
		arg.Status,
		arg.PublishedAt,
		arg.ScheduledAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanBlogPost(row)
}

const deleteBlogPost = `DELETE FROM blog_posts WHERE id = ?`

func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteBlogPost, id)
	return err
}

const listScheduledBlogPostsDue = `SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE status = 'draft' AND scheduled_at IS NOT NULL AND scheduled_at <= ?
ORDER BY scheduled_at`

func (q *Queries) ListScheduledBlogPostsDue(ctx context.Context, now time.Time) ([]BlogPost, error) {
	rows, err := q.db.QueryContext(ctx, listScheduledBlogPostsDue, now)
	if err != nil {
		return nil, err
	}
	return collectBlogPosts(rows)
}

const publishScheduledBlogPost = `UPDATE blog_posts
SET status = 'published', published_at = ?, scheduled_at = NULL, updated_at = ?
WHERE id = ? AND status = 'draft'`

type PublishScheduledBlogPostParams struct {
	PublishedAt time.Time
	UpdatedAt   time.Time
	ID          int64
}

// PublishScheduledBlogPost returns the number of rows changed; zero means the
// post was edited or published by someone else in the meantime.
func (q *Queries) PublishScheduledBlogPost(ctx context.Context, arg PublishScheduledBlogPostParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, publishScheduledBlogPost, arg.PublishedAt, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
