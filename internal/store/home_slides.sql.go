// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const homeSlideColumns = `id, title, subtitle, image_url, link_url, button_text, sort_order, is_active, created_at, updated_at`

func scanHomeSlide(row interface{ Scan(...any) error }) (HomeSlide, error) {
	var s HomeSlide
	err := row.Scan(&s.ID, &s.Title, &s.Subtitle, &s.ImageURL, &s.LinkURL, &s.ButtonText, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const createHomeSlide = `INSERT INTO home_slides (title, subtitle, image_url, link_url, button_text, sort_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + homeSlideColumns

type CreateHomeSlideParams struct {
	Title      string
	Subtitle   string
	ImageURL   string
	LinkURL    string
	ButtonText string
	SortOrder  int64
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (q *Queries) CreateHomeSlide(ctx context.Context, arg CreateHomeSlideParams) (HomeSlide, error) {
	row := q.db.QueryRowContext(ctx, createHomeSlide,
		arg.Title, arg.Subtitle, arg.ImageURL, arg.LinkURL, arg.ButtonText, arg.SortOrder, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanHomeSlide(row)
}

const getHomeSlideByID = `SELECT ` + homeSlideColumns + ` FROM home_slides WHERE id = ?`

func (q *Queries) GetHomeSlideByID(ctx context.Context, id int64) (HomeSlide, error) {
	return scanHomeSlide(q.db.QueryRowContext(ctx, getHomeSlideByID, id))
}

const listHomeSlides = `SELECT ` + homeSlideColumns + ` FROM home_slides
WHERE (? = 0 OR is_active = 1)
ORDER BY sort_order, id`

func (q *Queries) ListHomeSlides(ctx context.Context, activeOnly bool) ([]HomeSlide, error) {
	rows, err := q.db.QueryContext(ctx, listHomeSlides, activeOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []HomeSlide{}
	for rows.Next() {
		s, err := scanHomeSlide(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateHomeSlide = `UPDATE home_slides SET title = ?, subtitle = ?, image_url = ?, link_url = ?, button_text = ?, sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + homeSlideColumns

type UpdateHomeSlideParams struct {
	Title      string
	Subtitle   string
	ImageURL   string
	LinkURL    string
	ButtonText string
	SortOrder  int64
	IsActive   bool
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) UpdateHomeSlide(ctx context.Context, arg UpdateHomeSlideParams) (HomeSlide, error) {
	row := q.db.QueryRowContext(ctx, updateHomeSlide,
		arg.Title, arg.Subtitle, arg.ImageURL, arg.LinkURL, arg.ButtonText, arg.SortOrder, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanHomeSlide(row)
}

const deleteHomeSlide = `DELETE FROM home_slides WHERE id = ?`

func (q *Queries) DeleteHomeSlide(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteHomeSlide, id)
	return err
}
