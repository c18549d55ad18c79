// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const announcementColumns = `id, message, link_url, link_text, variant, is_active, created_at, updated_at`

func scanAnnouncementBanner(row interface{ Scan(...any) error }) (AnnouncementBanner, error) {
	var a AnnouncementBanner
	err := row.Scan(&a.ID, &a.Message, &a.LinkURL, &a.LinkText, &a.Variant, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

const createAnnouncementBanner = `INSERT INTO announcement_banners (message, link_url, link_text, variant, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + announcementColumns

type CreateAnnouncementBannerParams struct {
	Message   string
	LinkURL   string
	LinkText  string
	Variant   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateAnnouncementBanner(ctx context.Context, arg CreateAnnouncementBannerParams) (AnnouncementBanner, error) {
	row := q.db.QueryRowContext(ctx, createAnnouncementBanner,
		arg.Message, arg.LinkURL, arg.LinkText, arg.Variant, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanAnnouncementBanner(row)
}

const getAnnouncementBannerByID = `SELECT ` + announcementColumns + ` FROM announcement_banners WHERE id = ?`

func (q *Queries) GetAnnouncementBannerByID(ctx context.Context, id int64) (AnnouncementBanner, error) {
	return scanAnnouncementBanner(q.db.QueryRowContext(ctx, getAnnouncementBannerByID, id))
}

const getActiveAnnouncementBanner = `SELECT ` + announcementColumns + ` FROM announcement_banners WHERE is_active = 1 LIMIT 1`

func (q *Queries) GetActiveAnnouncementBanner(ctx context.Context) (AnnouncementBanner, error) {
	return scanAnnouncementBanner(q.db.QueryRowContext(ctx, getActiveAnnouncementBanner))
}

const listAnnouncementBanners = `SELECT ` + announcementColumns + ` FROM announcement_banners ORDER BY is_active DESC, updated_at DESC, id DESC`

func (q *Queries) ListAnnouncementBanners(ctx context.Context) ([]AnnouncementBanner, error) {
	rows, err := q.db.QueryContext(ctx, listAnnouncementBanners)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []AnnouncementBanner{}
	for rows.Next() {
		a, err := scanAnnouncementBanner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const updateAnnouncementBanner = `UPDATE announcement_banners SET message = ?, link_url = ?, link_text = ?, variant = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + announcementColumns

type UpdateAnnouncementBannerParams struct {
	Message   string
	LinkURL   string
	LinkText  string
	Variant   string
	IsActive  bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateAnnouncementBanner(ctx context.Context, arg UpdateAnnouncementBannerParams) (AnnouncementBanner, error) {
	row := q.db.QueryRowContext(ctx, updateAnnouncementBanner,
		arg.Message, arg.LinkURL, arg.LinkText, arg.Variant, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanAnnouncementBanner(row)
}

const deleteAnnouncementBanner = `DELETE FROM announcement_banners WHERE id = ?`

func (q *Queries) DeleteAnnouncementBanner(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteAnnouncementBanner, id)
	return err
}
