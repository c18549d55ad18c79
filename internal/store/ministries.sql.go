// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const ministryColumns = `id, name, slug, description, image_url, leader_name, meeting_time, contact_email, sort_order, is_active, created_at, updated_at`

func scanMinistry(row interface{ Scan(...any) error }) (Ministry, error) {
	var m Ministry
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.Description,
		&m.ImageURL,
		&m.LeaderName,
		&m.MeetingTime,
		&m.ContactEmail,
		&m.SortOrder,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

const createMinistry = `INSERT INTO ministries (name, slug, description, image_url, leader_name, meeting_time, contact_email, sort_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + ministryColumns

type CreateMinistryParams struct {
	Name         string
	Slug         string
	Description  string
	ImageURL     string
	LeaderName   string
	MeetingTime  string
	ContactEmail string
	SortOrder    int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateMinistry(ctx context.Context, arg CreateMinistryParams) (Ministry, error) {
	row := q.db.QueryRowContext(ctx, createMinistry,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.ImageURL,
		arg.LeaderName,
		arg.MeetingTime,
		arg.ContactEmail,
		arg.SortOrder,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMinistry(row)
}

const getMinistryByID = `SELECT ` + ministryColumns + ` FROM ministries WHERE id = ?`

func (q *Queries) GetMinistryByID(ctx context.Context, id int64) (Ministry, error) {
	return scanMinistry(q.db.QueryRowContext(ctx, getMinistryByID, id))
}

const listMinistries = `SELECT ` + ministryColumns + ` FROM ministries
WHERE (? = 0 OR is_active = 1)
ORDER BY sort_order, name`

func (q *Queries) ListMinistries(ctx context.Context, activeOnly bool) ([]Ministry, error) {
	rows, err := q.db.QueryContext(ctx, listMinistries, activeOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Ministry{}
	for rows.Next() {
		m, err := scanMinistry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const ministrySlugExists = `SELECT EXISTS(SELECT 1 FROM ministries WHERE slug = ? AND id != ?)`

func (q *Queries) MinistrySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, ministrySlugExists, slug, excludeID).Scan(&exists)
	return exists, err
}

const updateMinistry = `UPDATE ministries SET
    name = ?, slug = ?, description = ?, image_url = ?, leader_name = ?,
    meeting_time = ?, contact_email = ?, sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + ministryColumns

type UpdateMinistryParams struct {
	Name         string
	Slug         string
	Description  string
	ImageURL     string
	LeaderName   string
	MeetingTime  string
	ContactEmail string
	SortOrder    int64
	IsActive     bool
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateMinistry(ctx context.Context, arg UpdateMinistryParams) (Ministry, error) {
	row := q.db.QueryRowContext(ctx, updateMinistry,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.ImageURL,
		arg.LeaderName,
		arg.MeetingTime,
		arg.ContactEmail,
		arg.SortOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanMinistry(row)
}

const deleteMinistry = `DELETE FROM ministries WHERE id = ?`

func (q *Queries) DeleteMinistry(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMinistry, id)
	return err
}

const countMinistries = `SELECT COUNT(*) FROM ministries`

func (q *Queries) CountMinistries(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countMinistries).Scan(&n)
	return n, err
}
