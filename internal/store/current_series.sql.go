// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const currentSeriesColumns = `id, title, description, image_url, sermon_url, start_date, end_date, is_active, created_at, updated_at`

func scanCurrentSeries(row interface{ Scan(...any) error }) (CurrentSeries, error) {
	var s CurrentSeries
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Description,
		&s.ImageURL,
		&s.SermonURL,
		&s.StartDate,
		&s.EndDate,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const createCurrentSeries = `INSERT INTO current_series (title, description, image_url, sermon_url, start_date, end_date, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + currentSeriesColumns

type CreateCurrentSeriesParams struct {
	Title       string
	Description string
	ImageURL    string
	SermonURL   string
	StartDate   sql.NullTime
	EndDate     sql.NullTime
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateCurrentSeries(ctx context.Context, arg CreateCurrentSeriesParams) (CurrentSeries, error) {
	row := q.db.QueryRowContext(ctx, createCurrentSeries,
		arg.Title,
		arg.Description,
		arg.ImageURL,
		arg.SermonURL,
		arg.StartDate,
		arg.EndDate,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanCurrentSeries(row)
}

const getCurrentSeriesByID = `SELECT ` + currentSeriesColumns + ` FROM current_series WHERE id = ?`

func (q *Queries) GetCurrentSeriesByID(ctx context.Context, id int64) (CurrentSeries, error) {
	return scanCurrentSeries(q.db.QueryRowContext(ctx, getCurrentSeriesByID, id))
}

const getActiveCurrentSeries = `SELECT ` + currentSeriesColumns + ` FROM current_series WHERE is_active = 1 LIMIT 1`

func (q *Queries) GetActiveCurrentSeries(ctx context.Context) (CurrentSeries, error) {
	return scanCurrentSeries(q.db.QueryRowContext(ctx, getActiveCurrentSeries))
}

const listCurrentSeries = `SELECT ` + currentSeriesColumns + ` FROM current_series ORDER BY is_active DESC, start_date DESC, id DESC`

func (q *Queries) ListCurrentSeries(ctx context.Context) ([]CurrentSeries, error) {
	rows, err := q.db.QueryContext(ctx, listCurrentSeries)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CurrentSeries{}
	for rows.Next() {
		s, err := scanCurrentSeries(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const countActiveCurrentSeries = `SELECT COUNT(*) FROM current_series WHERE is_active = 1`

func (q *Queries) CountActiveCurrentSeries(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countActiveCurrentSeries).Scan(&n)
	return n, err
}

const updateCurrentSeries = `UPDATE current_series SET
    title = ?, description = ?, image_url = ?, sermon_url = ?, start_date = ?, end_date = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + currentSeriesColumns

type UpdateCurrentSeriesParams struct {
	Title       string
	Description string
	ImageURL    string
	SermonURL   string
	StartDate   sql.NullTime
	EndDate     sql.NullTime
	IsActive    bool
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateCurrentSeries(ctx context.Context, arg UpdateCurrentSeriesParams) (CurrentSeries, error) {
	row := q.db.QueryRowContext(ctx, updateCurrentSeries,
		arg.Title,
		arg.Description,
		arg.ImageURL,
		arg.SermonURL,
		arg.StartDate,
		arg.EndDate,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanCurrentSeries(row)
}

const deleteCurrentSeries = `DELETE FROM current_series WHERE id = ?`

func (q *Queries) DeleteCurrentSeries(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteCurrentSeries, id)
	return err
}
