// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const donateSettingColumns = `id, title, description, donate_url, button_text, is_active, created_at, updated_at`

func scanDonateSetting(row interface{ Scan(...any) error }) (DonateSetting, error) {
	var d DonateSetting
	err := row.Scan(&d.ID, &d.Title, &d.Description, &d.DonateURL, &d.ButtonText, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

const createDonateSetting = `INSERT INTO donate_settings (title, description, donate_url, button_text, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + donateSettingColumns

type CreateDonateSettingParams struct {
	Title       string
	Description string
	DonateURL   string
	ButtonText  string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateDonateSetting(ctx context.Context, arg CreateDonateSettingParams) (DonateSetting, error) {
	row := q.db.QueryRowContext(ctx, createDonateSetting,
		arg.Title, arg.Description, arg.DonateURL, arg.ButtonText, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanDonateSetting(row)
}

const getDonateSettingByID = `SELECT ` + donateSettingColumns + ` FROM donate_settings WHERE id = ?`

func (q *Queries) GetDonateSettingByID(ctx context.Context, id int64) (DonateSetting, error) {
	return scanDonateSetting(q.db.QueryRowContext(ctx, getDonateSettingByID, id))
}

const getActiveDonateSetting = `SELECT ` + donateSettingColumns + ` FROM donate_settings WHERE is_active = 1 LIMIT 1`

func (q *Queries) GetActiveDonateSetting(ctx context.Context) (DonateSetting, error) {
	return scanDonateSetting(q.db.QueryRowContext(ctx, getActiveDonateSetting))
}

const listDonateSettings = `SELECT ` + donateSettingColumns + ` FROM donate_settings ORDER BY is_active DESC, updated_at DESC, id DESC`

func (q *Queries) ListDonateSettings(ctx context.Context) ([]DonateSetting, error) {
	rows, err := q.db.QueryContext(ctx, listDonateSettings)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []DonateSetting{}
	for rows.Next() {
		d, err := scanDonateSetting(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const updateDonateSetting = `UPDATE donate_settings SET title = ?, description = ?, donate_url = ?, button_text = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + donateSettingColumns

type UpdateDonateSettingParams struct {
	Title       string
	Description string
	DonateURL   string
	ButtonText  string
	IsActive    bool
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateDonateSetting(ctx context.Context, arg UpdateDonateSettingParams) (DonateSetting, error) {
	row := q.db.QueryRowContext(ctx, updateDonateSetting,
		arg.Title, arg.Description, arg.DonateURL, arg.ButtonText, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanDonateSetting(row)
}

const deleteDonateSetting = `DELETE FROM donate_settings WHERE id = ?`

func (q *Queries) DeleteDonateSetting(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteDonateSetting, id)
	return err
}
