// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const missionPartnerColumns = `id, name, description, location, website_url, image_url, sort_order, is_active, created_at, updated_at`

func scanMissionPartner(row interface{ Scan(...any) error }) (MissionPartner, error) {
	var m MissionPartner
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Location, &m.WebsiteURL, &m.ImageURL, &m.SortOrder, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const createMissionPartner = `INSERT INTO mission_partners (name, description, location, website_url, image_url, sort_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + missionPartnerColumns

type CreateMissionPartnerParams struct {
	Name        string
	Description string
	Location    string
	WebsiteURL  string
	ImageURL    string
	SortOrder   int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateMissionPartner(ctx context.Context, arg CreateMissionPartnerParams) (MissionPartner, error) {
	row := q.db.QueryRowContext(ctx, createMissionPartner,
		arg.Name, arg.Description, arg.Location, arg.WebsiteURL, arg.ImageURL, arg.SortOrder, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanMissionPartner(row)
}

const getMissionPartnerByID = `SELECT ` + missionPartnerColumns + ` FROM mission_partners WHERE id = ?`

func (q *Queries) GetMissionPartnerByID(ctx context.Context, id int64) (MissionPartner, error) {
	return scanMissionPartner(q.db.QueryRowContext(ctx, getMissionPartnerByID, id))
}

const listMissionPartners = `SELECT ` + missionPartnerColumns + ` FROM mission_partners
WHERE (? = 0 OR is_active = 1)
ORDER BY sort_order, name`

func (q *Queries) ListMissionPartners(ctx context.Context, activeOnly bool) ([]MissionPartner, error) {
	rows, err := q.db.QueryContext(ctx, listMissionPartners, activeOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []MissionPartner{}
	for rows.Next() {
		m, err := scanMissionPartner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const updateMissionPartner = `UPDATE mission_partners SET name = ?, description = ?, location = ?, website_url = ?, image_url = ?, sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + missionPartnerColumns

type UpdateMissionPartnerParams struct {
	Name        string
	Description string
	Location    string
	WebsiteURL  string
	ImageURL    string
	SortOrder   int64
	IsActive    bool
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateMissionPartner(ctx context.Context, arg UpdateMissionPartnerParams) (MissionPartner, error) {
	row := q.db.QueryRowContext(ctx, updateMissionPartner,
		arg.Name, arg.Description, arg.Location, arg.WebsiteURL, arg.ImageURL, arg.SortOrder, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanMissionPartner(row)
}

const deleteMissionPartner = `DELETE FROM mission_partners WHERE id = ?`

func (q *Queries) DeleteMissionPartner(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteMissionPartner, id)
	return err
}
