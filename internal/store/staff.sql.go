// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const staffColumns = `id, name, title, bio, image_url, email, sort_order, is_active, created_at, updated_at`

func scanStaffMember(row interface{ Scan(...any) error }) (StaffMember, error) {
	var s StaffMember
	err := row.Scan(&s.ID, &s.Name, &s.Title, &s.Bio, &s.ImageURL, &s.Email, &s.SortOrder, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const createStaffMember = `INSERT INTO staff_members (name, title, bio, image_url, email, sort_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + staffColumns

type CreateStaffMemberParams struct {
	Name      string
	Title     string
	Bio       string
	ImageURL  string
	Email     string
	SortOrder int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateStaffMember(ctx context.Context, arg CreateStaffMemberParams) (StaffMember, error) {
	row := q.db.QueryRowContext(ctx, createStaffMember,
		arg.Name, arg.Title, arg.Bio, arg.ImageURL, arg.Email, arg.SortOrder, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanStaffMember(row)
}

const getStaffMemberByID = `SELECT ` + staffColumns + ` FROM staff_members WHERE id = ?`

func (q *Queries) GetStaffMemberByID(ctx context.Context, id int64) (StaffMember, error) {
	return scanStaffMember(q.db.QueryRowContext(ctx, getStaffMemberByID, id))
}

const listStaffMembers = `SELECT ` + staffColumns + ` FROM staff_members
WHERE (? = 0 OR is_active = 1)
ORDER BY sort_order, name`

func (q *Queries) ListStaffMembers(ctx context.Context, activeOnly bool) ([]StaffMember, error) {
	rows, err := q.db.QueryContext(ctx, listStaffMembers, activeOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []StaffMember{}
	for rows.Next() {
		s, err := scanStaffMember(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const updateStaffMember = `UPDATE staff_members SET name = ?, title = ?, bio = ?, image_url = ?, email = ?, sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + staffColumns

type UpdateStaffMemberParams struct {
	Name      string
	Title     string
	Bio       string
	ImageURL  string
	Email     string
	SortOrder int64
	IsActive  bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateStaffMember(ctx context.Context, arg UpdateStaffMemberParams) (StaffMember, error) {
	row := q.db.QueryRowContext(ctx, updateStaffMember,
		arg.Name, arg.Title, arg.Bio, arg.ImageURL, arg.Email, arg.SortOrder, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanStaffMember(row)
}

const deleteStaffMember = `DELETE FROM staff_members WHERE id = ?`

func (q *Queries) DeleteStaffMember(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteStaffMember, id)
	return err
}

const countStaffMembers = `SELECT COUNT(*) FROM staff_members`

func (q *Queries) CountStaffMembers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countStaffMembers).Scan(&n)
	return n, err
}
