// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const uploadColumns = `id, key, endpoint, original_name, mime_type, size, url, uploaded_by, created_at`

func scanUpload(row interface{ Scan(...any) error }) (Upload, error) {
	var u Upload
	err := row.Scan(&u.ID, &u.Key, &u.Endpoint, &u.OriginalName, &u.MimeType, &u.Size, &u.URL, &u.UploadedBy, &u.CreatedAt)
	return u, err
}

const createUpload = `INSERT INTO uploads (key, endpoint, original_name, mime_type, size, url, uploaded_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + uploadColumns

type CreateUploadParams struct {
	Key          string
	Endpoint     string
	OriginalName string
	MimeType     string
	Size         int64
	URL          string
	UploadedBy   sql.NullInt64
	CreatedAt    time.Time
}

func (q *Queries) CreateUpload(ctx context.Context, arg CreateUploadParams) (Upload, error) {
	row := q.db.QueryRowContext(ctx, createUpload,
		arg.Key, arg.Endpoint, arg.OriginalName, arg.MimeType, arg.Size, arg.URL, arg.UploadedBy, arg.CreatedAt)
	return scanUpload(row)
}

const getUploadByKey = `SELECT ` + uploadColumns + ` FROM uploads WHERE key = ?`

func (q *Queries) GetUploadByKey(ctx context.Context, key string) (Upload, error) {
	return scanUpload(q.db.QueryRowContext(ctx, getUploadByKey, key))
}

const listUploads = `SELECT ` + uploadColumns + ` FROM uploads
WHERE (? = '' OR endpoint = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListUploadsParams struct {
	Endpoint string
	Limit    int64
	Offset   int64
}

func (q *Queries) ListUploads(ctx context.Context, arg ListUploadsParams) ([]Upload, error) {
	rows, err := q.db.QueryContext(ctx, listUploads, arg.Endpoint, arg.Endpoint, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Upload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}

const deleteUpload = `DELETE FROM uploads WHERE key = ?`

func (q *Queries) DeleteUpload(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteUpload, key)
	return err
}
