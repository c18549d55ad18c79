// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ErrNotFound aliases sql.ErrNoRows so callers need a single errors.Is check.
var ErrNotFound = sql.ErrNoRows

// Tables that allow at most one row with is_active = 1.
const (
	TableAnnouncementBanners = "announcement_banners"
	TableDonateSettings      = "donate_settings"
	TableCurrentSeries       = "current_series"
)

var singleActiveTables = map[string]bool{
	TableAnnouncementBanners: true,
	TableDonateSettings:      true,
	TableCurrentSeries:       true,
}

// DeactivateOthers clears is_active on every row of table except keepID.
// Pass keepID = 0 to clear all rows.
func (q *Queries) DeactivateOthers(ctx context.Context, table string, keepID int64) error {
	if !singleActiveTables[table] {
		return fmt.Errorf("table %q is not single-active", table)
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE `+table+` SET is_active = 0, updated_at = ? WHERE is_active = 1 AND id != ?`,
		time.Now().UTC(), keepID)
	if err != nil {
		return fmt.Errorf("deactivating %s: %w", table, err)
	}
	return nil
}

// MarkActive sets is_active on a single row. Callers must clear the other
// rows first, otherwise the partial unique index rejects the update.
func (q *Queries) MarkActive(ctx context.Context, table string, id int64) error {
	if !singleActiveTables[table] {
		return fmt.Errorf("table %q is not single-active", table)
	}
	res, err := q.db.ExecContext(ctx,
		`UPDATE `+table+` SET is_active = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("activating %s id %d: %w", table, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate makes id the only active row of table in one transaction.
func Activate(ctx context.Context, db *sql.DB, table string, id int64) error {
	return ExecTx(ctx, db, func(q *Queries) error {
		if err := q.DeactivateOthers(ctx, table, id); err != nil {
			return err
		}
		return q.MarkActive(ctx, table, id)
	})
}
