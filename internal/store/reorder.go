// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"time"
)

// orderedTables lists the tables that carry a sort_order column.
var orderedTables = map[string]bool{
	"faqs":             true,
	"ministries":       true,
	"staff_members":    true,
	"mission_partners": true,
	"home_slides":      true,
}

// SetSortOrder assigns sort_order = position for each id in ids. Run it
// through ExecTx so a reorder lands as a whole.
func (q *Queries) SetSortOrder(ctx context.Context, table string, ids []int64) error {
	if !orderedTables[table] {
		return fmt.Errorf("table %q has no sort order", table)
	}
	query := `UPDATE ` + table + ` SET sort_order = ?, updated_at = ? WHERE id = ?`
	now := time.Now().UTC()
	for i, id := range ids {
		res, err := q.db.ExecContext(ctx, query, i, now, id)
		if err != nil {
			return fmt.Errorf("reordering %s id %d: %w", table, id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("reordering %s: %w", table, ErrNotFound)
		}
	}
	return nil
}
