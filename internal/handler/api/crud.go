// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/sanctuary-web/sanctuary/internal/store"
)

// fetchFunc loads one row by primary key.
type fetchFunc[T any] func(ctx context.Context, id int64) (T, error)

// getEntity writes the row addressed by the {id} URL parameter.
func getEntity[T any](w http.ResponseWriter, r *http.Request, entityName string, fetch fetchFunc[T]) {
	entity, ok := requireEntityByID(w, r, entityName, func(id int64) (T, error) {
		return fetch(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteOK(w, entity)
}

// deleteEntity removes the row addressed by {id}. The row is loaded first so
// a missing row reports 404 rather than a silent success.
func deleteEntity[T any](h *Handler, w http.ResponseWriter, r *http.Request, entityName string, fetch fetchFunc[T], del func(ctx context.Context, id int64) error) {
	ctx := r.Context()

	var id int64
	if _, ok := requireEntityByID(w, r, entityName, func(v int64) (T, error) {
		id = v
		return fetch(ctx, v)
	}); !ok {
		return
	}

	if err := del(ctx, id); err != nil {
		WriteInternalError(w, "Failed to delete "+entityName)
		return
	}

	h.audit(r, capitalizeFirst(entityName)+" deleted", map[string]any{"id": id})
	WriteOK(w, map[string]any{"success": true})
}

// ReorderRequest lists ids in their new display order.
type ReorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,max=500"`
}

// reorder assigns sort_order by position inside one transaction.
func (h *Handler) reorder(w http.ResponseWriter, r *http.Request, table string) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, req) {
		return
	}

	err := store.ExecTx(r.Context(), h.db, func(q *store.Queries) error {
		return q.SetSortOrder(r.Context(), table, req.IDs)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteBadRequest(w, "Unknown id in reorder list")
			return
		}
		WriteInternalError(w, "Failed to reorder")
		return
	}

	h.audit(r, "Reordered "+table, map[string]any{"ids": req.IDs})
	WriteOK(w, map[string]any{"success": true})
}

// activeOrDefault resolves an optional is_active flag.
func activeOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
