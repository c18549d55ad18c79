// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const faqColumns = `id, question, answer, category, sort_order, is_active, created_at, updated_at`

func scanFaq(row interface{ Scan(...any) error }) (Faq, error) {
	var f Faq
	err := row.Scan(&f.ID, &f.Question, &f.Answer, &f.Category, &f.SortOrder, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

const createFaq = `INSERT INTO faqs (question, answer, category, sort_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + faqColumns

type CreateFaqParams struct {
	Question  string
	Answer    string
	Category  string
	SortOrder int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateFaq(ctx context.Context, arg CreateFaqParams) (Faq, error) {
	row := q.db.QueryRowContext(ctx, createFaq,
		arg.Question, arg.Answer, arg.Category, arg.SortOrder, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanFaq(row)
}

const getFaqByID = `SELECT ` + faqColumns + ` FROM faqs WHERE id = ?`

func (q *Queries) GetFaqByID(ctx context.Context, id int64) (Faq, error) {
	return scanFaq(q.db.QueryRowContext(ctx, getFaqByID, id))
}

const listFaqs = `SELECT ` + faqColumns + ` FROM faqs
WHERE (? = 0 OR is_active = 1)
ORDER BY sort_order, id`

// ListFaqs returns FAQs in display order; activeOnly hides inactive rows.
func (q *Queries) ListFaqs(ctx context.Context, activeOnly bool) ([]Faq, error) {
	rows, err := q.db.QueryContext(ctx, listFaqs, activeOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Faq{}
	for rows.Next() {
		f, err := scanFaq(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

const updateFaq = `UPDATE faqs SET question = ?, answer = ?, category = ?, sort_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + faqColumns

type UpdateFaqParams struct {
	Question  string
	Answer    string
	Category  string
	SortOrder int64
	IsActive  bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateFaq(ctx context.Context, arg UpdateFaqParams) (Faq, error) {
	row := q.db.QueryRowContext(ctx, updateFaq,
		arg.Question, arg.Answer, arg.Category, arg.SortOrder, arg.IsActive, arg.UpdatedAt, arg.ID)
	return scanFaq(row)
}

const deleteFaq = `DELETE FROM faqs WHERE id = ?`

func (q *Queries) DeleteFaq(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteFaq, id)
	return err
}

const countFaqs = `SELECT COUNT(*) FROM faqs`

func (q *Queries) CountFaqs(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countFaqs).Scan(&n)
	return n, err
}
