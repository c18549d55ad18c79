// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// Contact submissions

const contactColumns = `id, name, email, phone, subject, message, is_read, created_at`

func scanContactSubmission(row interface{ Scan(...any) error }) (ContactSubmission, error) {
	var c ContactSubmission
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.IsRead, &c.CreatedAt)
	return c, err
}

const createContactSubmission = `INSERT INTO contact_submissions (name, email, phone, subject, message, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + contactColumns

type CreateContactSubmissionParams struct {
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	CreatedAt time.Time
}

func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, createContactSubmission,
		arg.Name, arg.Email, arg.Phone, arg.Subject, arg.Message, arg.CreatedAt)
	return scanContactSubmission(row)
}

const getContactSubmissionByID = `SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = ?`

func (q *Queries) GetContactSubmissionByID(ctx context.Context, id int64) (ContactSubmission, error) {
	return scanContactSubmission(q.db.QueryRowContext(ctx, getContactSubmissionByID, id))
}

const listContactSubmissions = `SELECT ` + contactColumns + ` FROM contact_submissions
WHERE (? = 0 OR is_read = 0)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListSubmissionsParams struct {
	UnreadOnly bool
	Limit      int64
	Offset     int64
}

func (q *Queries) ListContactSubmissions(ctx context.Context, arg ListSubmissionsParams) ([]ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx, listContactSubmissions, arg.UnreadOnly, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []ContactSubmission{}
	for rows.Next() {
		c, err := scanContactSubmission(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const countContactSubmissions = `SELECT COUNT(*) FROM contact_submissions WHERE (? = 0 OR is_read = 0)`

func (q *Queries) CountContactSubmissions(ctx context.Context, unreadOnly bool) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countContactSubmissions, unreadOnly).Scan(&n)
	return n, err
}

const markContactSubmissionRead = `UPDATE contact_submissions SET is_read = ? WHERE id = ? RETURNING ` + contactColumns

func (q *Queries) MarkContactSubmissionRead(ctx context.Context, id int64, isRead bool) (ContactSubmission, error) {
	return scanContactSubmission(q.db.QueryRowContext(ctx, markContactSubmissionRead, isRead, id))
}

const deleteContactSubmission = `DELETE FROM contact_submissions WHERE id = ?`

func (q *Queries) DeleteContactSubmission(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteContactSubmission, id)
	return err
}

// Prayer requests

const prayerColumns = `id, name, email, request, is_anonymous, is_public, is_read, is_answered, created_at`

func scanPrayerRequest(row interface{ Scan(...any) error }) (PrayerRequest, error) {
	var p PrayerRequest
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Request, &p.IsAnonymous, &p.IsPublic, &p.IsRead, &p.IsAnswered, &p.CreatedAt)
	return p, err
}

const createPrayerRequest = `INSERT INTO prayer_requests (name, email, request, is_anonymous, is_public, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + prayerColumns

type CreatePrayerRequestParams struct {
	Name        string
	Email       string
	Request     string
	IsAnonymous bool
	IsPublic    bool
	CreatedAt   time.Time
}

func (q *Queries) CreatePrayerRequest(ctx context.Context, arg CreatePrayerRequestParams) (PrayerRequest, error) {
	row := q.db.QueryRowContext(ctx, createPrayerRequest,
		arg.Name, arg.Email, arg.Request, arg.IsAnonymous, arg.IsPublic, arg.CreatedAt)
	return scanPrayerRequest(row)
}

const getPrayerRequestByID = `SELECT ` + prayerColumns + ` FROM prayer_requests WHERE id = ?`

func (q *Queries) GetPrayerRequestByID(ctx context.Context, id int64) (PrayerRequest, error) {
	return scanPrayerRequest(q.db.QueryRowContext(ctx, getPrayerRequestByID, id))
}

const listPrayerRequests = `SELECT ` + prayerColumns + ` FROM prayer_requests
WHERE (? = 0 OR is_read = 0)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

func (q *Queries) ListPrayerRequests(ctx context.Context, arg ListSubmissionsParams) ([]PrayerRequest, error) {
	rows, err := q.db.QueryContext(ctx, listPrayerRequests, arg.UnreadOnly, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []PrayerRequest{}
	for rows.Next() {
		p, err := scanPrayerRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const countPrayerRequests = `SELECT COUNT(*) FROM prayer_requests WHERE (? = 0 OR is_read = 0)`

func (q *Queries) CountPrayerRequests(ctx context.Context, unreadOnly bool) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countPrayerRequests, unreadOnly).Scan(&n)
	return n, err
}

const updatePrayerRequestStatus = `UPDATE prayer_requests SET is_read = ?, is_answered = ? WHERE id = ? RETURNING ` + prayerColumns

type UpdatePrayerRequestStatusParams struct {
	IsRead     bool
	IsAnswered bool
	ID         int64
}

func (q *Queries) UpdatePrayerRequestStatus(ctx context.Context, arg UpdatePrayerRequestStatusParams) (PrayerRequest, error) {
	return scanPrayerRequest(q.db.QueryRowContext(ctx, updatePrayerRequestStatus, arg.IsRead, arg.IsAnswered, arg.ID))
}

const deletePrayerRequest = `DELETE FROM prayer_requests WHERE id = ?`

func (q *Queries) DeletePrayerRequest(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deletePrayerRequest, id)
	return err
}

// Volunteer signups

const volunteerColumns = `id, name, email, phone, ministry_id, interests, availability, message, status, created_at`

func scanVolunteerSignup(row interface{ Scan(...any) error }) (VolunteerSignup, error) {
	var v VolunteerSignup
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Email,
		&v.Phone,
		&v.MinistryID,
		&v.Interests,
		&v.Availability,
		&v.Message,
		&v.Status,
		&v.CreatedAt,
	)
	return v, err
}

const createVolunteerSignup = `INSERT INTO volunteer_signups (name, email, phone, ministry_id, interests, availability, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + volunteerColumns

type CreateVolunteerSignupParams struct {
	Name         string
	Email        string
	Phone        string
	MinistryID   sql.NullInt64
	Interests    string
	Availability string
	Message      string
	CreatedAt    time.Time
}

func (q *Queries) CreateVolunteerSignup(ctx context.Context, arg CreateVolunteerSignupParams) (VolunteerSignup, error) {
	row := q.db.QueryRowContext(ctx, createVolunteerSignup,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.MinistryID,
		arg.Interests,
		arg.Availability,
		arg.Message,
		arg.CreatedAt,
	)
	return scanVolunteerSignup(row)
}

const getVolunteerSignupByID = `SELECT ` + volunteerColumns + ` FROM volunteer_signups WHERE id = ?`

func (q *Queries) GetVolunteerSignupByID(ctx context.Context, id int64) (VolunteerSignup, error) {
	return scanVolunteerSignup(q.db.QueryRowContext(ctx, getVolunteerSignupByID, id))
}

const listVolunteerSignups = `SELECT ` + volunteerColumns + ` FROM volunteer_signups
WHERE (? = '' OR status = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListVolunteerSignupsParams struct {
	Status string
	Limit  int64
	Offset int64
}

func (q *Queries) ListVolunteerSignups(ctx context.Context, arg ListVolunteerSignupsParams) ([]VolunteerSignup, error) {
	rows, err := q.db.QueryContext(ctx, listVolunteerSignups, arg.Status, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []VolunteerSignup{}
	for rows.Next() {
		v, err := scanVolunteerSignup(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

const countVolunteerSignups = `SELECT COUNT(*) FROM volunteer_signups WHERE (? = '' OR status = ?)`

func (q *Queries) CountVolunteerSignups(ctx context.Context, status string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countVolunteerSignups, status, status).Scan(&n)
	return n, err
}

const updateVolunteerSignupStatus = `UPDATE volunteer_signups SET status = ? WHERE id = ? RETURNING ` + volunteerColumns

func (q *Queries) UpdateVolunteerSignupStatus(ctx context.Context, id int64, status string) (VolunteerSignup, error) {
	return scanVolunteerSignup(q.db.QueryRowContext(ctx, updateVolunteerSignupStatus, status, id))
}

const deleteVolunteerSignup = `DELETE FROM volunteer_signups WHERE id = ?`

func (q *Queries) DeleteVolunteerSignup(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteVolunteerSignup, id)
	return err
}
