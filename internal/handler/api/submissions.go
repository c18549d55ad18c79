// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/handler"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/service"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// SubmissionResponse is returned by the public form endpoints.
type SubmissionResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type contactBody struct {
	service.ContactInput
	CaptchaToken string `json:"captchaToken"`
}

type prayerBody struct {
	service.PrayerInput
	CaptchaToken string `json:"captchaToken"`
}

type volunteerBody struct {
	service.VolunteerInput
	CaptchaToken string `json:"captchaToken"`
}

// writeSubmitError maps submission service errors to responses.
func writeSubmitError(w http.ResponseWriter, kind string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteValidationError(w, ve.Fields)
	case errors.Is(err, service.ErrCaptchaFailed):
		WriteBadRequest(w, "Captcha verification failed")
	default:
		slog.Error("submission failed", "kind", kind, "error", err)
		WriteInternalError(w, "Failed to save your submission")
	}
}

func (h *Handler) submissionsAvailable(w http.ResponseWriter) bool {
	if h.submissions == nil {
		WriteError(w, http.StatusServiceUnavailable, "Submissions are unavailable")
		return false
	}
	return true
}

// SubmitContact handles POST /api/contact
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var body contactBody
	if !h.submissionsAvailable(w) || !decodeJSON(w, r, &body) {
		return
	}

	row, err := h.submissions.SubmitContact(r.Context(), body.ContactInput, service.RequestMeta{
		IP:           util.ClientIP(r),
		CaptchaToken: body.CaptchaToken,
	})
	if err != nil {
		writeSubmitError(w, service.KindContact, err)
		return
	}

	WriteOK(w, SubmissionResponse{
		Success: true,
		ID:      row.ID,
		Message: "Thank you for your message. We'll be in touch soon.",
	})
}

// SubmitPrayerRequest handles POST /api/prayer-requests
func (h *Handler) SubmitPrayerRequest(w http.ResponseWriter, r *http.Request) {
	var body prayerBody
	if !h.submissionsAvailable(w) || !decodeJSON(w, r, &body) {
		return
	}

	row, err := h.submissions.SubmitPrayer(r.Context(), body.PrayerInput, service.RequestMeta{
		IP:           util.ClientIP(r),
		CaptchaToken: body.CaptchaToken,
	})
	if err != nil {
		writeSubmitError(w, service.KindPrayer, err)
		return
	}

	WriteOK(w, SubmissionResponse{
		Success: true,
		ID:      row.ID,
		Message: "Your prayer request has been received. Our prayer team will be praying for you.",
	})
}

// SubmitVolunteer handles POST /api/volunteer
func (h *Handler) SubmitVolunteer(w http.ResponseWriter, r *http.Request) {
	var body volunteerBody
	if !h.submissionsAvailable(w) || !decodeJSON(w, r, &body) {
		return
	}

	row, err := h.submissions.SubmitVolunteer(r.Context(), body.VolunteerInput, service.RequestMeta{
		IP:           util.ClientIP(r),
		CaptchaToken: body.CaptchaToken,
	})
	if err != nil {
		writeSubmitError(w, service.KindVolunteer, err)
		return
	}

	WriteOK(w, SubmissionResponse{
		Success: true,
		ID:      row.ID,
		Message: "Thank you for volunteering! A ministry leader will contact you soon.",
	})
}

// Contact submissions

// ListContactSubmissions handles GET /api/admin/contact-submissions
func (h *Handler) ListContactSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	unread := handler.ParseBoolQuery(r, "unread")
	page := handler.ParsePage(r, handler.DefaultPerPage)

	items, err := h.queries.ListContactSubmissions(ctx, store.ListSubmissionsParams{
		UnreadOnly: unread,
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list contact submissions")
		return
	}
	total, err := h.queries.CountContactSubmissions(ctx, unread)
	if err != nil {
		WriteInternalError(w, "Failed to count contact submissions")
		return
	}

	if items == nil {
		items = []store.ContactSubmission{}
	}
	WriteOK(w, ListResponse[store.ContactSubmission]{Items: items, Meta: newMeta(total, page)})
}

// GetContactSubmission handles GET /api/admin/contact-submissions/{id}
func (h *Handler) GetContactSubmission(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "contact submission", h.queries.GetContactSubmissionByID)
}

// ContactSubmissionUpdate is the body for PUT /api/admin/contact-submissions/{id}.
type ContactSubmissionUpdate struct {
	IsRead bool `json:"isRead"`
}

// UpdateContactSubmission handles PUT /api/admin/contact-submissions/{id}
func (h *Handler) UpdateContactSubmission(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "contact submission", func(id int64) (store.ContactSubmission, error) {
		return h.queries.GetContactSubmissionByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req ContactSubmissionUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.queries.MarkContactSubmissionRead(r.Context(), existing.ID, req.IsRead)
	if err != nil {
		WriteInternalError(w, "Failed to update contact submission")
		return
	}
	WriteOK(w, updated)
}

// DeleteContactSubmission handles DELETE /api/admin/contact-submissions/{id}
func (h *Handler) DeleteContactSubmission(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "contact submission", h.queries.GetContactSubmissionByID, h.queries.DeleteContactSubmission)
}

// Prayer requests

// ListPrayerRequests handles GET /api/admin/prayer-requests
func (h *Handler) ListPrayerRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	unread := handler.ParseBoolQuery(r, "unread")
	page := handler.ParsePage(r, handler.DefaultPerPage)

	items, err := h.queries.ListPrayerRequests(ctx, store.ListSubmissionsParams{
		UnreadOnly: unread,
		Limit:      page.Limit(),
		Offset:     page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list prayer requests")
		return
	}
	total, err := h.queries.CountPrayerRequests(ctx, unread)
	if err != nil {
		WriteInternalError(w, "Failed to count prayer requests")
		return
	}

	if items == nil {
		items = []store.PrayerRequest{}
	}
	WriteOK(w, ListResponse[store.PrayerRequest]{Items: items, Meta: newMeta(total, page)})
}

// GetPrayerRequest handles GET /api/admin/prayer-requests/{id}
func (h *Handler) GetPrayerRequest(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "prayer request", h.queries.GetPrayerRequestByID)
}

// PrayerRequestUpdate is the body for PUT /api/admin/prayer-requests/{id}.
// Omitted flags keep their current value.
type PrayerRequestUpdate struct {
	IsRead     *bool `json:"isRead"`
	IsAnswered *bool `json:"isAnswered"`
}

// UpdatePrayerRequest handles PUT /api/admin/prayer-requests/{id}
func (h *Handler) UpdatePrayerRequest(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "prayer request", func(id int64) (store.PrayerRequest, error) {
		return h.queries.GetPrayerRequestByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req PrayerRequestUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.queries.UpdatePrayerRequestStatus(r.Context(), store.UpdatePrayerRequestStatusParams{
		IsRead:     activeOrDefault(req.IsRead, existing.IsRead),
		IsAnswered: activeOrDefault(req.IsAnswered, existing.IsAnswered),
		ID:         existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update prayer request")
		return
	}
	WriteOK(w, updated)
}

// DeletePrayerRequest handles DELETE /api/admin/prayer-requests/{id}
func (h *Handler) DeletePrayerRequest(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "prayer request", h.queries.GetPrayerRequestByID, h.queries.DeletePrayerRequest)
}

// Volunteer signups

// VolunteerSignupResponse represents a volunteer signup in API responses.
type VolunteerSignupResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	MinistryID   *int64    `json:"ministryId,omitempty"`
	Interests    string    `json:"interests"`
	Availability string    `json:"availability"`
	Message      string    `json:"message"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func storeVolunteerSignupToResponse(v store.VolunteerSignup) VolunteerSignupResponse {
	return VolunteerSignupResponse{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Phone:        v.Phone,
		MinistryID:   util.NullInt64ToPtr(v.MinistryID),
		Interests:    v.Interests,
		Availability: v.Availability,
		Message:      v.Message,
		Status:       v.Status,
		CreatedAt:    v.CreatedAt,
	}
}

// ListVolunteers handles GET /api/admin/volunteers
func (h *Handler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidVolunteerStatus(status) {
		WriteBadRequest(w, "Invalid status filter")
		return
	}
	page := handler.ParsePage(r, handler.DefaultPerPage)

	signups, err := h.queries.ListVolunteerSignups(ctx, store.ListVolunteerSignupsParams{
		Status: status,
		Limit:  page.Limit(),
		Offset: page.Offset(),
	})
	if err != nil {
		WriteInternalError(w, "Failed to list volunteers")
		return
	}
	total, err := h.queries.CountVolunteerSignups(ctx, status)
	if err != nil {
		WriteInternalError(w, "Failed to count volunteers")
		return
	}

	items := make([]VolunteerSignupResponse, 0, len(signups))
	for _, v := range signups {
		items = append(items, storeVolunteerSignupToResponse(v))
	}
	WriteOK(w, ListResponse[VolunteerSignupResponse]{Items: items, Meta: newMeta(total, page)})
}

// GetVolunteer handles GET /api/admin/volunteers/{id}
func (h *Handler) GetVolunteer(w http.ResponseWriter, r *http.Request) {
	signup, ok := requireEntityByID(w, r, "volunteer signup", func(id int64) (store.VolunteerSignup, error) {
		return h.queries.GetVolunteerSignupByID(r.Context(), id)
	})
	if !ok {
		return
	}
	WriteOK(w, storeVolunteerSignupToResponse(signup))
}

// VolunteerUpdate is the body for PUT /api/admin/volunteers/{id}.
type VolunteerUpdate struct {
	Status string `json:"status" validate:"required,oneof=pending contacted approved declined"`
}

// UpdateVolunteer handles PUT /api/admin/volunteers/{id}
func (h *Handler) UpdateVolunteer(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "volunteer signup", func(id int64) (store.VolunteerSignup, error) {
		return h.queries.GetVolunteerSignupByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req VolunteerUpdate
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	updated, err := h.queries.UpdateVolunteerSignupStatus(r.Context(), existing.ID, req.Status)
	if err != nil {
		WriteInternalError(w, "Failed to update volunteer signup")
		return
	}

	h.audit(r, "Volunteer status changed", map[string]any{"id": existing.ID, "from": existing.Status, "to": updated.Status})
	WriteOK(w, storeVolunteerSignupToResponse(updated))
}

// DeleteVolunteer handles DELETE /api/admin/volunteers/{id}
func (h *Handler) DeleteVolunteer(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "volunteer signup", h.queries.GetVolunteerSignupByID, h.queries.DeleteVolunteerSignup)
}
