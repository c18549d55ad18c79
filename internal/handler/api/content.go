// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// FAQs

// FaqRequest is the body for creating or replacing an FAQ.
type FaqRequest struct {
	Question  string `json:"question" validate:"required,max=500"`
	Answer    string `json:"answer" validate:"required,max=5000"`
	Category  string `json:"category" validate:"max=100"`
	SortOrder int64  `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
}

// ListFaqs handles GET /api/admin/faqs
func (h *Handler) ListFaqs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.queries.ListFaqs(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list FAQs")
		return
	}
	WriteOK(w, faqs)
}

// GetFaq handles GET /api/admin/faqs/{id}
func (h *Handler) GetFaq(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "FAQ", h.queries.GetFaqByID)
}

// CreateFaq handles POST /api/admin/faqs
func (h *Handler) CreateFaq(w http.ResponseWriter, r *http.Request) {
	var req FaqRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	now := h.now()
	faq, err := h.queries.CreateFaq(r.Context(), store.CreateFaqParams{
		Question:  strings.TrimSpace(req.Question),
		Answer:    req.Answer,
		Category:  strings.TrimSpace(req.Category),
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive, true),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create faq", "error", err)
		WriteInternalError(w, "Failed to create FAQ")
		return
	}

	h.audit(r, "FAQ created", map[string]any{"id": faq.ID})
	WriteCreated(w, faq)
}

// UpdateFaq handles PUT /api/admin/faqs/{id}
func (h *Handler) UpdateFaq(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "FAQ", func(id int64) (store.Faq, error) {
		return h.queries.GetFaqByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req FaqRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	faq, err := h.queries.UpdateFaq(r.Context(), store.UpdateFaqParams{
		Question:  strings.TrimSpace(req.Question),
		Answer:    req.Answer,
		Category:  strings.TrimSpace(req.Category),
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive, existing.IsActive),
		UpdatedAt: h.now(),
		ID:        existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update FAQ")
		return
	}

	h.audit(r, "FAQ updated", map[string]any{"id": faq.ID})
	WriteOK(w, faq)
}

// DeleteFaq handles DELETE /api/admin/faqs/{id}
func (h *Handler) DeleteFaq(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "FAQ", h.queries.GetFaqByID, h.queries.DeleteFaq)
}

// ReorderFaqs handles POST /api/admin/faqs/reorder
func (h *Handler) ReorderFaqs(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "faqs")
}

// PublicFaqs handles GET /api/faqs
func (h *Handler) PublicFaqs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.queries.ListFaqs(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list FAQs")
		return
	}
	WriteOK(w, faqs)
}

// Ministries

// MinistryRequest is the body for creating or replacing a ministry.
type MinistryRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Slug         string `json:"slug" validate:"max=120"`
	Description  string `json:"description" validate:"max=10000"`
	ImageURL     string `json:"imageUrl" validate:"max=500"`
	LeaderName   string `json:"leaderName" validate:"max=200"`
	MeetingTime  string `json:"meetingTime" validate:"max=200"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email,max=254"`
	SortOrder    int64  `json:"sortOrder"`
	IsActive     *bool  `json:"isActive"`
}

// checkMinistrySlug fills in a default slug and rejects invalid or taken ones.
func (h *Handler) checkMinistrySlug(w http.ResponseWriter, r *http.Request, req *MinistryRequest, excludeID int64) bool {
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.TrimSpace(req.Slug)
	if req.Slug == "" {
		req.Slug = util.Slugify(req.Name)
	}
	if !util.IsValidSlug(req.Slug) {
		WriteValidationError(w, map[string]string{"slug": "must contain only lowercase letters, numbers and single hyphens"})
		return false
	}

	exists, err := h.queries.MinistrySlugExists(r.Context(), req.Slug, excludeID)
	if err != nil {
		WriteInternalError(w, "Failed to check slug")
		return false
	}
	if exists {
		WriteValidationError(w, map[string]string{"slug": "already exists"})
		return false
	}
	return true
}

// ListMinistries handles GET /api/admin/ministries
func (h *Handler) ListMinistries(w http.ResponseWriter, r *http.Request) {
	ministries, err := h.queries.ListMinistries(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list ministries")
		return
	}
	WriteOK(w, ministries)
}

// GetMinistry handles GET /api/admin/ministries/{id}
func (h *Handler) GetMinistry(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "ministry", h.queries.GetMinistryByID)
}

// CreateMinistry handles POST /api/admin/ministries
func (h *Handler) CreateMinistry(w http.ResponseWriter, r *http.Request) {
	var req MinistryRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}
	if !h.checkMinistrySlug(w, r, &req, 0) {
		return
	}

	now := h.now()
	ministry, err := h.queries.CreateMinistry(r.Context(), store.CreateMinistryParams{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		LeaderName:   req.LeaderName,
		MeetingTime:  req.MeetingTime,
		ContactEmail: req.ContactEmail,
		SortOrder:    req.SortOrder,
		IsActive:     activeOrDefault(req.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create ministry", "error", err)
		WriteInternalError(w, "Failed to create ministry")
		return
	}

	h.audit(r, "Ministry created", map[string]any{"id": ministry.ID, "slug": ministry.Slug})
	WriteCreated(w, ministry)
}

// UpdateMinistry handles PUT /api/admin/ministries/{id}
func (h *Handler) UpdateMinistry(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "ministry", func(id int64) (store.Ministry, error) {
		return h.queries.GetMinistryByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req MinistryRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}
	if !h.checkMinistrySlug(w, r, &req, existing.ID) {
		return
	}

	ministry, err := h.queries.UpdateMinistry(r.Context(), store.UpdateMinistryParams{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		LeaderName:   req.LeaderName,
		MeetingTime:  req.MeetingTime,
		ContactEmail: req.ContactEmail,
		SortOrder:    req.SortOrder,
		IsActive:     activeOrDefault(req.IsActive, existing.IsActive),
		UpdatedAt:    h.now(),
		ID:           existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update ministry")
		return
	}

	h.audit(r, "Ministry updated", map[string]any{"id": ministry.ID})
	WriteOK(w, ministry)
}

// DeleteMinistry handles DELETE /api/admin/ministries/{id}
func (h *Handler) DeleteMinistry(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "ministry", h.queries.GetMinistryByID, h.queries.DeleteMinistry)
}

// ReorderMinistries handles POST /api/admin/ministries/reorder
func (h *Handler) ReorderMinistries(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "ministries")
}

// PublicMinistries handles GET /api/ministries
func (h *Handler) PublicMinistries(w http.ResponseWriter, r *http.Request) {
	ministries, err := h.queries.ListMinistries(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list ministries")
		return
	}
	WriteOK(w, ministries)
}

// Staff

// StaffMemberRequest is the body for creating or replacing a staff member.
type StaffMemberRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Title     string `json:"title" validate:"max=200"`
	Bio       string `json:"bio" validate:"max=10000"`
	ImageURL  string `json:"imageUrl" validate:"max=500"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	SortOrder int64  `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
}

// ListStaff handles GET /api/admin/staff
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.queries.ListStaffMembers(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list staff")
		return
	}
	WriteOK(w, staff)
}

// GetStaffMember handles GET /api/admin/staff/{id}
func (h *Handler) GetStaffMember(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "staff member", h.queries.GetStaffMemberByID)
}

// CreateStaffMember handles POST /api/admin/staff
func (h *Handler) CreateStaffMember(w http.ResponseWriter, r *http.Request) {
	var req StaffMemberRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	now := h.now()
	member, err := h.queries.CreateStaffMember(r.Context(), store.CreateStaffMemberParams{
		Name:      strings.TrimSpace(req.Name),
		Title:     strings.TrimSpace(req.Title),
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
		Email:     req.Email,
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive, true),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		slog.Error("failed to create staff member", "error", err)
		WriteInternalError(w, "Failed to create staff member")
		return
	}

	h.audit(r, "Staff member created", map[string]any{"id": member.ID})
	WriteCreated(w, member)
}

// UpdateStaffMember handles PUT /api/admin/staff/{id}
func (h *Handler) UpdateStaffMember(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "staff member", func(id int64) (store.StaffMember, error) {
		return h.queries.GetStaffMemberByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req StaffMemberRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	member, err := h.queries.UpdateStaffMember(r.Context(), store.UpdateStaffMemberParams{
		Name:      strings.TrimSpace(req.Name),
		Title:     strings.TrimSpace(req.Title),
		Bio:       req.Bio,
		ImageURL:  req.ImageURL,
		Email:     req.Email,
		SortOrder: req.SortOrder,
		IsActive:  activeOrDefault(req.IsActive, existing.IsActive),
		UpdatedAt: h.now(),
		ID:        existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update staff member")
		return
	}

	h.audit(r, "Staff member updated", map[string]any{"id": member.ID})
	WriteOK(w, member)
}

// DeleteStaffMember handles DELETE /api/admin/staff/{id}
func (h *Handler) DeleteStaffMember(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "staff member", h.queries.GetStaffMemberByID, h.queries.DeleteStaffMember)
}

// ReorderStaff handles POST /api/admin/staff/reorder
func (h *Handler) ReorderStaff(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "staff_members")
}

// PublicStaff handles GET /api/staff
func (h *Handler) PublicStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.queries.ListStaffMembers(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list staff")
		return
	}
	WriteOK(w, staff)
}

// Mission partners

// MissionPartnerRequest is the body for creating or replacing a mission partner.
type MissionPartnerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	Location    string `json:"location" validate:"max=200"`
	WebsiteURL  string `json:"websiteUrl" validate:"omitempty,url,max=500"`
	ImageURL    string `json:"imageUrl" validate:"max=500"`
	SortOrder   int64  `json:"sortOrder"`
	IsActive    *bool  `json:"isActive"`
}

// ListMissionPartners handles GET /api/admin/mission-partners
func (h *Handler) ListMissionPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.queries.ListMissionPartners(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list mission partners")
		return
	}
	WriteOK(w, partners)
}

// GetMissionPartner handles GET /api/admin/mission-partners/{id}
func (h *Handler) GetMissionPartner(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "mission partner", h.queries.GetMissionPartnerByID)
}

// CreateMissionPartner handles POST /api/admin/mission-partners
func (h *Handler) CreateMissionPartner(w http.ResponseWriter, r *http.Request) {
	var req MissionPartnerRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	now := h.now()
	partner, err := h.queries.CreateMissionPartner(r.Context(), store.CreateMissionPartnerParams{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		WebsiteURL:  req.WebsiteURL,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    activeOrDefault(req.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		slog.Error("failed to create mission partner", "error", err)
		WriteInternalError(w, "Failed to create mission partner")
		return
	}

	h.audit(r, "Mission partner created", map[string]any{"id": partner.ID})
	WriteCreated(w, partner)
}

// UpdateMissionPartner handles PUT /api/admin/mission-partners/{id}
func (h *Handler) UpdateMissionPartner(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "mission partner", func(id int64) (store.MissionPartner, error) {
		return h.queries.GetMissionPartnerByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req MissionPartnerRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	partner, err := h.queries.UpdateMissionPartner(r.Context(), store.UpdateMissionPartnerParams{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		WebsiteURL:  req.WebsiteURL,
		ImageURL:    req.ImageURL,
		SortOrder:   req.SortOrder,
		IsActive:    activeOrDefault(req.IsActive, existing.IsActive),
		UpdatedAt:   h.now(),
		ID:          existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update mission partner")
		return
	}

	h.audit(r, "Mission partner updated", map[string]any{"id": partner.ID})
	WriteOK(w, partner)
}

// DeleteMissionPartner handles DELETE /api/admin/mission-partners/{id}
func (h *Handler) DeleteMissionPartner(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "mission partner", h.queries.GetMissionPartnerByID, h.queries.DeleteMissionPartner)
}

// ReorderMissionPartners handles POST /api/admin/mission-partners/reorder
func (h *Handler) ReorderMissionPartners(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "mission_partners")
}

// PublicMissionPartners handles GET /api/mission-partners
func (h *Handler) PublicMissionPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.queries.ListMissionPartners(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list mission partners")
		return
	}
	WriteOK(w, partners)
}

// Slideshow

// HomeSlideRequest is the body for creating or replacing a home page slide.
type HomeSlideRequest struct {
	Title      string `json:"title" validate:"required,max=200"`
	Subtitle   string `json:"subtitle" validate:"max=500"`
	ImageURL   string `json:"imageUrl" validate:"required,max=500"`
	LinkURL    string `json:"linkUrl" validate:"max=500"`
	ButtonText string `json:"buttonText" validate:"max=100"`
	SortOrder  int64  `json:"sortOrder"`
	IsActive   *bool  `json:"isActive"`
}

// ListSlides handles GET /api/admin/slideshow
func (h *Handler) ListSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.queries.ListHomeSlides(r.Context(), false)
	if err != nil {
		WriteInternalError(w, "Failed to list slides")
		return
	}
	WriteOK(w, slides)
}

// GetSlide handles GET /api/admin/slideshow/{id}
func (h *Handler) GetSlide(w http.ResponseWriter, r *http.Request) {
	getEntity(w, r, "slide", h.queries.GetHomeSlideByID)
}

// CreateSlide handles POST /api/admin/slideshow
func (h *Handler) CreateSlide(w http.ResponseWriter, r *http.Request) {
	var req HomeSlideRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	now := h.now()
	slide, err := h.queries.CreateHomeSlide(r.Context(), store.CreateHomeSlideParams{
		Title:      strings.TrimSpace(req.Title),
		Subtitle:   req.Subtitle,
		ImageURL:   req.ImageURL,
		LinkURL:    req.LinkURL,
		ButtonText: req.ButtonText,
		SortOrder:  req.SortOrder,
		IsActive:   activeOrDefault(req.IsActive, true),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		slog.Error("failed to create slide", "error", err)
		WriteInternalError(w, "Failed to create slide")
		return
	}

	h.audit(r, "Slide created", map[string]any{"id": slide.ID})
	WriteCreated(w, slide)
}

// UpdateSlide handles PUT /api/admin/slideshow/{id}
func (h *Handler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	existing, ok := requireEntityByID(w, r, "slide", func(id int64) (store.HomeSlide, error) {
		return h.queries.GetHomeSlideByID(r.Context(), id)
	})
	if !ok {
		return
	}

	var req HomeSlideRequest
	if !decodeJSON(w, r, &req) || !validateRequest(w, req) {
		return
	}

	slide, err := h.queries.UpdateHomeSlide(r.Context(), store.UpdateHomeSlideParams{
		Title:      strings.TrimSpace(req.Title),
		Subtitle:   req.Subtitle,
		ImageURL:   req.ImageURL,
		LinkURL:    req.LinkURL,
		ButtonText: req.ButtonText,
		SortOrder:  req.SortOrder,
		IsActive:   activeOrDefault(req.IsActive, existing.IsActive),
		UpdatedAt:  h.now(),
		ID:         existing.ID,
	})
	if err != nil {
		WriteInternalError(w, "Failed to update slide")
		return
	}

	h.audit(r, "Slide updated", map[string]any{"id": slide.ID})
	WriteOK(w, slide)
}

// DeleteSlide handles DELETE /api/admin/slideshow/{id}
func (h *Handler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	deleteEntity(h, w, r, "slide", h.queries.GetHomeSlideByID, h.queries.DeleteHomeSlide)
}

// ReorderSlides handles POST /api/admin/slideshow/reorder
func (h *Handler) ReorderSlides(w http.ResponseWriter, r *http.Request) {
	h.reorder(w, r, "home_slides")
}

// PublicSlides handles GET /api/slideshow
func (h *Handler) PublicSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.queries.ListHomeSlides(r.Context(), true)
	if err != nil {
		WriteInternalError(w, "Failed to list slides")
		return
	}
	WriteOK(w, slides)
}
