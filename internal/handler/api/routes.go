// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanctuary-web/sanctuary/internal/middleware"
)

// RouteOptions configures optional route middleware.
type RouteOptions struct {
	// SubmitLimiter throttles the public form endpoints. Nil disables it.
	SubmitLimiter func(http.Handler) http.Handler
}

// crudHandlers defines the standard CRUD handler methods.
type crudHandlers struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// registerCRUD registers standard CRUD routes for a resource. Reads are open
// to every signed-in role; writes go through write. A nil Create leaves the
// collection read-only apart from updates and deletes.
// Routes: GET /, POST /, GET /{id}, PUT /{id}, DELETE /{id}
func registerCRUD(r chi.Router, base string, write func(http.Handler) http.Handler, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+"/{id}", h.Get)
	if h.Create != nil {
		r.With(write).Post(base, h.Create)
	}
	r.With(write).Put(base+"/{id}", h.Update)
	r.With(write).Delete(base+"/{id}", h.Delete)
}

func passthrough(next http.Handler) http.Handler { return next }

// Routes registers the JSON API on r, which is expected to be mounted at /api.
// The session user must already be loaded by middleware.LoadUser.
func (h *Handler) Routes(r chi.Router, opts RouteOptions) {
	limit := opts.SubmitLimiter
	if limit == nil {
		limit = passthrough
	}
	editor := middleware.RequireEditor(h.events)

	// Public reads
	r.Get("/blog", h.PublicBlogPosts)
	r.Get("/blog/{slug}", h.PublicBlogPost)
	r.Get("/faqs", h.PublicFaqs)
	r.Get("/ministries", h.PublicMinistries)
	r.Get("/staff", h.PublicStaff)
	r.Get("/mission-partners", h.PublicMissionPartners)
	r.Get("/slideshow", h.PublicSlides)
	r.Get("/announcement", h.PublicAnnouncement)
	r.Get("/donate-settings", h.PublicDonateSettings)
	r.Get("/current-series", h.PublicCurrentSeries)
	r.Get("/calendar/events", h.CalendarEvents)

	// Public forms
	r.Group(func(r chi.Router) {
		r.Use(limit)
		r.Post("/contact", h.SubmitContact)
		r.Post("/prayer-requests", h.SubmitPrayerRequest)
		r.Post("/volunteer", h.SubmitVolunteer)
	})

	// Staff tools outside the admin prefix
	r.Group(func(r chi.Router) {
		r.Use(editor)
		r.Get("/calendar/calendars", h.Calendars)
		r.Post("/ai/event-summary", h.EventSummary)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireViewer(h.events))

		r.Get("/dashboard", h.Dashboard)

		registerCRUD(r, "/blog-posts", editor, crudHandlers{
			List: h.ListBlogPosts, Get: h.GetBlogPost, Create: h.CreateBlogPost,
			Update: h.UpdateBlogPost, Delete: h.DeleteBlogPost,
		})

		registerCRUD(r, "/faqs", editor, crudHandlers{
			List: h.ListFaqs, Get: h.GetFaq, Create: h.CreateFaq,
			Update: h.UpdateFaq, Delete: h.DeleteFaq,
		})
		r.With(editor).Post("/faqs/reorder", h.ReorderFaqs)

		registerCRUD(r, "/ministries", editor, crudHandlers{
			List: h.ListMinistries, Get: h.GetMinistry, Create: h.CreateMinistry,
			Update: h.UpdateMinistry, Delete: h.DeleteMinistry,
		})
		r.With(editor).Post("/ministries/reorder", h.ReorderMinistries)

		registerCRUD(r, "/staff", editor, crudHandlers{
			List: h.ListStaff, Get: h.GetStaffMember, Create: h.CreateStaffMember,
			Update: h.UpdateStaffMember, Delete: h.DeleteStaffMember,
		})
		r.With(editor).Post("/staff/reorder", h.ReorderStaff)

		registerCRUD(r, "/mission-partners", editor, crudHandlers{
			List: h.ListMissionPartners, Get: h.GetMissionPartner, Create: h.CreateMissionPartner,
			Update: h.UpdateMissionPartner, Delete: h.DeleteMissionPartner,
		})
		r.With(editor).Post("/mission-partners/reorder", h.ReorderMissionPartners)

		registerCRUD(r, "/slideshow", editor, crudHandlers{
			List: h.ListSlides, Get: h.GetSlide, Create: h.CreateSlide,
			Update: h.UpdateSlide, Delete: h.DeleteSlide,
		})
		r.With(editor).Post("/slideshow/reorder", h.ReorderSlides)

		registerCRUD(r, "/announcements", editor, crudHandlers{
			List: h.ListAnnouncements, Get: h.GetAnnouncement, Create: h.CreateAnnouncement,
			Update: h.UpdateAnnouncement, Delete: h.DeleteAnnouncement,
		})
		r.With(editor).Post("/announcements/{id}/activate", h.ActivateAnnouncement)

		registerCRUD(r, "/donate-settings", editor, crudHandlers{
			List: h.ListDonateSettings, Get: h.GetDonateSetting, Create: h.CreateDonateSetting,
			Update: h.UpdateDonateSetting, Delete: h.DeleteDonateSetting,
		})
		r.With(editor).Post("/donate-settings/{id}/activate", h.ActivateDonateSetting)

		registerCRUD(r, "/current-series", editor, crudHandlers{
			List: h.ListCurrentSeries, Get: h.GetCurrentSeries, Create: h.CreateCurrentSeries,
			Update: h.UpdateCurrentSeries, Delete: h.DeleteCurrentSeries,
		})
		r.With(editor).Post("/current-series/{id}/activate", h.ActivateCurrentSeries)

		// Submissions are created by the public forms only.
		registerCRUD(r, "/contact-submissions", editor, crudHandlers{
			List: h.ListContactSubmissions, Get: h.GetContactSubmission,
			Update: h.UpdateContactSubmission, Delete: h.DeleteContactSubmission,
		})
		registerCRUD(r, "/prayer-requests", editor, crudHandlers{
			List: h.ListPrayerRequests, Get: h.GetPrayerRequest,
			Update: h.UpdatePrayerRequest, Delete: h.DeletePrayerRequest,
		})
		registerCRUD(r, "/volunteers", editor, crudHandlers{
			List: h.ListVolunteers, Get: h.GetVolunteer,
			Update: h.UpdateVolunteer, Delete: h.DeleteVolunteer,
		})

		r.Get("/uploads", h.ListUploads)
		r.With(editor).Delete("/uploads/{key}", h.DeleteUpload)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(h.events))

			registerCRUD(r, "/users", passthrough, crudHandlers{
				List: h.ListUsers, Get: h.GetUser, Create: h.CreateUser,
				Update: h.UpdateUser, Delete: h.DeleteUser,
			})
			r.Get("/events", h.ListEvents)
		})
	})
}
