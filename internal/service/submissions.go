// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/captcha"
	"github.com/sanctuary-web/sanctuary/internal/mail"
	"github.com/sanctuary-web/sanctuary/internal/metrics"
	"github.com/sanctuary-web/sanctuary/internal/model"
	"github.com/sanctuary-web/sanctuary/internal/store"
	"github.com/sanctuary-web/sanctuary/internal/util"
)

// ErrCaptchaFailed is returned when the captcha check rejects a submission.
var ErrCaptchaFailed = errors.New("captcha verification failed")

// Submission kinds, used to pick the staff inbox.
const (
	KindContact   = "contact"
	KindPrayer    = "prayer"
	KindVolunteer = "volunteer"
)

// ContactInput is the public contact form.
type ContactInput struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"max=30"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// PrayerInput is the public prayer request form.
type PrayerInput struct {
	Name        string `json:"name" validate:"required_without=IsAnonymous,max=100"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	Request     string `json:"request" validate:"required,max=5000"`
	IsAnonymous bool   `json:"isAnonymous"`
	IsPublic    bool   `json:"isPublic"`
}

// VolunteerInput is the public volunteer signup form.
type VolunteerInput struct {
	Name         string `json:"name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email,max=254"`
	Phone        string `json:"phone" validate:"max=30"`
	MinistryID   *int64 `json:"ministryId"`
	Interests    string `json:"interests" validate:"max=1000"`
	Availability string `json:"availability" validate:"max=500"`
	Message      string `json:"message" validate:"max=5000"`
}

// RequestMeta carries request details that are not part of the form body.
type RequestMeta struct {
	IP           string
	CaptchaToken string
}

// SubmissionConfig configures the submission flow.
type SubmissionConfig struct {
	ChurchName string
	// Recipient returns the staff inbox for a submission kind.
	Recipient func(kind string) string
}

// SubmissionService validates, stores and acknowledges public submissions.
type SubmissionService struct {
	db      *sql.DB
	mailer  mail.Sender
	captcha captcha.Verifier
	cfg     SubmissionConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewSubmissionService creates the service. A nil verifier disables captcha checks.
func NewSubmissionService(db *sql.DB, mailer mail.Sender, verifier captcha.Verifier, cfg SubmissionConfig, logger *slog.Logger) *SubmissionService {
	if verifier == nil {
		verifier = captcha.Noop{}
	}
	if cfg.Recipient == nil {
		cfg.Recipient = func(string) string { return "" }
	}
	return &SubmissionService{
		db:      db,
		mailer:  mailer,
		captcha: verifier,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *SubmissionService) checkCaptcha(ctx context.Context, meta RequestMeta) error {
	if err := s.captcha.Verify(ctx, meta.CaptchaToken, meta.IP); err != nil {
		s.logger.Warn("submission captcha rejected",
			"category", model.EventCategorySubmission, "ip", meta.IP, "error", err)
		return ErrCaptchaFailed
	}
	return nil
}

// SubmitContact stores a contact message, then sends one staff notification
// and one auto-reply. Email failures are logged and never fail the call.
func (s *SubmissionService) SubmitContact(ctx context.Context, in ContactInput, meta RequestMeta) (store.ContactSubmission, error) {
	trimAll(&in.Name, &in.Email, &in.Phone, &in.Subject, &in.Message)
	if err := Validate(in); err != nil {
		return store.ContactSubmission{}, err
	}
	if err := s.checkCaptcha(ctx, meta); err != nil {
		return store.ContactSubmission{}, err
	}

	row, err := store.New(s.db).CreateContactSubmission(ctx, store.CreateContactSubmissionParams{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return store.ContactSubmission{}, fmt.Errorf("saving contact submission: %w", err)
	}
	metrics.SubmissionsTotal.WithLabelValues(KindContact).Inc()

	subject := "New contact message"
	if in.Subject != "" {
		subject += ": " + in.Subject
	}
	s.send(ctx, KindContact, "notification", mail.Notification(
		s.cfg.Recipient(KindContact), in.Email, subject,
		"A new message was submitted through the website contact form.",
		[]mail.Field{
			{Label: "Name", Value: in.Name},
			{Label: "Email", Value: in.Email},
			{Label: "Phone", Value: in.Phone},
			{Label: "Subject", Value: in.Subject},
			{Label: "Message", Value: in.Message},
		}))
	s.send(ctx, KindContact, "auto-reply", mail.AutoReply(
		in.Email, in.Name, s.cfg.ChurchName,
		"We received your message",
		"Thank you for contacting us. A member of our team will get back to you soon."))

	return row, nil
}

// SubmitPrayer stores a prayer request. Anonymous requests are stored
// without a name; the auto-reply is only sent when an email was given.
func (s *SubmissionService) SubmitPrayer(ctx context.Context, in PrayerInput, meta RequestMeta) (store.PrayerRequest, error) {
	trimAll(&in.Name, &in.Email, &in.Request)
	if err := Validate(in); err != nil {
		return store.PrayerRequest{}, err
	}
	if err := s.checkCaptcha(ctx, meta); err != nil {
		return store.PrayerRequest{}, err
	}

	name := in.Name
	if in.IsAnonymous {
		name = ""
	}

	row, err := store.New(s.db).CreatePrayerRequest(ctx, store.CreatePrayerRequestParams{
		Name:        name,
		Email:       in.Email,
		Request:     in.Request,
		IsAnonymous: in.IsAnonymous,
		IsPublic:    in.IsPublic,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return store.PrayerRequest{}, fmt.Errorf("saving prayer request: %w", err)
	}
	metrics.SubmissionsTotal.WithLabelValues(KindPrayer).Inc()

	displayName := name
	if displayName == "" {
		displayName = "Anonymous"
	}
	sharing := "Private (staff only)"
	if in.IsPublic {
		sharing = "May be shared with the prayer team"
	}
	s.send(ctx, KindPrayer, "notification", mail.Notification(
		s.cfg.Recipient(KindPrayer), in.Email, "New prayer request",
		"A new prayer request was submitted through the website.",
		[]mail.Field{
			{Label: "Name", Value: displayName},
			{Label: "Email", Value: in.Email},
			{Label: "Sharing", Value: sharing},
			{Label: "Request", Value: in.Request},
		}))
	if in.Email != "" {
		s.send(ctx, KindPrayer, "auto-reply", mail.AutoReply(
			in.Email, name, s.cfg.ChurchName,
			"We are praying with you",
			"Thank you for sharing your prayer request. Our prayer team will be lifting you up in prayer."))
	}

	return row, nil
}

// SubmitVolunteer stores a volunteer signup. A ministry ID, when given, must exist.
func (s *SubmissionService) SubmitVolunteer(ctx context.Context, in VolunteerInput, meta RequestMeta) (store.VolunteerSignup, error) {
	trimAll(&in.Name, &in.Email, &in.Phone, &in.Interests, &in.Availability, &in.Message)
	if err := Validate(in); err != nil {
		return store.VolunteerSignup{}, err
	}
	if err := s.checkCaptcha(ctx, meta); err != nil {
		return store.VolunteerSignup{}, err
	}

	q := store.New(s.db)
	ministryName := ""
	if in.MinistryID != nil {
		m, err := q.GetMinistryByID(ctx, *in.MinistryID)
		if errors.Is(err, sql.ErrNoRows) {
			return store.VolunteerSignup{}, NewValidationError("ministryId", "does not exist")
		}
		if err != nil {
			return store.VolunteerSignup{}, fmt.Errorf("loading ministry: %w", err)
		}
		ministryName = m.Name
	}

	row, err := q.CreateVolunteerSignup(ctx, store.CreateVolunteerSignupParams{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		MinistryID:   util.NullInt64FromPtr(in.MinistryID),
		Interests:    in.Interests,
		Availability: in.Availability,
		Message:      in.Message,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return store.VolunteerSignup{}, fmt.Errorf("saving volunteer signup: %w", err)
	}
	metrics.SubmissionsTotal.WithLabelValues(KindVolunteer).Inc()

	s.send(ctx, KindVolunteer, "notification", mail.Notification(
		s.cfg.Recipient(KindVolunteer), in.Email, "New volunteer signup",
		"Someone signed up to volunteer through the website.",
		[]mail.Field{
			{Label: "Name", Value: in.Name},
			{Label: "Email", Value: in.Email},
			{Label: "Phone", Value: in.Phone},
			{Label: "Ministry", Value: ministryName},
			{Label: "Interests", Value: in.Interests},
			{Label: "Availability", Value: in.Availability},
			{Label: "Message", Value: in.Message},
		}))
	s.send(ctx, KindVolunteer, "auto-reply", mail.AutoReply(
		in.Email, in.Name, s.cfg.ChurchName,
		"Thank you for volunteering",
		"Thank you for your interest in serving. A ministry leader will contact you soon."))

	return row, nil
}

// send attempts one delivery and logs the outcome.
func (s *SubmissionService) send(ctx context.Context, kind, purpose string, msg mail.Message) {
	if msg.To == "" {
		s.logger.Info("no recipient configured, skipping email",
			"category", model.EventCategoryEmail, "kind", kind, "purpose", purpose)
		return
	}

	err := s.mailer.Send(ctx, msg)
	switch {
	case err == nil:
		metrics.EmailsTotal.WithLabelValues("sent").Inc()
		s.logger.Debug("email sent", "kind", kind, "purpose", purpose)
	case errors.Is(err, mail.ErrNotConfigured):
		metrics.EmailsTotal.WithLabelValues("skipped").Inc()
		s.logger.Info("smtp not configured, skipping email",
			"category", model.EventCategoryEmail, "kind", kind, "purpose", purpose)
	default:
		metrics.EmailsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("sending submission email failed",
			"category", model.EventCategoryEmail, "kind", kind, "purpose", purpose, "error", err)
	}
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
