// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sanctuary-web/sanctuary/internal/auth"
	"github.com/sanctuary-web/sanctuary/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// Seed creates the default admin account and starter content. It does nothing
// unless enabled, and skips any part that already has rows.
func Seed(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	if err := seedAdmin(ctx, New(db)); err != nil {
		return err
	}

	return ExecTx(ctx, db, func(q *Queries) error {
		return seedContent(ctx, q)
	})
}

func seedAdmin(ctx context.Context, queries *Queries) error {
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Warn("created default admin user, change the password after first sign-in",
		"id", user.ID,
		"email", user.Email,
	)
	return nil
}

func seedContent(ctx context.Context, q *Queries) error {
	now := time.Now().UTC()

	if n, err := q.CountFaqs(ctx); err != nil {
		return fmt.Errorf("counting faqs: %w", err)
	} else if n == 0 {
		faqs := []CreateFaqParams{
			{Question: "What time are services?", Answer: "Sunday worship begins at 10:00 AM, with Sunday school for all ages at 9:00 AM.", Category: "Visiting"},
			{Question: "What should I wear?", Answer: "Come as you are. You will see everything from jeans to suits.", Category: "Visiting"},
			{Question: "Is there something for my kids?", Answer: "Yes. Nursery and children's church are available during the worship service.", Category: "Families"},
		}
		for i, f := range faqs {
			f.SortOrder = int64(i)
			f.IsActive = true
			f.CreatedAt, f.UpdatedAt = now, now
			if _, err := q.CreateFaq(ctx, f); err != nil {
				return fmt.Errorf("seeding faq: %w", err)
			}
		}
	}

	if n, err := q.CountMinistries(ctx); err != nil {
		return fmt.Errorf("counting ministries: %w", err)
	} else if n == 0 {
		ministries := []CreateMinistryParams{
			{Name: "Children's Ministry", Slug: "children", Description: "Teaching kids the love of Jesus from nursery through fifth grade.", MeetingTime: "Sundays 10:00 AM"},
			{Name: "Youth Group", Slug: "youth", Description: "Students in grades 6 through 12 growing in faith together.", MeetingTime: "Fridays 7:00 PM"},
			{Name: "Worship Team", Slug: "worship", Description: "Musicians and vocalists leading the congregation in worship.", MeetingTime: "Thursdays 7:00 PM"},
		}
		for i, m := range ministries {
			m.SortOrder = int64(i)
			m.IsActive = true
			m.CreatedAt, m.UpdatedAt = now, now
			if _, err := q.CreateMinistry(ctx, m); err != nil {
				return fmt.Errorf("seeding ministry: %w", err)
			}
		}
	}

	if n, err := q.CountStaffMembers(ctx); err != nil {
		return fmt.Errorf("counting staff: %w", err)
	} else if n == 0 {
		if _, err := q.CreateStaffMember(ctx, CreateStaffMemberParams{
			Name:      "Senior Pastor",
			Title:     "Lead Pastor",
			Bio:       "Update this profile from the admin dashboard.",
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("seeding staff: %w", err)
		}
	}

	if _, err := q.GetActiveDonateSetting(ctx); errors.Is(err, sql.ErrNoRows) {
		if _, err := q.CreateDonateSetting(ctx, CreateDonateSettingParams{
			Title:       "Support Our Ministry",
			Description: "Your generosity helps us serve our community and support missions around the world.",
			DonateURL:   "https://example.org/give",
			ButtonText:  "Give Online",
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			return fmt.Errorf("seeding donate settings: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking donate settings: %w", err)
	}

	slog.Info("starter content seeded")
	return nil
}
