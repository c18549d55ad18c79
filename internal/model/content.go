// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Blog post statuses.
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// ValidPostStatus reports whether s is a known blog post status.
func ValidPostStatus(s string) bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Volunteer signup statuses.
const (
	VolunteerStatusPending   = "pending"
	VolunteerStatusContacted = "contacted"
	VolunteerStatusApproved  = "approved"
	VolunteerStatusDeclined  = "declined"
)

// ValidVolunteerStatus reports whether s is a known volunteer status.
func ValidVolunteerStatus(s string) bool {
	switch s {
	case VolunteerStatusPending, VolunteerStatusContacted, VolunteerStatusApproved, VolunteerStatusDeclined:
		return true
	}
	return false
}

// Announcement banner variants.
var BannerVariants = []string{"info", "warning", "success", "urgent"}
