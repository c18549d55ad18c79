// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain constants shared by the store, the
// handlers and the background jobs: roles, content statuses, event levels.
package model

// User roles, from most to least privileged.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// roleLevels ranks roles for hierarchical checks.
var roleLevels = map[string]int{
	RoleAdmin:  3,
	RoleEditor: 2,
	RoleViewer: 1,
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := roleLevels[role]
	return ok
}

// RoleLevel returns the rank of role, or 0 for unknown roles.
func RoleLevel(role string) int {
	return roleLevels[role]
}

// HasRole reports whether a user with role meets the minimum role.
func HasRole(role, minimum string) bool {
	level := RoleLevel(role)
	return level > 0 && level >= RoleLevel(minimum)
}
