// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Reviewer Roles

// UserRole represents the authorization level granted to a panel member.
type UserRole string

const (
	// Full access, including soft deletion of nominations
	RoleAdmin UserRole = "admin"

	// Can read nominations and record review decisions
	RoleReviewer UserRole = "reviewer"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level() && r.level() > 0
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleReviewer:
		return 20
	default:
		return 0
	}
}
