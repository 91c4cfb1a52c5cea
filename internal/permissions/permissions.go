// Package permissions holds the role and ownership predicates that gate
// every mutating operation. They are pure functions so handlers, services
// and middleware all evaluate the same rules.
package permissions

import "reviewhub/internal/models"

// IsAdmin reports whether the role grants full administrative access.
func IsAdmin(role string) bool {
	return role == models.RoleAdmin
}

// IsModerator reports whether the role grants moderation rights.
func IsModerator(role string) bool {
	return role == models.RoleModerator
}

// CanManageUsers gates the user-management endpoints.
func CanManageUsers(role string) bool {
	return IsAdmin(role)
}

// CanEditCatalog gates writes to categories, genres and titles. Everyone,
// including anonymous callers, may read.
func CanEditCatalog(role string) bool {
	return IsAdmin(role)
}

// CanModify reports whether a caller may update or delete a review or
// comment: its author, a moderator, or an admin.
func CanModify(role string, isAuthor bool) bool {
	return isAuthor || IsModerator(role) || IsAdmin(role)
}
