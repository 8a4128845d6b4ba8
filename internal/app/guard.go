package app

import "barrio_hotels/internal/domain"

// RequireAdmin is the access guard for moderation and listing-management
// operations: the actor must be authenticated and flagged as admin. It runs
// before any domain logic so a denied call leaves no trace.
func RequireAdmin(actor domain.Actor) error {
	if !actor.Authenticated || !actor.IsAdmin {
		return domain.ErrForbidden
	}
	return nil
}
