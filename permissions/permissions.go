// Package permissions decides whether an actor may mutate a task. The
// decisions are pure functions of the actor's role set, the actor's
// identity and the task's owner; callers reject the request with 403 when
// a check returns false and must not apply any part of the mutation.
package permissions

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"taskflow-project/backend/models"
)

// CanEdit allows admins and managers to edit any task; everyone else may
// edit only tasks they own.
func CanEdit(roles []models.Role, actorID primitive.ObjectID, task models.Task) bool {
	if hasRole(roles, models.RoleAdmin) || hasRole(roles, models.RoleManager) {
		return true
	}
	return task.Owner.ID == actorID
}

// CanDelete allows admins to delete any task. Managers and users may
// delete only tasks they own: a manager can edit a colleague's task but
// not remove it. An actor with no recognized role cannot delete anything.
func CanDelete(roles []models.Role, actorID primitive.ObjectID, task models.Task) bool {
	if hasRole(roles, models.RoleAdmin) {
		return true
	}
	if hasRole(roles, models.RoleManager) || hasRole(roles, models.RoleUser) {
		return task.Owner.ID == actorID
	}
	return false
}

// HasAnyRole reports whether the actor holds at least one of the wanted
// roles. Handlers use it for the create gate (admin or manager only).
func HasAnyRole(roles []models.Role, wanted ...models.Role) bool {
	for _, w := range wanted {
		if hasRole(roles, w) {
			return true
		}
	}
	return false
}

// Membership is checked explicitly; there is no ordering between the three
// roles, so "manager" does not imply "user".
func hasRole(roles []models.Role, want models.Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
