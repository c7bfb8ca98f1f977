package auth

import (
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	pkgauth "github.com/yigit/enrollhub/internal/pkg/auth"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID   string
	Role pkgauth.Role
}

// IsCoordinator reports whether the caller signed in as a coordinator.
func (p Principal) IsCoordinator() bool {
	return p.Role == pkgauth.RoleCoordinator
}

// CanActForStudent allows coordinators to act for any student and students
// only for themselves.
func (p Principal) CanActForStudent(studentID string) error {
	if p.IsCoordinator() {
		return nil
	}
	if p.Role == pkgauth.RoleStudent && p.ID == studentID {
		return nil
	}
	return apperrors.NewForbiddenError("You are not allowed to act on behalf of another student")
}

// CanManageCoordinator allows a coordinator to manage only their own settings.
func (p Principal) CanManageCoordinator(coordinatorID string) error {
	if p.IsCoordinator() && p.ID == coordinatorID {
		return nil
	}
	return apperrors.NewForbiddenError("You can only manage your own preferences")
}
