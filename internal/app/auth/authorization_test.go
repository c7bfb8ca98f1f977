package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	pkgauth "github.com/yigit/enrollhub/internal/pkg/auth"
)

func TestCanActForStudent(t *testing.T) {
	tests := []struct {
		name      string
		principal Principal
		studentID string
		allowed   bool
	}{
		{"coordinator acts for anyone", Principal{ID: "C-1", Role: pkgauth.RoleCoordinator}, "S-1", true},
		{"student acts for self", Principal{ID: "S-1", Role: pkgauth.RoleStudent}, "S-1", true},
		{"student acts for another", Principal{ID: "S-1", Role: pkgauth.RoleStudent}, "S-2", false},
		{"unknown role", Principal{ID: "S-1", Role: pkgauth.Role("guest")}, "S-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.principal.CanActForStudent(tt.studentID)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
			}
		})
	}
}

func TestCanManageCoordinator(t *testing.T) {
	self := Principal{ID: "C-1", Role: pkgauth.RoleCoordinator}
	assert.NoError(t, self.CanManageCoordinator("C-1"))
	assert.ErrorIs(t, self.CanManageCoordinator("C-2"), apperrors.ErrPermissionDenied)

	student := Principal{ID: "C-1", Role: pkgauth.RoleStudent}
	assert.ErrorIs(t, student.CanManageCoordinator("C-1"), apperrors.ErrPermissionDenied)
}
