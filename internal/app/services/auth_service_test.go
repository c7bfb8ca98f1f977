package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

func newAuthFixture() (*AuthService, *fakeStudentStore, *fakeCoordinatorStore) {
	students := newFakeStudentStore()
	students.add("S-1", models.StudentActive, "hashed:password123")
	students.add("S-OLD", models.StudentArchived, "hashed:password123")

	coordinators := newFakeCoordinatorStore()
	coordinators.coordinators["C-1"] = &models.Coordinator{CoordinatorID: "C-1", PasswordHash: "hashed:admin123"}

	svc := NewAuthService(students, coordinators, &fakeHasher{}, fakeTokens{}, testLogger)
	return svc, students, coordinators
}

func TestStudentLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.StudentLogin(ctx, dto.StudentLoginRequest{StudentID: "S-1", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "token-student-S-1", resp.Token.AccessToken)
	assert.Equal(t, "Bearer", resp.Token.TokenType)
	assert.Equal(t, 3600, resp.Token.ExpiresIn)
	require.IsType(t, &models.Student{}, resp.User)

	_, err = svc.StudentLogin(ctx, dto.StudentLoginRequest{StudentID: "S-1", Password: "wrong"})
	assertAppError(t, err, apperrors.ErrInvalidCredentials, MsgStudentInvalidPassword)

	_, err = svc.StudentLogin(ctx, dto.StudentLoginRequest{StudentID: "S-OLD", Password: "password123"})
	assertAppError(t, err, apperrors.ErrResourceNotFound, MsgStudentLoginNotFound)

	_, err = svc.StudentLogin(ctx, dto.StudentLoginRequest{StudentID: "nobody", Password: "password123"})
	assertAppError(t, err, apperrors.ErrResourceNotFound, MsgStudentLoginNotFound)
}

func TestCoordinatorLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.CoordinatorLogin(ctx, dto.CoordinatorLoginRequest{CoordinatorID: "C-1", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "token-coordinator-C-1", resp.Token.AccessToken)

	_, err = svc.CoordinatorLogin(ctx, dto.CoordinatorLoginRequest{CoordinatorID: "C-1", Password: "nope"})
	assertAppError(t, err, apperrors.ErrInvalidCredentials, MsgCoordinatorBadPassword)

	_, err = svc.CoordinatorLogin(ctx, dto.CoordinatorLoginRequest{CoordinatorID: "C-9", Password: "admin123"})
	assertAppError(t, err, apperrors.ErrResourceNotFound, MsgCoordinatorNotFound)
}

func TestResetPassword(t *testing.T) {
	svc, students, coordinators := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.ResetPassword(ctx, auth.RoleStudent, "S-1", "newpass1"))
	assert.Equal(t, "hashed:newpass1", students.accounts["S-1"].PasswordHash)

	require.NoError(t, svc.ResetPassword(ctx, auth.RoleCoordinator, "C-1", "newpass2"))
	assert.Equal(t, "hashed:newpass2", coordinators.coordinators["C-1"].PasswordHash)

	err := svc.ResetPassword(ctx, auth.RoleStudent, "S-1", "123")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.ResetPassword(ctx, auth.RoleCoordinator, "C-404", "newpass3")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	err = svc.ResetPassword(ctx, auth.Role("admin"), "C-1", "newpass3")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
