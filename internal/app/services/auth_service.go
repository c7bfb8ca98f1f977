package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/auth"
	"github.com/yigit/enrollhub/internal/pkg/validation"
)

// Login failure messages.
const (
	MsgStudentLoginNotFound     = "Student ID not found or account is inactive"
	MsgStudentInvalidPassword   = "Invalid password"
	MsgCoordinatorNotFound      = "Coordinator not found."
	MsgCoordinatorBadPassword   = "Invalid password."
	MsgPasswordTooShortTemplate = "The password must be at least %d characters."
)

// StudentAccountStore reads and updates student credentials.
type StudentAccountStore interface {
	GetAccount(ctx context.Context, studentID string) (*models.StudentAccount, error)
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	UpdatePassword(ctx context.Context, studentID, passwordHash string) error
}

// CoordinatorAccountStore reads and updates coordinator credentials.
type CoordinatorAccountStore interface {
	GetByID(ctx context.Context, id string) (*models.Coordinator, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(identifier string, role auth.Role) (string, int, error)
}

// AuthService handles authentication operations
type AuthService struct {
	students     StudentAccountStore
	coordinators CoordinatorAccountStore
	hasher       auth.PasswordHasher
	tokens       TokenIssuer
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	students StudentAccountStore,
	coordinators CoordinatorAccountStore,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		students:     students,
		coordinators: coordinators,
		hasher:       hasher,
		tokens:       tokens,
		logger:       logger,
	}
}

// StudentLogin authenticates an active student
func (s *AuthService) StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	account, err := s.students.GetAccount(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgStudentLoginNotFound)
		}
		return nil, err
	}
	if account.Status != models.StudentActive {
		s.logger.Warn().Str("studentID", req.StudentID).Msg("Login attempt on archived student")
		return nil, apperrors.NewResourceNotFoundError(MsgStudentLoginNotFound)
	}

	if !s.hasher.Verify(req.Password, account.PasswordHash) {
		s.logger.Warn().Str("studentID", req.StudentID).Msg("Student login with invalid password")
		return nil, apperrors.NewUnauthorizedError(MsgStudentInvalidPassword)
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("error loading student profile: %w", err)
	}

	return s.generateAuthResponse(req.StudentID, auth.RoleStudent, student)
}

// CoordinatorLogin authenticates a coordinator
func (s *AuthService) CoordinatorLogin(ctx context.Context, req dto.CoordinatorLoginRequest) (*dto.AuthResponse, error) {
	coordinator, err := s.coordinators.GetByID(ctx, req.CoordinatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgCoordinatorNotFound)
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, coordinator.PasswordHash) {
		s.logger.Warn().Str("coordinatorID", req.CoordinatorID).Msg("Coordinator login with invalid password")
		return nil, apperrors.NewUnauthorizedError(MsgCoordinatorBadPassword)
	}

	return s.generateAuthResponse(req.CoordinatorID, auth.RoleCoordinator, coordinator)
}

// ResetPassword replaces the password of a student or coordinator.
func (s *AuthService) ResetPassword(ctx context.Context, role auth.Role, id, password string) error {
	if len([]rune(password)) < validation.PasswordMinLength {
		return apperrors.NewValidationError("password", fmt.Sprintf(MsgPasswordTooShortTemplate, validation.PasswordMinLength))
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	switch role {
	case auth.RoleStudent:
		err = s.students.UpdatePassword(ctx, id, hash)
	case auth.RoleCoordinator:
		err = s.coordinators.UpdatePassword(ctx, id, hash)
	default:
		return apperrors.NewBadRequestError(fmt.Sprintf("unknown role %q", role))
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewResourceNotFoundError(fmt.Sprintf("%s %s not found", role, id))
		}
		return err
	}

	s.logger.Info().Str("role", string(role)).Str("id", id).Msg("Password reset")
	return nil
}

// generateAuthResponse signs a token for the principal
func (s *AuthService) generateAuthResponse(identifier string, role auth.Role, user interface{}) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.tokens.GenerateToken(identifier, role)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	s.logger.Info().Str("identifier", identifier).Str("role", string(role)).Msg("Login succeeded")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: user,
	}, nil
}
