package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/auth"
	"github.com/yigit/enrollhub/internal/pkg/validation"
)

// CoordinatorStore persists coordinators and their preferences.
type CoordinatorStore interface {
	Create(ctx context.Context, c *models.Coordinator) error
	GetByID(ctx context.Context, id string) (*models.Coordinator, error)
	GetOrCreatePreferences(ctx context.Context, id string) (*models.CoordinatorPreference, error)
	UpsertPreferences(ctx context.Context, pref models.CoordinatorPreference) (*models.CoordinatorPreference, error)
}

// CoordinatorService manages coordinator accounts and listing preferences
type CoordinatorService struct {
	repo   CoordinatorStore
	hasher auth.PasswordHasher
	logger zerolog.Logger
}

// NewCoordinatorService creates a new CoordinatorService
func NewCoordinatorService(repo CoordinatorStore, hasher auth.PasswordHasher, logger zerolog.Logger) *CoordinatorService {
	return &CoordinatorService{repo: repo, hasher: hasher, logger: logger}
}

// Create adds a coordinator account
func (s *CoordinatorService) Create(ctx context.Context, req dto.CreateCoordinatorRequest) (*models.Coordinator, error) {
	id := strings.TrimSpace(req.CoordinatorID)
	if !validation.CompiledPatterns.Identifier.MatchString(id) {
		return nil, apperrors.NewValidationError("coordinator_id", "Invalid coordinator ID format")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	gender := strings.TrimSpace(req.Gender)
	coordinator := &models.Coordinator{
		CoordinatorID: id,
		LastName:      strings.TrimSpace(req.LastName),
		FirstName:     strings.TrimSpace(req.FirstName),
		MiddleName:    trimmedOrNil(req.MiddleName),
		Suffix:        trimmedOrNil(req.Suffix),
		Gender:        &gender,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
	}

	if err := s.repo.Create(ctx, coordinator); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateID):
			return nil, apperrors.NewAlreadyExistsError("The coordinator id has already been taken.")
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, apperrors.NewAlreadyExistsError(MsgEmailTaken)
		}
		return nil, err
	}

	s.logger.Info().Str("coordinatorID", id).Msg("Coordinator created")
	return coordinator, nil
}

// Preferences returns the stored preferences, creating defaults on first access.
func (s *CoordinatorService) Preferences(ctx context.Context, id string) (*models.CoordinatorPreference, error) {
	prefs, err := s.repo.GetOrCreatePreferences(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgCoordinatorNotFound)
		}
		return nil, err
	}
	return prefs, nil
}

// UpdatePreferences changes the toggles present in req.
func (s *CoordinatorService) UpdatePreferences(ctx context.Context, id string, req dto.UpdatePreferencesRequest) (*models.CoordinatorPreference, error) {
	current, err := s.Preferences(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *current
	if req.ShowAcceptedEnrollments != nil {
		next.ShowAcceptedEnrollments = *req.ShowAcceptedEnrollments
	}
	if req.ShowRejectedEnrollments != nil {
		next.ShowRejectedEnrollments = *req.ShowRejectedEnrollments
	}

	saved, err := s.repo.UpsertPreferences(ctx, next)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgCoordinatorNotFound)
		}
		return nil, err
	}
	return saved, nil
}
