package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/validation"
)

// InstructorStore persists instructors.
type InstructorStore interface {
	Create(ctx context.Context, instructor *models.Instructor) error
	GetByID(ctx context.Context, id string) (*models.Instructor, error)
	List(ctx context.Context) ([]models.Instructor, error)
	Update(ctx context.Context, id string, update models.InstructorUpdate) (*models.Instructor, error)
	Delete(ctx context.Context, id string) error
}

// InstructorService handles operations related to instructors
type InstructorService struct {
	repo   InstructorStore
	logger zerolog.Logger
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(repo InstructorStore, logger zerolog.Logger) *InstructorService {
	return &InstructorService{repo: repo, logger: logger}
}

func translateInstructorError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError("Instructor not found")
	case errors.Is(err, repositories.ErrDuplicateID):
		return apperrors.NewAlreadyExistsError("The instructor id has already been taken.")
	}
	return err
}

// Create adds an instructor
func (s *InstructorService) Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error) {
	id := strings.TrimSpace(req.InstructorID)
	if !validation.CompiledPatterns.Identifier.MatchString(id) {
		return nil, apperrors.NewValidationError("instructor_id", "Invalid instructor ID format")
	}
	phone, ok := validation.NormalizePhone(req.Phone)
	if !ok {
		return nil, apperrors.NewValidationError("phone", "Invalid phone number format")
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	instructor := &models.Instructor{
		InstructorID: id,
		LastName:     strings.TrimSpace(req.LastName),
		FirstName:    strings.TrimSpace(req.FirstName),
		Email:        &email,
		Phone:        &phone,
	}
	if err := s.repo.Create(ctx, instructor); err != nil {
		return nil, translateInstructorError(err)
	}
	s.logger.Info().Str("instructorID", id).Msg("Instructor created")
	return instructor, nil
}

// Get retrieves an instructor by id
func (s *InstructorService) Get(ctx context.Context, id string) (*models.Instructor, error) {
	instructor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateInstructorError(err)
	}
	return instructor, nil
}

func (s *InstructorService) List(ctx context.Context) ([]models.Instructor, error) {
	return s.repo.List(ctx)
}

// Update applies the fields present in req.
func (s *InstructorService) Update(ctx context.Context, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error) {
	update := models.InstructorUpdate{
		LastName:  trimmed(req.LastName),
		FirstName: trimmed(req.FirstName),
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		update.Email = &email
	}
	if req.Phone != nil {
		phone, ok := validation.NormalizePhone(*req.Phone)
		if !ok {
			return nil, apperrors.NewValidationError("phone", "Invalid phone number format")
		}
		update.Phone = &phone
	}

	instructor, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return nil, translateInstructorError(err)
	}
	return instructor, nil
}

// Delete removes an instructor; students keep their section with no instructor.
func (s *InstructorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateInstructorError(err)
	}
	s.logger.Info().Str("instructorID", id).Msg("Instructor deleted")
	return nil
}
