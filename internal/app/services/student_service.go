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

// StudentStore is the persistence surface used by StudentService.
type StudentStore interface {
	Create(ctx context.Context, student models.NewStudent) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	Update(ctx context.Context, studentID string, update models.StudentUpdate) error
	SetStatus(ctx context.Context, studentID string, status models.StudentStatus) error
	SetStatusAll(ctx context.Context, from, to models.StudentStatus) (int64, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error)
}

// StudentService handles student registration and maintenance
type StudentService struct {
	repo            StudentStore
	hasher          auth.PasswordHasher
	defaultPassword string
	logger          zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repo StudentStore, hasher auth.PasswordHasher, defaultPassword string, logger zerolog.Logger) *StudentService {
	return &StudentService{
		repo:            repo,
		hasher:          hasher,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

func studentNotFound() error {
	return apperrors.NewResourceNotFoundError("Student not found")
}

// translateStudentError maps repository errors of student writes onto API errors.
func translateStudentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return studentNotFound()
	case errors.Is(err, repositories.ErrDuplicateStudentID):
		return apperrors.NewValidationError("student_id", MsgStudentIDTaken)
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return apperrors.NewValidationError("email", MsgEmailTaken)
	case errors.Is(err, repositories.ErrInstructorNotFound):
		return apperrors.NewValidationError("instructor_id", "The selected instructor id is invalid.")
	}
	return err
}

func normalizeYearLevel(value string) (string, error) {
	level, ok := validation.CanonicalYearLevel(value)
	if !ok {
		return "", apperrors.NewValidationError("year_level", "Invalid year level")
	}
	return level, nil
}

func normalizePhone(value string) (string, error) {
	phone, ok := validation.NormalizePhone(value)
	if !ok {
		return "", apperrors.NewValidationError("phone_number", "Invalid phone number format")
	}
	return phone, nil
}

// Create registers a student with account, details and section rows.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if !validation.CompiledPatterns.Identifier.MatchString(studentID) {
		return nil, apperrors.NewValidationError("student_id", "Invalid student ID format")
	}

	yearLevel, err := normalizeYearLevel(req.YearLevel)
	if err != nil {
		return nil, err
	}
	phone, err := normalizePhone(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	password := req.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := models.NewStudent{
		StudentID:    studentID,
		PasswordHash: hash,
		LastName:     strings.TrimSpace(req.LastName),
		FirstName:    strings.TrimSpace(req.FirstName),
		MiddleName:   trimmedOrNil(req.MiddleName),
		Suffix:       trimmedOrNil(req.Suffix),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:  phone,
		Gender:       strings.TrimSpace(req.Gender),
		Course:       strings.TrimSpace(req.Course),
		YearLevel:    yearLevel,
		Section:      strings.TrimSpace(req.Section),
		InstructorID: trimmedOrNil(req.InstructorID),
		Track:        trimmedOrNil(req.Track),
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, translateStudentError(err)
	}

	s.logger.Info().Str("studentID", studentID).Msg("Student registered")
	return s.Get(ctx, studentID)
}

// Get returns the joined student view.
func (s *StudentService) Get(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.repo.GetByID(ctx, studentID)
	if err != nil {
		return nil, translateStudentError(err)
	}
	return student, nil
}

// Update applies the fields present in req.
func (s *StudentService) Update(ctx context.Context, studentID string, req dto.UpdateStudentRequest) (*models.Student, error) {
	update := models.StudentUpdate{
		LastName:     trimmed(req.LastName),
		FirstName:    trimmed(req.FirstName),
		MiddleName:   trimmed(req.MiddleName),
		Suffix:       trimmed(req.Suffix),
		Gender:       trimmed(req.Gender),
		Course:       trimmed(req.Course),
		Section:      trimmed(req.Section),
		InstructorID: trimmed(req.InstructorID),
		Track:        trimmed(req.Track),
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		update.Email = &email
	}
	if req.YearLevel != nil {
		level, err := normalizeYearLevel(*req.YearLevel)
		if err != nil {
			return nil, err
		}
		update.YearLevel = &level
	}
	if req.PhoneNumber != nil {
		phone, err := normalizePhone(*req.PhoneNumber)
		if err != nil {
			return nil, err
		}
		update.PhoneNumber = &phone
	}

	if err := s.repo.Update(ctx, studentID, update); err != nil {
		return nil, translateStudentError(err)
	}
	return s.Get(ctx, studentID)
}

// Archive marks the student inactive without deleting any row.
func (s *StudentService) Archive(ctx context.Context, studentID string) error {
	if err := s.repo.SetStatus(ctx, studentID, models.StudentArchived); err != nil {
		return translateStudentError(err)
	}
	s.logger.Info().Str("studentID", studentID).Msg("Student archived")
	return nil
}

// Restore reactivates an archived student.
func (s *StudentService) Restore(ctx context.Context, studentID string) error {
	if err := s.repo.SetStatus(ctx, studentID, models.StudentActive); err != nil {
		return translateStudentError(err)
	}
	s.logger.Info().Str("studentID", studentID).Msg("Student restored")
	return nil
}

// ArchiveAll archives every active student and returns how many changed.
func (s *StudentService) ArchiveAll(ctx context.Context) (int64, error) {
	n, err := s.repo.SetStatusAll(ctx, models.StudentActive, models.StudentArchived)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", n).Msg("All students archived")
	return n, nil
}

// RestoreAll restores every archived student and returns how many changed.
func (s *StudentService) RestoreAll(ctx context.Context) (int64, error) {
	n, err := s.repo.SetStatusAll(ctx, models.StudentArchived, models.StudentActive)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("affected", n).Msg("All students restored")
	return n, nil
}

// List returns one page of students and the total count for the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

// trimmed returns a trimmed copy of v, keeping nil as nil.
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

// trimmedOrNil is trimmed with blank values mapped to nil.
func trimmedOrNil(v *string) *string {
	t := trimmed(v)
	if t == nil || *t == "" {
		return nil
	}
	return t
}
