package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
)

// Enrollment messages returned to clients.
const (
	MsgInvalidAction          = "Invalid action. Must be either accept or decline"
	MsgInvalidStudent         = "The selected student id is invalid."
	MsgInvalidTrack           = "The selected track id is invalid."
	MsgActiveEnrollmentExists = "You already have a pending or active enrollment"
	MsgEnrollmentNotFound     = "Enrollment not found"
	MsgAlreadyProcessed       = "This enrollment request has already been processed"
	MsgCancelNotFound         = "Enrollment not found or you are not authorized to cancel this enrollment"
	MsgOnlyPendingCancel      = "Only pending enrollments can be cancelled"
	MsgNoEnrollment           = "No enrollment found"
)

// EnrollmentStore persists enrollment requests.
type EnrollmentStore interface {
	CreatePending(ctx context.Context, studentID string, trackID int) (*models.EnrollmentRequest, error)
	Transition(ctx context.Context, id int64, to models.EnrollmentStatus) (*models.EnrollmentRequest, error)
	Cancel(ctx context.Context, id int64, studentID string) (*models.EnrollmentRequest, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentView, error)
	LatestForStudent(ctx context.Context, studentID string) (*models.EnrollmentView, error)
}

// StudentLookup answers whether a student account exists.
type StudentLookup interface {
	Exists(ctx context.Context, studentID string) (bool, error)
}

// TrackLookup reads tracks.
type TrackLookup interface {
	GetByID(ctx context.Context, id int) (*models.Track, error)
	List(ctx context.Context) ([]models.Track, error)
}

// PreferenceStore reads coordinator listing preferences.
type PreferenceStore interface {
	GetOrCreatePreferences(ctx context.Context, coordinatorID string) (*models.CoordinatorPreference, error)
}

// ListEnrollmentsParams selects which requests List returns.
type ListEnrollmentsParams struct {
	// Status limits the listing to one status when set.
	Status string
	// CoordinatorID identifies the caller whose preferences ApplyPreferences uses.
	CoordinatorID string
	// ApplyPreferences hides the processed requests the coordinator has not
	// opted into. Without it every request is listed.
	ApplyPreferences bool
}

// EnrollmentService drives the track enrollment state machine:
// pending -> accepted | declined | cancelled, with at most one pending or
// accepted request per student.
type EnrollmentService struct {
	enrollments EnrollmentStore
	students    StudentLookup
	tracks      TrackLookup
	preferences PreferenceStore
	logger      zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(enrollments EnrollmentStore, students StudentLookup, tracks TrackLookup, preferences PreferenceStore, logger zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		tracks:      tracks,
		preferences: preferences,
		logger:      logger,
	}
}

// Enroll creates a pending request for studentID in trackID.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, trackID int) (*models.EnrollmentRequest, error) {
	exists, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewValidationError("student_id", MsgInvalidStudent)
	}

	if _, err := s.tracks.GetByID(ctx, trackID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewValidationError("track_id", MsgInvalidTrack)
		}
		return nil, err
	}

	request, err := s.enrollments.CreatePending(ctx, studentID, trackID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrActiveEnrollmentExists):
			return nil, apperrors.NewInvalidStateError(MsgActiveEnrollmentExists)
		case errors.Is(err, repositories.ErrTrackNotFound):
			return nil, apperrors.NewValidationError("track_id", MsgInvalidTrack)
		case errors.Is(err, repositories.ErrStudentNotFound):
			return nil, apperrors.NewValidationError("student_id", MsgInvalidStudent)
		}
		return nil, err
	}
	return request, nil
}

// Decide applies a coordinator action given as its raw token.
func (s *EnrollmentService) Decide(ctx context.Context, id int64, token string) (*models.EnrollmentRequest, models.EnrollmentAction, error) {
	action, err := models.ParseEnrollmentAction(token)
	if err != nil {
		return nil, "", apperrors.NewBadRequestError(MsgInvalidAction)
	}

	var request *models.EnrollmentRequest
	if action == models.ActionAccept {
		request, err = s.Accept(ctx, id)
	} else {
		request, err = s.Decline(ctx, id)
	}
	return request, action, err
}

// Accept moves a pending request to accepted.
func (s *EnrollmentService) Accept(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	return s.transition(ctx, id, models.EnrollmentAccepted)
}

// Decline moves a pending request to declined.
func (s *EnrollmentService) Decline(ctx context.Context, id int64) (*models.EnrollmentRequest, error) {
	return s.transition(ctx, id, models.EnrollmentDeclined)
}

func (s *EnrollmentService) transition(ctx context.Context, id int64, to models.EnrollmentStatus) (*models.EnrollmentRequest, error) {
	request, err := s.enrollments.Transition(ctx, id, to)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewResourceNotFoundError(MsgEnrollmentNotFound)
		case errors.Is(err, repositories.ErrNotPending):
			return nil, apperrors.NewInvalidStateError(MsgAlreadyProcessed)
		}
		return nil, err
	}
	return request, nil
}

// Cancel withdraws a pending request owned by studentID.
func (s *EnrollmentService) Cancel(ctx context.Context, id int64, studentID string) (*models.EnrollmentRequest, error) {
	request, err := s.enrollments.Cancel(ctx, id, studentID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewResourceNotFoundError(MsgCancelNotFound)
		case errors.Is(err, repositories.ErrNotPending):
			return nil, apperrors.NewInvalidStateError(MsgOnlyPendingCancel)
		}
		return nil, err
	}
	return request, nil
}

// List returns requests newest first. Status takes precedence over the
// coordinator's preferences.
func (s *EnrollmentService) List(ctx context.Context, params ListEnrollmentsParams) ([]models.EnrollmentView, error) {
	var filter models.EnrollmentFilter

	if params.Status != "" {
		status := models.EnrollmentStatus(params.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("status", "The selected status is invalid.")
		}
		filter.Statuses = []models.EnrollmentStatus{status}
		return s.enrollments.List(ctx, filter)
	}

	if params.ApplyPreferences && params.CoordinatorID != "" {
		prefs, err := s.preferences.GetOrCreatePreferences(ctx, params.CoordinatorID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		if prefs != nil {
			filter.Statuses = visibleStatuses(prefs)
		}
	}

	return s.enrollments.List(ctx, filter)
}

// visibleStatuses keeps pending and cancelled requests and adds the processed
// ones the coordinator opted into.
func visibleStatuses(prefs *models.CoordinatorPreference) []models.EnrollmentStatus {
	statuses := []models.EnrollmentStatus{models.EnrollmentPending, models.EnrollmentCancelled}
	if prefs.ShowAcceptedEnrollments {
		statuses = append(statuses, models.EnrollmentAccepted)
	}
	if prefs.ShowRejectedEnrollments {
		statuses = append(statuses, models.EnrollmentDeclined)
	}
	return statuses
}

// Latest returns the newest request of studentID.
func (s *EnrollmentService) Latest(ctx context.Context, studentID string) (*models.EnrollmentView, error) {
	view, err := s.enrollments.LatestForStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewResourceNotFoundError(MsgNoEnrollment)
		}
		return nil, err
	}
	return view, nil
}

// AvailableTracks lists every track a student can request.
func (s *EnrollmentService) AvailableTracks(ctx context.Context) ([]models.Track, error) {
	return s.tracks.List(ctx)
}
