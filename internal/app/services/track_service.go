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
)

// TrackStore persists tracks.
type TrackStore interface {
	Create(ctx context.Context, track *models.Track) error
	GetByID(ctx context.Context, id int) (*models.Track, error)
	List(ctx context.Context) ([]models.Track, error)
	Update(ctx context.Context, id int, update models.TrackUpdate) (*models.Track, error)
	Delete(ctx context.Context, id int) error
}

// TrackService manages the track catalogue
type TrackService struct {
	repo   TrackStore
	logger zerolog.Logger
}

// NewTrackService creates a new TrackService
func NewTrackService(repo TrackStore, logger zerolog.Logger) *TrackService {
	return &TrackService{repo: repo, logger: logger}
}

func translateTrackError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError("Track not found")
	case errors.Is(err, repositories.ErrDuplicateID):
		return apperrors.NewAlreadyExistsError("The track id has already been taken.")
	case errors.Is(err, repositories.ErrTrackInUse):
		return apperrors.NewConflictError("Track cannot be deleted because enrollment requests reference it")
	}
	return err
}

// Create adds a track under its caller-supplied id.
func (s *TrackService) Create(ctx context.Context, req dto.CreateTrackRequest) (*models.Track, error) {
	description := strings.TrimSpace(req.Description)
	track := &models.Track{
		TrackID:     req.TrackID,
		TrackName:   strings.TrimSpace(req.TrackName),
		Description: &description,
	}
	if err := s.repo.Create(ctx, track); err != nil {
		return nil, translateTrackError(err)
	}
	s.logger.Info().Int("trackID", track.TrackID).Msg("Track created")
	return track, nil
}

func (s *TrackService) List(ctx context.Context) ([]models.Track, error) {
	return s.repo.List(ctx)
}

// Update applies the fields present in req.
func (s *TrackService) Update(ctx context.Context, id int, req dto.UpdateTrackRequest) (*models.Track, error) {
	track, err := s.repo.Update(ctx, id, models.TrackUpdate{
		TrackName:   trimmed(req.TrackName),
		Description: trimmed(req.Description),
	})
	if err != nil {
		return nil, translateTrackError(err)
	}
	return track, nil
}

// Delete removes a track that no enrollment request references.
func (s *TrackService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateTrackError(err)
	}
	s.logger.Info().Int("trackID", id).Msg("Track deleted")
	return nil
}
