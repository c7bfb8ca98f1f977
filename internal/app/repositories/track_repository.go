package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/pkg/dberrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// TrackRepository handles database operations for tracks
type TrackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewTrackRepository(db *pgxpool.Pool) *TrackRepository {
	return &TrackRepository{
		db: db,
		sb: statementBuilder(),
	}
}

var trackColumns = []string{"track_id", "track_name", "description", "created_at", "updated_at"}

func scanTrack(row rowScanner) (*models.Track, error) {
	var t models.Track
	if err := row.Scan(&t.TrackID, &t.TrackName, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a track with its caller-supplied id.
func (r *TrackRepository) Create(ctx context.Context, track *models.Track) error {
	sql, args, err := r.sb.Insert("tracks").
		Columns("track_id", "track_name", "description").
		Values(track.TrackID, track.TrackName, track.Description).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create track query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&track.CreatedAt, &track.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.TracksPK) {
			logger.Warn().Int("trackID", track.TrackID).Msg("Attempted to create track with duplicate ID")
			return ErrDuplicateID
		}
		logger.Error().Err(err).Int("trackID", track.TrackID).Msg("Error creating track")
		return fmt.Errorf("error creating track: %w", err)
	}
	return nil
}

func (r *TrackRepository) GetByID(ctx context.Context, id int) (*models.Track, error) {
	sql, args, err := r.sb.Select(trackColumns...).
		From("tracks").
		Where(squirrel.Eq{"track_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get track query: %w", err)
	}

	track, err := scanTrack(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int("trackID", id).Msg("Error retrieving track")
		return nil, fmt.Errorf("error retrieving track: %w", err)
	}
	return track, nil
}

func (r *TrackRepository) List(ctx context.Context) ([]models.Track, error) {
	sql, args, err := r.sb.Select(trackColumns...).From("tracks").OrderBy("track_id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list tracks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing tracks")
		return nil, fmt.Errorf("error listing tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning track: %w", err)
		}
		tracks = append(tracks, *t)
	}
	return tracks, rows.Err()
}

// Update applies a partial update. Enrollment requests keep the track name they
// were created with.
func (r *TrackRepository) Update(ctx context.Context, id int, update models.TrackUpdate) (*models.Track, error) {
	set := map[string]interface{}{}
	if update.TrackName != nil {
		set["track_name"] = *update.TrackName
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("tracks").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"track_id": id}).
		Suffix("RETURNING " + strings.Join(trackColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update track query: %w", err)
	}

	track, err := scanTrack(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int("trackID", id).Msg("Error updating track")
		return nil, fmt.Errorf("error updating track: %w", err)
	}
	return track, nil
}

// Delete removes a track. Tracks referenced by enrollment requests are kept and
// ErrTrackInUse is returned.
func (r *TrackRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tracks WHERE track_id = $1`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, dberrors.EnrollmentsTrackFK) {
			logger.Warn().Int("trackID", id).Msg("Refused to delete track with enrollment requests")
			return ErrTrackInUse
		}
		logger.Error().Err(err).Int("trackID", id).Msg("Error deleting track")
		return fmt.Errorf("error deleting track: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
