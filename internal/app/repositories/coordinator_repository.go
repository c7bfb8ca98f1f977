package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/pkg/dberrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// CoordinatorRepository handles coordinator accounts and their preferences
type CoordinatorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCoordinatorRepository creates a new coordinator repository
func NewCoordinatorRepository(db *pgxpool.Pool) *CoordinatorRepository {
	return &CoordinatorRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// Create inserts a coordinator. Duplicate ids map to ErrDuplicateID, duplicate
// emails to ErrDuplicateEmail.
func (r *CoordinatorRepository) Create(ctx context.Context, c *models.Coordinator) error {
	sql, args, err := r.sb.Insert("coordinators").
		Columns("coordinator_id", "last_name", "first_name", "middle_name", "suffix", "gender", "email", "password_hash").
		Values(c.CoordinatorID, c.LastName, c.FirstName, c.MiddleName, c.Suffix, c.Gender, c.Email, c.PasswordHash).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create coordinator query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, dberrors.CoordinatorsPK):
			return ErrDuplicateID
		case dberrors.IsDuplicateConstraintError(err, dberrors.CoordinatorsEmailKey):
			return ErrDuplicateEmail
		}
		logger.Error().Err(err).Str("coordinatorID", c.CoordinatorID).Msg("Error creating coordinator")
		return fmt.Errorf("error creating coordinator: %w", err)
	}

	logger.Info().Str("coordinatorID", c.CoordinatorID).Msg("Coordinator created successfully")
	return nil
}

// GetByID retrieves a coordinator including the password hash
func (r *CoordinatorRepository) GetByID(ctx context.Context, id string) (*models.Coordinator, error) {
	sql, args, err := r.sb.Select("coordinator_id", "last_name", "first_name", "middle_name", "suffix",
		"gender", "email", "password_hash", "created_at", "updated_at").
		From("coordinators").
		Where(squirrel.Eq{"coordinator_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get coordinator query: %w", err)
	}

	var c models.Coordinator
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.CoordinatorID, &c.LastName, &c.FirstName, &c.MiddleName,
		&c.Suffix, &c.Gender, &c.Email, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("coordinatorID", id).Msg("Error retrieving coordinator")
		return nil, fmt.Errorf("error retrieving coordinator: %w", err)
	}
	return &c, nil
}

// UpdatePassword replaces the password hash of a coordinator
func (r *CoordinatorRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE coordinators SET password_hash = $1, updated_at = NOW() WHERE coordinator_id = $2`,
		passwordHash, id)
	if err != nil {
		logger.Error().Err(err).Str("coordinatorID", id).Msg("Error updating coordinator password")
		return fmt.Errorf("error updating coordinator password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetOrCreatePreferences returns the preferences of a coordinator, inserting
// the all-false defaults on first access.
func (r *CoordinatorRepository) GetOrCreatePreferences(ctx context.Context, id string) (*models.CoordinatorPreference, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO coordinator_preferences (coordinator_id) VALUES ($1) ON CONFLICT (coordinator_id) DO NOTHING`, id)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("coordinatorID", id).Msg("Error creating coordinator preferences")
		return nil, fmt.Errorf("error creating coordinator preferences: %w", err)
	}

	var p models.CoordinatorPreference
	err = r.db.QueryRow(ctx,
		`SELECT coordinator_id, show_accepted_enrollments, show_rejected_enrollments, updated_at
		 FROM coordinator_preferences WHERE coordinator_id = $1`, id).
		Scan(&p.CoordinatorID, &p.ShowAcceptedEnrollments, &p.ShowRejectedEnrollments, &p.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("coordinatorID", id).Msg("Error retrieving coordinator preferences")
		return nil, fmt.Errorf("error retrieving coordinator preferences: %w", err)
	}
	return &p, nil
}

// UpsertPreferences stores both toggles and returns the stored row.
func (r *CoordinatorRepository) UpsertPreferences(ctx context.Context, pref models.CoordinatorPreference) (*models.CoordinatorPreference, error) {
	var p models.CoordinatorPreference
	err := r.db.QueryRow(ctx,
		`INSERT INTO coordinator_preferences (coordinator_id, show_accepted_enrollments, show_rejected_enrollments)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (coordinator_id) DO UPDATE
		 SET show_accepted_enrollments = EXCLUDED.show_accepted_enrollments,
		     show_rejected_enrollments = EXCLUDED.show_rejected_enrollments,
		     updated_at = NOW()
		 RETURNING coordinator_id, show_accepted_enrollments, show_rejected_enrollments, updated_at`,
		pref.CoordinatorID, pref.ShowAcceptedEnrollments, pref.ShowRejectedEnrollments).
		Scan(&p.CoordinatorID, &p.ShowAcceptedEnrollments, &p.ShowRejectedEnrollments, &p.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "") {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("coordinatorID", pref.CoordinatorID).Msg("Error saving coordinator preferences")
		return nil, fmt.Errorf("error saving coordinator preferences: %w", err)
	}
	return &p, nil
}
