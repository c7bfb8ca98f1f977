package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/db"
	"github.com/yigit/enrollhub/internal/pkg/dberrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// EnrollmentRepository handles database operations for track enrollment requests
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: statementBuilder(),
	}
}

const enrollmentReturning = "RETURNING id, student_id, track_id, track_name, status, created_at, updated_at"

var activeStatuses = []string{string(models.EnrollmentPending), string(models.EnrollmentAccepted)}

var enrollmentViewColumns = []string{
	"te.id", "te.student_id", "te.track_id", "te.track_name", "te.status", "te.created_at", "te.updated_at",
	"sd.last_name", "sd.first_name", "sd.middle_name", "sd.email",
	"s.course", "s.year_level", "s.section", "t.description",
}

func scanEnrollment(row rowScanner) (*models.EnrollmentRequest, error) {
	var (
		e      models.EnrollmentRequest
		status string
	)
	if err := row.Scan(&e.ID, &e.StudentID, &e.TrackID, &e.TrackName, &status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Status = models.EnrollmentStatus(status)
	return &e, nil
}

func scanEnrollmentView(row rowScanner) (*models.EnrollmentView, error) {
	var (
		v      models.EnrollmentView
		status string
	)
	err := row.Scan(
		&v.ID, &v.StudentID, &v.TrackID, &v.TrackName, &status, &v.CreatedAt, &v.UpdatedAt,
		&v.LastName, &v.FirstName, &v.MiddleName, &v.Email,
		&v.Course, &v.YearLevel, &v.Section, &v.TrackDescription,
	)
	if err != nil {
		return nil, err
	}
	v.Status = models.EnrollmentStatus(status)
	return &v, nil
}

func (r *EnrollmentRepository) viewSelect() squirrel.SelectBuilder {
	return r.sb.Select(enrollmentViewColumns...).
		From("track_enrollments te").
		LeftJoin("student_details sd ON sd.student_id = te.student_id").
		LeftJoin("sections s ON s.student_id = te.student_id").
		LeftJoin("tracks t ON t.track_id = te.track_id")
}

// CreatePending records a pending request for studentID, copying the current
// track name. The partial unique index on active requests backs the fast-path
// check against concurrent requests.
func (r *EnrollmentRepository) CreatePending(ctx context.Context, studentID string, trackID int) (*models.EnrollmentRequest, error) {
	var created *models.EnrollmentRequest
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var active bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM track_enrollments WHERE student_id = $1 AND status = ANY($2))`,
			studentID, activeStatuses).Scan(&active)
		if err != nil {
			return err
		}
		if active {
			return ErrActiveEnrollmentExists
		}

		var trackName string
		if err := tx.QueryRow(ctx, `SELECT track_name FROM tracks WHERE track_id = $1`, trackID).Scan(&trackName); err != nil {
			if dberrors.IsNoRows(err) {
				return ErrTrackNotFound
			}
			return err
		}

		sql, args, err := r.sb.Insert("track_enrollments").
			Columns("student_id", "track_id", "track_name", "status").
			Values(studentID, trackID, trackName, string(models.EnrollmentPending)).
			Suffix(enrollmentReturning).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create enrollment query: %w", err)
		}
		created, err = scanEnrollment(tx.QueryRow(ctx, sql, args...))
		return err
	})

	switch {
	case err == nil:
		logger.Info().Int64("enrollmentID", created.ID).Str("studentID", studentID).Int("trackID", trackID).
			Msg("Enrollment request created")
		return created, nil
	case errors.Is(err, ErrActiveEnrollmentExists), errors.Is(err, ErrTrackNotFound):
		return nil, err
	case dberrors.IsDuplicateConstraintError(err, dberrors.EnrollmentOneActiveIdx):
		logger.Warn().Str("studentID", studentID).Msg("Concurrent enrollment request rejected by unique index")
		return nil, ErrActiveEnrollmentExists
	case dberrors.IsForeignKeyViolation(err, dberrors.EnrollmentsStudentFK):
		return nil, ErrStudentNotFound
	case dberrors.IsForeignKeyViolation(err, dberrors.EnrollmentsTrackFK):
		return nil, ErrTrackNotFound
	}
	logger.Error().Err(err).Str("studentID", studentID).Int("trackID", trackID).Msg("Error creating enrollment request")
	return nil, fmt.Errorf("error creating enrollment request: %w", err)
}

// Transition moves a pending request to status to. It returns ErrNotFound for
// an unknown id and ErrNotPending when the request was already processed.
func (r *EnrollmentRepository) Transition(ctx context.Context, id int64, to models.EnrollmentStatus) (*models.EnrollmentRequest, error) {
	return r.updatePending(ctx, to, squirrel.Eq{"id": id}, logger.WithField("enrollmentID", id))
}

// Cancel moves the pending request id owned by studentID to cancelled. It
// returns ErrNotFound when no such (id, student) pair exists.
func (r *EnrollmentRepository) Cancel(ctx context.Context, id int64, studentID string) (*models.EnrollmentRequest, error) {
	return r.updatePending(ctx, models.EnrollmentCancelled,
		squirrel.Eq{"id": id, "student_id": studentID},
		logger.WithFields(map[string]interface{}{"enrollmentID": id, "studentID": studentID}))
}

func (r *EnrollmentRepository) updatePending(ctx context.Context, to models.EnrollmentStatus, match squirrel.Eq, log zerolog.Logger) (*models.EnrollmentRequest, error) {
	sql, args, err := r.sb.Update("track_enrollments").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(match).
		Where(squirrel.Eq{"status": string(models.EnrollmentPending)}).
		Suffix(enrollmentReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment transition query: %w", err)
	}

	updated, err := scanEnrollment(r.db.QueryRow(ctx, sql, args...))
	if err == nil {
		log.Info().Str("status", string(to)).Msg("Enrollment request updated")
		return updated, nil
	}
	if !dberrors.IsNoRows(err) {
		log.Error().Err(err).Msg("Error updating enrollment request")
		return nil, fmt.Errorf("error updating enrollment request: %w", err)
	}

	// Nothing matched: tell an unknown request apart from a processed one.
	existsSQL, existsArgs, err := r.sb.Select("1").From("track_enrollments").Where(match).Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment exists query: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, existsSQL, existsArgs...).Scan(&exists); err != nil {
		log.Error().Err(err).Msg("Error checking enrollment request")
		return nil, fmt.Errorf("error checking enrollment request: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	log.Warn().Str("status", string(to)).Msg("Enrollment request is no longer pending")
	return nil, ErrNotPending
}

// List returns enrollment requests newest first, joined with the student and track.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentView, error) {
	query := r.viewSelect().OrderBy("te.created_at DESC", "te.id DESC")
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where(squirrel.Eq{"te.status": statuses})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing enrollment requests")
		return nil, fmt.Errorf("error listing enrollment requests: %w", err)
	}
	defer rows.Close()

	views := []models.EnrollmentView{}
	for rows.Next() {
		v, err := scanEnrollmentView(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment request: %w", err)
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

// LatestForStudent returns the newest request of studentID, ErrNotFound if none.
func (r *EnrollmentRepository) LatestForStudent(ctx context.Context, studentID string) (*models.EnrollmentView, error) {
	sql, args, err := r.viewSelect().
		Where(squirrel.Eq{"te.student_id": studentID}).
		OrderBy("te.created_at DESC", "te.id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest enrollment query: %w", err)
	}

	view, err := scanEnrollmentView(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error retrieving latest enrollment")
		return nil, fmt.Errorf("error retrieving latest enrollment: %w", err)
	}
	return view, nil
}
