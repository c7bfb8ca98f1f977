package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/pkg/dberrors"
	"github.com/yigit/enrollhub/internal/pkg/helpers"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// InstructorRepository handles database operations for instructors
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new instructor repository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: statementBuilder(),
	}
}

var instructorColumns = []string{"instructor_id", "last_name", "first_name", "email", "phone", "created_at", "updated_at"}

func scanInstructor(row rowScanner) (*models.Instructor, error) {
	var i models.Instructor
	err := row.Scan(&i.InstructorID, &i.LastName, &i.FirstName, &i.Email, &i.Phone, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// Create creates a new instructor
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	sql, args, err := r.sb.Insert("instructors").
		Columns("instructor_id", "last_name", "first_name", "email", "phone").
		Values(instructor.InstructorID, instructor.LastName, instructor.FirstName, instructor.Email, instructor.Phone).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&instructor.CreatedAt, &instructor.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.InstructorsPK) {
			logger.Warn().Str("instructorID", instructor.InstructorID).Msg("Attempted to create instructor with duplicate ID")
			return ErrDuplicateID
		}
		logger.Error().Err(err).Str("instructorID", instructor.InstructorID).Msg("Error creating instructor")
		return fmt.Errorf("error creating instructor: %w", err)
	}
	return nil
}

// GetByID retrieves an instructor by ID
func (r *InstructorRepository) GetByID(ctx context.Context, id string) (*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"instructor_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("instructorID", id).Msg("Error retrieving instructor")
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return instructor, nil
}

// List returns all instructors ordered by name
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		OrderBy("last_name", "first_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list instructors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing instructors")
		return nil, fmt.Errorf("error listing instructors: %w", err)
	}
	defer rows.Close()

	instructors := []models.Instructor{}
	for rows.Next() {
		i, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor: %w", err)
		}
		instructors = append(instructors, *i)
	}
	return instructors, rows.Err()
}

// Update applies a partial update and returns the stored instructor.
func (r *InstructorRepository) Update(ctx context.Context, id string, update models.InstructorUpdate) (*models.Instructor, error) {
	set := map[string]interface{}{}
	if update.LastName != nil {
		set["last_name"] = *update.LastName
	}
	if update.FirstName != nil {
		set["first_name"] = *update.FirstName
	}
	if update.Email != nil {
		set["email"] = helpers.NilIfEmpty(*update.Email)
	}
	if update.Phone != nil {
		set["phone"] = helpers.NilIfEmpty(*update.Phone)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update("instructors").
		SetMap(set).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"instructor_id": id}).
		Suffix("RETURNING " + strings.Join(instructorColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update instructor query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("instructorID", id).Msg("Error updating instructor")
		return nil, fmt.Errorf("error updating instructor: %w", err)
	}
	return instructor, nil
}

// Delete removes an instructor; sections pointing at it are detached by the
// ON DELETE SET NULL foreign key.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM instructors WHERE instructor_id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Str("instructorID", id).Msg("Error deleting instructor")
		return fmt.Errorf("error deleting instructor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
