package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/db"
	"github.com/yigit/enrollhub/internal/pkg/dberrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// translateStudentWriteError maps constraint violations raised while writing
// student rows onto repository errors.
func translateStudentWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.StudentAccountsPK),
		dberrors.IsDuplicateConstraintError(err, dberrors.StudentDetailsPK),
		dberrors.IsDuplicateConstraintError(err, dberrors.SectionsStudentKey):
		return ErrDuplicateStudentID
	case dberrors.IsDuplicateConstraintError(err, dberrors.StudentDetailsEmailKey):
		return ErrDuplicateEmail
	case dberrors.IsForeignKeyViolation(err, dberrors.SectionsInstructorFK):
		return ErrInstructorNotFound
	}
	return nil
}

// Create inserts the account, details and section of one student in a single transaction.
func (r *StudentRepository) Create(ctx context.Context, student models.NewStudent) error {
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		return execStudentInserts(ctx, tx, r.sb, []models.NewStudent{student})
	})
	if err != nil {
		if translated := translateStudentWriteError(err); translated != nil {
			logger.Warn().Err(err).Str("studentID", student.StudentID).Msg("Student create rejected by constraint")
			return translated
		}
		logger.Error().Err(err).Str("studentID", student.StudentID).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Str("studentID", student.StudentID).Msg("Student created successfully")
	return nil
}

func execStudentInserts(ctx context.Context, q db.DBTX, sb squirrel.StatementBuilderType, students []models.NewStudent) error {
	for _, insert := range studentInserts(sb, students) {
		sql, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build student insert: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return err
		}
	}
	return nil
}

// GetByID returns the joined student view, ErrNotFound when absent.
func (r *StudentRepository) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	sql, args, err := studentSelect(r.sb, studentColumns...).
		Where(squirrel.Eq{"sd.student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			logger.Debug().Str("studentID", studentID).Msg("Student not found")
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error retrieving student")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// Exists reports whether an account with studentID exists, archived or not.
func (r *StudentRepository) Exists(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM student_accounts WHERE student_id = $1)`, studentID).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error checking student existence")
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// GetAccount returns the login record of a student.
func (r *StudentRepository) GetAccount(ctx context.Context, studentID string) (*models.StudentAccount, error) {
	sql, args, err := r.sb.Select("student_id", "password_hash", "status", "created_at", "updated_at").
		From("student_accounts").
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get account query: %w", err)
	}

	var acc models.StudentAccount
	err = r.db.QueryRow(ctx, sql, args...).Scan(&acc.StudentID, &acc.PasswordHash, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error retrieving student account")
		return nil, fmt.Errorf("error retrieving student account: %w", err)
	}
	return &acc, nil
}

// UpdatePassword replaces the stored password digest of a student.
func (r *StudentRepository) UpdatePassword(ctx context.Context, studentID, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE student_accounts SET password_hash = $2, updated_at = NOW() WHERE student_id = $1`,
		studentID, passwordHash)
	if err != nil {
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error updating student password")
		return fmt.Errorf("error updating student password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Update applies a partial update to the details and section rows.
func (r *StudentRepository) Update(ctx context.Context, studentID string, update models.StudentUpdate) error {
	detailSet, sectionSet := studentUpdates(update)

	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM student_details WHERE student_id = $1)`, studentID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}

		if len(detailSet) > 0 {
			sql, args, err := r.sb.Update("student_details").
				SetMap(detailSet).
				Set("updated_at", squirrel.Expr("NOW()")).
				Where(squirrel.Eq{"student_id": studentID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build student details update: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}

		if len(sectionSet) > 0 {
			sql, args, err := r.sb.Update("sections").
				SetMap(sectionSet).
				Set("updated_at", squirrel.Expr("NOW()")).
				Where(squirrel.Eq{"student_id": studentID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build section update: %w", err)
			}
			if _, err := tx.Exec(ctx, sql, args...); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if translated := translateStudentWriteError(err); translated != nil {
			logger.Warn().Err(err).Str("studentID", studentID).Msg("Student update rejected by constraint")
			return translated
		}
		logger.Error().Err(err).Str("studentID", studentID).Msg("Error updating student")
		return fmt.Errorf("error updating student: %w", err)
	}
	return nil
}

// SetStatus archives or restores one student's account and details together.
func (r *StudentRepository) SetStatus(ctx context.Context, studentID string, status models.StudentStatus) error {
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE student_accounts SET status = $2, updated_at = NOW() WHERE student_id = $1`, studentID, status)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		_, err = tx.Exec(ctx,
			`UPDATE student_details SET status = $2, updated_at = NOW() WHERE student_id = $1`, studentID, status)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		logger.Error().Err(err).Str("studentID", studentID).Int16("status", int16(status)).Msg("Error changing student status")
		return fmt.Errorf("error changing student status: %w", err)
	}
	return nil
}

// SetStatusAll moves every student in status from to status to and returns how
// many students changed.
func (r *StudentRepository) SetStatusAll(ctx context.Context, from, to models.StudentStatus) (int64, error) {
	var affected int64
	err := db.RunInTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE student_accounts SET status = $2, updated_at = NOW() WHERE status = $1`, from, to)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		_, err = tx.Exec(ctx,
			`UPDATE student_details SET status = $2, updated_at = NOW() WHERE status = $1`, from, to)
		return err
	})
	if err != nil {
		logger.Error().Err(err).Msg("Error changing status of all students")
		return 0, fmt.Errorf("error changing status of all students: %w", err)
	}
	return affected, nil
}

// List returns one page of students and the total matching the filter.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error) {
	countSQL, countArgs, err := studentListWhere(studentSelect(r.sb, "COUNT(*)"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting students")
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err := studentListWhere(studentSelect(r.sb, studentColumns...), filter).
		OrderBy("sd.last_name", "sd.first_name", "sd.student_id").
		Offset(filter.Offset).
		Limit(filter.Limit).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0, filter.Limit)
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, total, nil
}
