package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
)

// Constraint names declared by the migrations.
const (
	StudentAccountsPK      = "student_accounts_pkey"
	StudentDetailsPK       = "student_details_pkey"
	StudentDetailsEmailKey = "student_details_email_key"
	SectionsStudentKey     = "sections_student_id_key"
	InstructorsPK          = "instructors_pkey"
	TracksPK               = "tracks_pkey"
	CoordinatorsPK         = "coordinators_pkey"
	CoordinatorsEmailKey   = "coordinators_email_key"
	EnrollmentOneActiveIdx = "track_enrollments_one_active_idx"
	EnrollmentsTrackFK     = "track_enrollments_track_id_fkey"
	EnrollmentsStudentFK   = "track_enrollments_student_id_fkey"
	SectionsInstructorFK   = "sections_instructor_id_fkey"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == UniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports a unique violation on any constraint.
func IsUniqueViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == UniqueViolation
}

// IsForeignKeyViolation reports a foreign key violation, optionally restricted to one constraint.
func IsForeignKeyViolation(err error, constraintName string) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != ForeignKeyViolation {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}

// ConstraintName returns the violated constraint, or "" when err is not a PgError.
func ConstraintName(err error) string {
	if pgErr, ok := pgError(err); ok {
		return pgErr.ConstraintName
	}
	return ""
}

// IsNoRows reports whether a query returned no rows.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsRowRejection reports whether PostgreSQL refused the written values themselves
// (SQLSTATE class 22 data exception or class 23 integrity violation), as opposed
// to a connection or server failure.
func IsRowRejection(err error) bool {
	pgErr, ok := pgError(err)
	if !ok || len(pgErr.Code) < 2 {
		return false
	}
	class := pgErr.Code[:2]
	return class == "22" || class == "23"
}
