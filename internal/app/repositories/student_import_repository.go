package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/db"
	"github.com/yigit/enrollhub/internal/pkg/dberrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// StudentImportRepository performs the bulk writes of a roster import.
type StudentImportRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

func NewStudentImportRepository(db *pgxpool.Pool) *StudentImportRepository {
	return &StudentImportRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// ImportWriter is the write surface handed to an import while it holds its connection.
type ImportWriter interface {
	ExistingKeys(ctx context.Context, ids, emails []string) (existingIDs, existingEmails map[string]bool, err error)
	InsertBatch(ctx context.Context, students []models.NewStudent) error
}

// ImportSession is a dedicated connection held for the duration of one import.
type ImportSession struct {
	conn *pgxpool.Conn
	sb   squirrel.StatementBuilderType
}

// WithRelaxedConstraints runs fn on a dedicated connection. When relax is set,
// foreign key triggers are suspended on that connection with
// session_replication_role = replica; unique indexes stay in force. The role is
// reset and the connection released however fn exits, panics included. Failing
// to enter or leave relaxed mode is returned as an error.
func (r *StudentImportRepository) WithRelaxedConstraints(ctx context.Context, relax bool, fn func(ctx context.Context, w ImportWriter) error) (err error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire import connection: %w", err)
	}

	if relax {
		if _, err := conn.Exec(ctx, `SET session_replication_role = replica`); err != nil {
			conn.Release()
			return fmt.Errorf("failed to relax constraints: %w", err)
		}
		logger.Debug().Msg("Import connection switched to replica replication role")
	}

	defer func() {
		if relax {
			// The reset must run even when ctx was cancelled mid-import.
			if _, resetErr := conn.Exec(context.WithoutCancel(ctx), `RESET session_replication_role`); resetErr != nil {
				logger.Error().Err(resetErr).Msg("Failed to restore constraints on import connection")
				// A connection left in replica mode must not return to the pool.
				_ = conn.Conn().Close(context.WithoutCancel(ctx))
				if err == nil {
					err = fmt.Errorf("failed to restore constraints: %w", resetErr)
				}
			}
		}
		conn.Release()
	}()

	return fn(ctx, &ImportSession{conn: conn, sb: r.sb})
}

// ExistingKeys returns which of ids and emails are already stored.
func (s *ImportSession) ExistingKeys(ctx context.Context, ids, emails []string) (existingIDs, existingEmails map[string]bool, err error) {
	existingIDs = make(map[string]bool)
	existingEmails = make(map[string]bool)
	if len(ids) == 0 && len(emails) == 0 {
		return existingIDs, existingEmails, nil
	}

	rows, err := s.conn.Query(ctx, `
		SELECT 'id', student_id FROM student_accounts WHERE student_id = ANY($1)
		UNION ALL
		SELECT 'email', email FROM student_details WHERE email = ANY($2)`,
		ids, emails)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check existing students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return nil, nil, fmt.Errorf("failed to scan existing student key: %w", err)
		}
		if kind == "id" {
			existingIDs[value] = true
		} else {
			existingEmails[value] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read existing students: %w", err)
	}

	return existingIDs, existingEmails, nil
}

// InsertBatch writes students with three multi-row INSERTs in one transaction.
// Uniqueness violations are returned as ErrDuplicateStudentID or ErrDuplicateEmail
// and other value errors as ErrRejectedRow, wrapping the driver error. The batch
// is rolled back in every failure case.
func (s *ImportSession) InsertBatch(ctx context.Context, students []models.NewStudent) error {
	if len(students) == 0 {
		return nil
	}

	err := db.RunInTx(ctx, s.conn, func(ctx context.Context, tx pgx.Tx) error {
		return execStudentInserts(ctx, tx, s.sb, students)
	})
	if err != nil {
		if translated := translateStudentWriteError(err); translated != nil {
			return fmt.Errorf("%w: %v", translated, err)
		}
		if dberrors.IsRowRejection(err) {
			return fmt.Errorf("%w: %v", ErrRejectedRow, err)
		}
		return err
	}
	return nil
}
