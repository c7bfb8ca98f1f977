package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/importer"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/repositories"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/auth"
)

// Row error messages produced while persisting a roster.
const (
	MsgStudentIDTaken = "The student id has already been taken."
	MsgEmailTaken     = "The email has already been taken."
	MsgRowRejected    = "Could not be saved due to invalid data"
)

// StudentImportStore opens the connection scope an import writes through.
type StudentImportStore interface {
	WithRelaxedConstraints(ctx context.Context, relax bool, fn func(ctx context.Context, w repositories.ImportWriter) error) error
}

// ImportOptions tunes the import pipeline.
type ImportOptions struct {
	ChunkSize        int
	BatchSize        int
	DefaultPassword  string
	RelaxConstraints bool
}

// ImportResult summarises one import run.
type ImportResult struct {
	Imported int
	Errors   []importer.RowError
}

// Failed reports an import that rejected rows and stored none.
func (r *ImportResult) Failed() bool {
	return r.Imported == 0 && len(r.Errors) > 0
}

// ErrorMessages renders the row errors as "Row N: message" strings.
func (r *ImportResult) ErrorMessages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.String()
	}
	return out
}

// ImportService streams a CSV roster into the student tables.
type ImportService struct {
	store   StudentImportStore
	hasher  auth.PasswordHasher
	limiter *importer.Limiter
	opts    ImportOptions
	logger  zerolog.Logger
}

// NewImportService creates a new ImportService
func NewImportService(store StudentImportStore, hasher auth.PasswordHasher, limiter *importer.Limiter, opts ImportOptions, logger zerolog.Logger) *ImportService {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	if opts.BatchSize <= 0 || opts.BatchSize > opts.ChunkSize {
		opts.BatchSize = opts.ChunkSize
	}
	return &ImportService{
		store:   store,
		hasher:  hasher,
		limiter: limiter,
		opts:    opts,
		logger:  logger,
	}
}

// Import reads a roster from r and stores every valid row. Row-level problems
// are collected in the result; the returned error is reserved for a missing
// header (validation), a busy limiter (too many requests) and infrastructure
// failures. Batches committed before a fatal error stay committed.
func (s *ImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, importer.ErrTooManyImports) {
			s.logger.Warn().Msg("Import rejected, all import slots busy")
			return nil, apperrors.NewTooManyRequestsError(err.Error())
		}
		return nil, fmt.Errorf("waiting for import slot: %w", err)
	}
	defer s.limiter.Release()

	parser, err := importer.NewParser(r)
	if err != nil {
		var missing *importer.MissingColumnsError
		if errors.As(err, &missing) {
			return nil, apperrors.NewValidationError("file", missing.Error())
		}
		return nil, apperrors.NewValidationError("file", "Unable to read the CSV header row")
	}

	passwordHash, err := s.hasher.Hash(s.opts.DefaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}

	started := time.Now()
	run := &importRun{service: s, passwordHash: passwordHash, result: &ImportResult{}}

	err = s.store.WithRelaxedConstraints(ctx, s.opts.RelaxConstraints, func(ctx context.Context, w repositories.ImportWriter) error {
		return run.consume(ctx, w, parser)
	})

	result := run.result
	sort.SliceStable(result.Errors, func(i, j int) bool { return result.Errors[i].Row < result.Errors[j].Row })

	if err != nil {
		s.logger.Error().Err(err).Int("imported", result.Imported).Int("rowErrors", len(result.Errors)).
			Dur("duration", time.Since(started)).Msg("Student import aborted")
		return result, fmt.Errorf("import failed: %w", err)
	}

	s.logger.Info().Int("imported", result.Imported).Int("rowErrors", len(result.Errors)).
		Dur("duration", time.Since(started)).Msg("Student import finished")
	return result, nil
}

// importRun holds the state of one Import call.
type importRun struct {
	service      *ImportService
	passwordHash string
	result       *ImportResult
}

func (run *importRun) rowError(row int, message string) {
	run.result.Errors = append(run.result.Errors, importer.RowError{Row: row, Message: message})
}

func (run *importRun) consume(ctx context.Context, w repositories.ImportWriter, parser *importer.Parser) error {
	chunkSize := run.service.opts.ChunkSize
	chunk := make([]importer.Record, 0, chunkSize)

	for {
		record, rowErr, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV: %w", err)
		}
		if rowErr != nil {
			run.result.Errors = append(run.result.Errors, *rowErr)
			continue
		}

		chunk = append(chunk, record)
		if len(chunk) == chunkSize {
			if err := run.flush(ctx, w, chunk); err != nil {
				return err
			}
			chunk = chunk[:0]
		}
	}

	return run.flush(ctx, w, chunk)
}

// flush drops records whose id or email is already stored, then writes the
// rest in batches.
func (run *importRun) flush(ctx context.Context, w repositories.ImportWriter, chunk []importer.Record) error {
	if len(chunk) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ids := make([]string, len(chunk))
	emails := make([]string, len(chunk))
	for i, rec := range chunk {
		ids[i] = rec.StudentID
		emails[i] = rec.Email
	}

	existingIDs, existingEmails, err := w.ExistingKeys(ctx, ids, emails)
	if err != nil {
		return err
	}

	pending := make([]importer.Record, 0, len(chunk))
	for _, rec := range chunk {
		switch {
		case existingIDs[rec.StudentID]:
			run.rowError(rec.Row, MsgStudentIDTaken)
		case existingEmails[rec.Email]:
			run.rowError(rec.Row, MsgEmailTaken)
		default:
			pending = append(pending, rec)
		}
	}

	batchSize := run.service.opts.BatchSize
	for start := 0; start < len(pending); start += batchSize {
		end := start + batchSize
		if end > len(pending) {
			end = len(pending)
		}
		if err := run.writeBatch(ctx, w, pending[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (run *importRun) writeBatch(ctx context.Context, w repositories.ImportWriter, batch []importer.Record) error {
	students := make([]models.NewStudent, len(batch))
	for i, rec := range batch {
		students[i] = rec.NewStudent(run.passwordHash)
	}

	err := w.InsertBatch(ctx, students)
	if err == nil {
		run.result.Imported += len(batch)
		return nil
	}

	run.service.logger.Warn().Err(err).Int("firstRow", batch[0].Row).Int("size", len(batch)).
		Msg("Batch insert failed, retrying rows individually")

	for i, rec := range batch {
		err := w.InsertBatch(ctx, students[i:i+1])
		switch {
		case err == nil:
			run.result.Imported++
		case errors.Is(err, repositories.ErrDuplicateStudentID):
			run.rowError(rec.Row, MsgStudentIDTaken)
		case errors.Is(err, repositories.ErrDuplicateEmail):
			run.rowError(rec.Row, MsgEmailTaken)
		case errors.Is(err, repositories.ErrRejectedRow):
			run.service.logger.Debug().Err(err).Int("row", rec.Row).Msg("Row rejected by the database")
			run.rowError(rec.Row, MsgRowRejected)
		default:
			return err
		}
	}
	return nil
}
