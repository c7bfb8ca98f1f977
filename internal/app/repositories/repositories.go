package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository       *StudentRepository
	StudentImportRepository *StudentImportRepository
	InstructorRepository    *InstructorRepository
	TrackRepository         *TrackRepository
	EnrollmentRepository    *EnrollmentRepository
	CoordinatorRepository   *CoordinatorRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:       NewStudentRepository(db),
		StudentImportRepository: NewStudentImportRepository(db),
		InstructorRepository:    NewInstructorRepository(db),
		TrackRepository:         NewTrackRepository(db),
		EnrollmentRepository:    NewEnrollmentRepository(db),
		CoordinatorRepository:   NewCoordinatorRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
