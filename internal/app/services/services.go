package services

import "github.com/yigit/enrollhub/internal/app/repositories"

// Services defined in this package:
// - AuthService: student and coordinator login, password resets
// - StudentService: student registration, updates, archive and restore
// - ImportService: CSV roster import
// - EnrollmentService: track enrollment requests
// - TrackService, InstructorService: catalogue maintenance
// - CoordinatorService: coordinator accounts and listing preferences

// The postgres repositories satisfy the stores declared by the services.
var (
	_ StudentStore            = (*repositories.StudentRepository)(nil)
	_ StudentLookup           = (*repositories.StudentRepository)(nil)
	_ StudentAccountStore     = (*repositories.StudentRepository)(nil)
	_ StudentImportStore      = (*repositories.StudentImportRepository)(nil)
	_ EnrollmentStore         = (*repositories.EnrollmentRepository)(nil)
	_ TrackStore              = (*repositories.TrackRepository)(nil)
	_ TrackLookup             = (*repositories.TrackRepository)(nil)
	_ InstructorStore         = (*repositories.InstructorRepository)(nil)
	_ CoordinatorStore        = (*repositories.CoordinatorRepository)(nil)
	_ CoordinatorAccountStore = (*repositories.CoordinatorRepository)(nil)
	_ PreferenceStore         = (*repositories.CoordinatorRepository)(nil)
)
