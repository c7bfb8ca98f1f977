package repositories

import "errors"

// Repository-level errors. Services translate these into user-facing apperrors.
var (
	ErrNotFound               = errors.New("record not found")
	ErrDuplicateStudentID     = errors.New("student id already in use")
	ErrDuplicateEmail         = errors.New("email already in use")
	ErrDuplicateID            = errors.New("id already in use")
	ErrActiveEnrollmentExists = errors.New("student already has a pending or accepted enrollment")
	ErrNotPending             = errors.New("enrollment is not pending")
	ErrTrackInUse             = errors.New("track is referenced by enrollment requests")
	ErrInstructorNotFound     = errors.New("instructor does not exist")
	ErrStudentNotFound        = errors.New("student does not exist")
	ErrTrackNotFound          = errors.New("track does not exist")
	ErrRejectedRow            = errors.New("row rejected by the database")
)
