package models

import (
	"fmt"
	"strings"
	"time"
)

// EnrollmentStatus is the lifecycle state of a track enrollment request.
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentAccepted  EnrollmentStatus = "accepted"
	EnrollmentDeclined  EnrollmentStatus = "declined"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Valid reports whether s is one of the four known statuses.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentAccepted, EnrollmentDeclined, EnrollmentCancelled:
		return true
	}
	return false
}

// Active reports whether s counts against the one-active-request limit.
func (s EnrollmentStatus) Active() bool {
	return s == EnrollmentPending || s == EnrollmentAccepted
}

// Terminal reports whether no further transition is possible from s.
func (s EnrollmentStatus) Terminal() bool {
	return s == EnrollmentAccepted || s == EnrollmentDeclined || s == EnrollmentCancelled
}

// EnrollmentAction is a coordinator decision on a pending request.
type EnrollmentAction string

const (
	ActionAccept  EnrollmentAction = "accept"
	ActionDecline EnrollmentAction = "decline"
)

// ErrInvalidAction is returned by ParseEnrollmentAction for unknown tokens.
var ErrInvalidAction = fmt.Errorf("invalid enrollment action")

// ParseEnrollmentAction accepts exactly "accept" or "decline", ignoring case.
func ParseEnrollmentAction(token string) (EnrollmentAction, error) {
	switch EnrollmentAction(strings.ToLower(strings.TrimSpace(token))) {
	case ActionAccept:
		return ActionAccept, nil
	case ActionDecline:
		return ActionDecline, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAction, token)
}

// TargetStatus is the status a pending request moves to under a.
func (a EnrollmentAction) TargetStatus() EnrollmentStatus {
	if a == ActionAccept {
		return EnrollmentAccepted
	}
	return EnrollmentDeclined
}

// EnrollmentRequest defines a row of the 'track_enrollments' table
type EnrollmentRequest struct {
	ID        int64            `json:"id" db:"id" example:"1"`
	StudentID string           `json:"student_id" db:"student_id" example:"2021-00123"`
	TrackID   int              `json:"track_id" db:"track_id" example:"1"`
	TrackName string           `json:"track_name" db:"track_name" example:"Web Development"`
	Status    EnrollmentStatus `json:"status" db:"status" example:"pending"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// EnrollmentView is an enrollment request joined with the requesting student,
// their section and the current track record.
type EnrollmentView struct {
	EnrollmentRequest
	LastName         *string `json:"last_name"`
	FirstName        *string `json:"first_name"`
	MiddleName       *string `json:"middle_name"`
	Email            *string `json:"email"`
	Course           *string `json:"course"`
	YearLevel        *string `json:"year_level"`
	Section          *string `json:"section"`
	TrackDescription *string `json:"track_description"`
}

// EnrollmentFilter narrows enrollment listings. Statuses is empty for "all".
type EnrollmentFilter struct {
	Statuses []EnrollmentStatus
}
