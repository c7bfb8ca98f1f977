package models

import "time"

// Coordinator defines an administrative user in the 'coordinators' table
type Coordinator struct {
	CoordinatorID string    `json:"coordinator_id" db:"coordinator_id" example:"C-0001"`
	LastName      string    `json:"last_name" db:"last_name" example:"Santos"`
	FirstName     string    `json:"first_name" db:"first_name" example:"Ana"`
	MiddleName    *string   `json:"middle_name" db:"middle_name"`
	Suffix        *string   `json:"suffix" db:"suffix"`
	Gender        *string   `json:"gender" db:"gender" example:"Female"`
	Email         string    `json:"email" db:"email" example:"ana.santos@school.edu"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CoordinatorPreference stores per-coordinator enrollment listing toggles.
type CoordinatorPreference struct {
	CoordinatorID           string    `json:"coordinator_id" db:"coordinator_id"`
	ShowAcceptedEnrollments bool      `json:"show_accepted_enrollments" db:"show_accepted_enrollments"`
	ShowRejectedEnrollments bool      `json:"show_rejected_enrollments" db:"show_rejected_enrollments"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}
