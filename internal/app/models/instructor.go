package models

import "time"

// Instructor defines the instructor model based on the 'instructors' table
type Instructor struct {
	InstructorID string    `json:"instructor_id" db:"instructor_id" example:"INS-001"`
	LastName     string    `json:"last_name" db:"last_name" example:"Reyes"`
	FirstName    string    `json:"first_name" db:"first_name" example:"Maria"`
	Email        *string   `json:"email" db:"email" example:"maria.reyes@school.edu"`
	Phone        *string   `json:"phone" db:"phone" example:"09171234567"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// InstructorUpdate holds the optional fields of a partial instructor update.
type InstructorUpdate struct {
	LastName  *string
	FirstName *string
	Email     *string
	Phone     *string
}
