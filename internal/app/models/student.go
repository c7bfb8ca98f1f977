package models

import "time"

// StudentStatus is the status flag shared by student_accounts and student_details.
type StudentStatus int16

const (
	StudentArchived StudentStatus = 0
	StudentActive   StudentStatus = 1
)

// StudentAccount defines the login record in the 'student_accounts' table
type StudentAccount struct {
	StudentID    string        `json:"student_id" db:"student_id" example:"2021-00123"`
	PasswordHash string        `json:"-" db:"password_hash"`
	Status       StudentStatus `json:"status" db:"status" example:"1"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// StudentDetails defines the personal record in the 'student_details' table
type StudentDetails struct {
	StudentID   string        `json:"student_id" db:"student_id" example:"2021-00123"`
	LastName    string        `json:"last_name" db:"last_name" example:"Dela Cruz"`
	FirstName   string        `json:"first_name" db:"first_name" example:"Juan"`
	MiddleName  *string       `json:"middle_name" db:"middle_name" example:"Santos"`
	Suffix      *string       `json:"suffix" db:"suffix" example:"Jr."`
	Email       string        `json:"email" db:"email" example:"juan@school.edu"`
	PhoneNumber string        `json:"phone_number" db:"phone_number" example:"09171234567"`
	Gender      string        `json:"gender" db:"gender" example:"Male"`
	Status      StudentStatus `json:"status" db:"status" example:"1"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
}

// Section defines the academic placement in the 'sections' table
type Section struct {
	ID           int64   `json:"id" db:"id" example:"1"`
	StudentID    string  `json:"student_id" db:"student_id" example:"2021-00123"`
	Course       string  `json:"course" db:"course" example:"BSIT"`
	YearLevel    string  `json:"year_level" db:"year_level" example:"First Year"`
	Section      string  `json:"section" db:"section" example:"A"`
	InstructorID *string `json:"instructor_id" db:"instructor_id" example:"INS-001"`
	Track        *string `json:"track" db:"track" example:"Web Development"`
}

// NewStudent carries everything needed to create the account, details and section
// rows of one student.
type NewStudent struct {
	StudentID    string
	PasswordHash string
	LastName     string
	FirstName    string
	MiddleName   *string
	Suffix       *string
	Email        string
	PhoneNumber  string
	Gender       string
	Course       string
	YearLevel    string
	Section      string
	InstructorID *string
	Track        *string
}

// Student is the joined read model used by student listings and lookups.
type Student struct {
	StudentDetails
	Section       *Section      `json:"section,omitempty"`
	AccountStatus StudentStatus `json:"account_status"`
	// EnrolledTrack is the name of the student's accepted track, if any.
	EnrolledTrack *string `json:"enrolled_track,omitempty"`
}

// StudentFilter narrows student listings.
type StudentFilter struct {
	Search       string
	ShowArchived bool
	Offset       uint64
	Limit        uint64
}

// StudentUpdate holds the optional fields of a partial student update.
type StudentUpdate struct {
	LastName     *string
	FirstName    *string
	MiddleName   *string
	Suffix       *string
	Email        *string
	PhoneNumber  *string
	Gender       *string
	Course       *string
	YearLevel    *string
	Section      *string
	InstructorID *string
	Track        *string
}
