package dto

// CreateStudentRequest registers one student. Password falls back to the configured
// default when omitted.
type CreateStudentRequest struct {
	StudentID    string  `json:"student_id" binding:"required,max=50" example:"2021-00123"`
	Password     string  `json:"password" binding:"omitempty,min=6" example:"password123"`
	LastName     string  `json:"lname" binding:"required,max=100" example:"Dela Cruz"`
	FirstName    string  `json:"fname" binding:"required,max=100" example:"Juan"`
	MiddleName   *string `json:"mname" binding:"omitempty,max=100" example:"Santos"`
	Suffix       *string `json:"suffix" binding:"omitempty,max=20" example:"Jr."`
	Email        string  `json:"email" binding:"required,email" example:"juan@school.edu"`
	PhoneNumber  string  `json:"phone_number" binding:"required" example:"09171234567"`
	Gender       string  `json:"gender" binding:"required" example:"Male"`
	Course       string  `json:"course" binding:"required" example:"BSIT"`
	YearLevel    string  `json:"year_level" binding:"required" example:"First Year"`
	Section      string  `json:"section" binding:"required" example:"A"`
	InstructorID *string `json:"instructor_id" example:"INS-001"`
	Track        *string `json:"track" example:"Web Development"`
}

// UpdateStudentRequest is a partial update; absent fields are left unchanged.
type UpdateStudentRequest struct {
	LastName     *string `json:"lname" binding:"omitempty,min=1,max=100"`
	FirstName    *string `json:"fname" binding:"omitempty,min=1,max=100"`
	MiddleName   *string `json:"mname" binding:"omitempty,max=100"`
	Suffix       *string `json:"suffix" binding:"omitempty,max=20"`
	Email        *string `json:"email" binding:"omitempty,email"`
	PhoneNumber  *string `json:"phone_number"`
	Gender       *string `json:"gender" binding:"omitempty,min=1"`
	Course       *string `json:"course" binding:"omitempty,min=1"`
	YearLevel    *string `json:"year_level"`
	Section      *string `json:"section" binding:"omitempty,min=1"`
	InstructorID *string `json:"instructor_id"`
	Track        *string `json:"track"`
}

// ImportResponse is the body returned by the CSV import endpoint.
type ImportResponse struct {
	Success       bool     `json:"success" example:"true"`
	Message       string   `json:"message" example:"CSV Imported Successfully."`
	ImportedCount int      `json:"imported_count" example:"250"`
	Errors        []string `json:"errors"`
}
