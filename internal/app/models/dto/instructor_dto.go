package dto

// CreateInstructorRequest represents the payload for adding an instructor
type CreateInstructorRequest struct {
	InstructorID string `json:"instructor_id" binding:"required,max=50" example:"INS-001"`
	LastName     string `json:"lname" binding:"required,max=100" example:"Reyes"`
	FirstName    string `json:"fname" binding:"required,max=100" example:"Maria"`
	Email        string `json:"email" binding:"required,email" example:"maria.reyes@school.edu"`
	Phone        string `json:"phone" binding:"required" example:"09171234567"`
}

// UpdateInstructorRequest is a partial update; absent fields are left unchanged.
type UpdateInstructorRequest struct {
	LastName  *string `json:"lname" binding:"omitempty,min=1,max=100"`
	FirstName *string `json:"fname" binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone" binding:"omitempty,min=1"`
}
