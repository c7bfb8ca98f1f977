package dto

// CreateCoordinatorRequest represents the payload for adding a coordinator
type CreateCoordinatorRequest struct {
	CoordinatorID string  `json:"coordinator_id" binding:"required,max=50" example:"C-0002"`
	Password      string  `json:"password" binding:"required,min=6" example:"secret123"`
	LastName      string  `json:"lname" binding:"required,max=100" example:"Santos"`
	FirstName     string  `json:"fname" binding:"required,max=100" example:"Ana"`
	MiddleName    *string `json:"mname" binding:"omitempty,max=100"`
	Suffix        *string `json:"suffix" binding:"omitempty,max=20"`
	Email         string  `json:"email" binding:"required,email" example:"ana.santos@school.edu"`
	Gender        string  `json:"gender" binding:"required" example:"Female"`
}

// UpdatePreferencesRequest toggles which processed enrollments a coordinator sees.
type UpdatePreferencesRequest struct {
	ShowAcceptedEnrollments *bool `json:"show_accepted_enrollments" example:"true"`
	ShowRejectedEnrollments *bool `json:"show_rejected_enrollments" example:"false"`
}
