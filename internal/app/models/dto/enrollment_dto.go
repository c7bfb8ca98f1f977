package dto

// EnrollTrackRequest asks for a pending enrollment of student in track.
type EnrollTrackRequest struct {
	StudentID string `json:"student_id" binding:"required" example:"2021-00123"`
	TrackID   int    `json:"track_id" binding:"required,gt=0" example:"1"`
}

// CancelEnrollmentRequest withdraws a pending request owned by the student.
type CancelEnrollmentRequest struct {
	ID        int64  `json:"id" binding:"required,gt=0" example:"12"`
	StudentID string `json:"student_id" binding:"required" example:"2021-00123"`
}
