package dto

type CreateTrackRequest struct {
	TrackID     int    `json:"track_id" binding:"required,gt=0" example:"1"`
	TrackName   string `json:"track_name" binding:"required,max=150" example:"Web Development"`
	Description string `json:"description" binding:"required" example:"Full-stack web programming"`
}

type UpdateTrackRequest struct {
	TrackName   *string `json:"track_name" binding:"omitempty,min=1,max=150"`
	Description *string `json:"description"`
}
