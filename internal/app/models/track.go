package models

import "time"

// Track is a specialisation students can request enrollment in.
type Track struct {
	TrackID     int       `json:"track_id" db:"track_id" example:"1"`
	TrackName   string    `json:"track_name" db:"track_name" example:"Web Development"`
	Description *string   `json:"description" db:"description" example:"Full-stack web programming"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type TrackUpdate struct {
	TrackName   *string
	Description *string
}
