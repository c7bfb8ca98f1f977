package dto

// StudentLoginRequest represents student credentials
type StudentLoginRequest struct {
	StudentID string `json:"student_id" binding:"required" example:"2021-00123"`
	Password  string `json:"password" binding:"required" example:"password123"`
}

// CoordinatorLoginRequest represents coordinator credentials
type CoordinatorLoginRequest struct {
	CoordinatorID string `json:"coordinator_id" binding:"required" example:"C-0001"`
	Password      string `json:"password" binding:"required" example:"secret123"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int    `json:"expiresIn" example:"86400"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  interface{}   `json:"user"`
}
