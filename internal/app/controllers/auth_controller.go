// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/middleware"
)

// Authenticator signs students and coordinators in.
type Authenticator interface {
	StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (*dto.AuthResponse, error)
	CoordinatorLogin(ctx context.Context, req dto.CoordinatorLoginRequest) (*dto.AuthResponse, error)
}

// AuthController handles authentication related operations
type AuthController struct {
	authService Authenticator
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService Authenticator, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// StudentLogin handles student login
// @Summary Student login
// @Description Authenticates an active student and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Student credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid password"
// @Failure 404 {object} dto.ErrorResponse "Student ID not found or account is inactive"
// @Failure 422 {object} dto.ErrorResponse "Invalid request format"
// @Failure 429 {object} dto.ErrorResponse "Too many login attempts"
// @Router /login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.StudentLogin(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("studentID", req.StudentID).Msg("Student login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", req.StudentID).Msg("Student logged in")
	respond(ctx, http.StatusOK, resp, "Login successful")
}

// CoordinatorLogin handles coordinator login
// @Summary Coordinator login
// @Description Authenticates a coordinator and returns an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.CoordinatorLoginRequest true "Coordinator credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid password"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid request format"
// @Failure 429 {object} dto.ErrorResponse "Too many login attempts"
// @Router /coordinator/login [post]
func (c *AuthController) CoordinatorLogin(ctx *gin.Context) {
	var req dto.CoordinatorLoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.authService.CoordinatorLogin(ctx.Request.Context(), req)
	if err != nil {
		c.logger.Warn().Err(err).Str("coordinatorID", req.CoordinatorID).Msg("Coordinator login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("coordinatorID", req.CoordinatorID).Msg("Coordinator logged in")
	respond(ctx, http.StatusOK, resp, "Login successful")
}
