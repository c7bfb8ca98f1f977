package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/middleware"
)

// CoordinatorManager is the coordinator service surface used by CoordinatorController.
type CoordinatorManager interface {
	Create(ctx context.Context, req dto.CreateCoordinatorRequest) (*models.Coordinator, error)
	Preferences(ctx context.Context, id string) (*models.CoordinatorPreference, error)
	UpdatePreferences(ctx context.Context, id string, req dto.UpdatePreferencesRequest) (*models.CoordinatorPreference, error)
}

// CoordinatorController handles coordinator accounts and preferences
type CoordinatorController struct {
	coordinators CoordinatorManager
}

// NewCoordinatorController creates a new coordinator controller
func NewCoordinatorController(coordinators CoordinatorManager) *CoordinatorController {
	return &CoordinatorController{coordinators: coordinators}
}

// CreateCoordinator adds a coordinator account
// @Summary Add coordinator
// @Tags coordinators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCoordinatorRequest true "Coordinator data"
// @Success 201 {object} dto.APIResponse{data=models.Coordinator}
// @Failure 409 {object} dto.ErrorResponse "Coordinator id or email already taken"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /coordinatorAdd [post]
func (c *CoordinatorController) CreateCoordinator(ctx *gin.Context) {
	var req dto.CreateCoordinatorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	coordinator, err := c.coordinators.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, coordinator, "Coordinator added successfully")
}

// GetPreferences returns the caller's listing preferences
// @Summary Get coordinator preferences
// @Description Preferences are created with both toggles off on first access.
// @Tags coordinators
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coordinator ID"
// @Success 200 {object} dto.APIResponse{data=models.CoordinatorPreference}
// @Failure 403 {object} dto.ErrorResponse "Not the caller's own preferences"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Router /coordinator/{id}/preferences [get]
func (c *CoordinatorController) GetPreferences(ctx *gin.Context) {
	id, ok := c.ownID(ctx)
	if !ok {
		return
	}

	prefs, err := c.coordinators.Preferences(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, prefs, "Preferences retrieved successfully")
}

// UpdatePreferences changes the caller's listing preferences
// @Summary Update coordinator preferences
// @Tags coordinators
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Coordinator ID"
// @Param request body dto.UpdatePreferencesRequest true "Toggles to change"
// @Success 200 {object} dto.APIResponse{data=models.CoordinatorPreference}
// @Failure 403 {object} dto.ErrorResponse "Not the caller's own preferences"
// @Failure 404 {object} dto.ErrorResponse "Coordinator not found"
// @Router /coordinator/{id}/preferences [put]
func (c *CoordinatorController) UpdatePreferences(ctx *gin.Context) {
	id, ok := c.ownID(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePreferencesRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	prefs, err := c.coordinators.UpdatePreferences(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, prefs, "Preferences updated successfully")
}

// ownID returns the path id when it belongs to the caller.
func (c *CoordinatorController) ownID(ctx *gin.Context) (string, bool) {
	p, ok := principal(ctx)
	if !ok {
		return "", false
	}
	id := ctx.Param("id")
	if err := p.CanManageCoordinator(id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return "", false
	}
	return id, true
}
