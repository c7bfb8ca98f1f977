package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/middleware"
)

// InstructorManager is the instructor service surface used by InstructorController.
type InstructorManager interface {
	Create(ctx context.Context, req dto.CreateInstructorRequest) (*models.Instructor, error)
	Get(ctx context.Context, id string) (*models.Instructor, error)
	List(ctx context.Context) ([]models.Instructor, error)
	Update(ctx context.Context, id string, req dto.UpdateInstructorRequest) (*models.Instructor, error)
	Delete(ctx context.Context, id string) error
}

// InstructorController handles instructor related operations
type InstructorController struct {
	instructorService InstructorManager
}

// NewInstructorController creates a new instructor controller
func NewInstructorController(instructorService InstructorManager) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
	}
}

// CreateInstructor adds an instructor
// @Summary Create instructor
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInstructorRequest true "Instructor data"
// @Success 201 {object} dto.APIResponse{data=models.Instructor}
// @Failure 409 {object} dto.ErrorResponse "Instructor id already taken"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /instructors [post]
func (c *InstructorController) CreateInstructor(ctx *gin.Context) {
	var req dto.CreateInstructorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	instructor, err := c.instructorService.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, instructor, "Instructor created successfully")
}

// ListInstructors lists instructors by name
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Instructor}
// @Router /ShowInstructor [get]
func (c *InstructorController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.instructorService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if instructors == nil {
		instructors = []models.Instructor{}
	}
	respond(ctx, http.StatusOK, instructors, "Instructors retrieved successfully")
}

// GetInstructor retrieves instructor information by ID
// @Summary Get instructor by ID
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Success 200 {object} dto.APIResponse{data=models.Instructor} "Instructor retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /ShowInstructor/{id} [get]
func (c *InstructorController) GetInstructor(ctx *gin.Context) {
	instructor, err := c.instructorService.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, instructor, "Instructor retrieved successfully")
}

// UpdateInstructor applies a partial update
// @Summary Update instructor
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param request body dto.UpdateInstructorRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Instructor}
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /UpdateInstructor/{id} [put]
func (c *InstructorController) UpdateInstructor(ctx *gin.Context) {
	var req dto.UpdateInstructorRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	instructor, err := c.instructorService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, instructor, "Instructor updated successfully")
}

// DeleteInstructor removes an instructor
// @Summary Delete instructor
// @Description Sections taught by the instructor keep their students with no instructor assigned.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /DeleteInstructor/{id} [delete]
func (c *InstructorController) DeleteInstructor(ctx *gin.Context) {
	if err := c.instructorService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Instructor deleted successfully")
}
