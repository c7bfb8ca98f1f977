package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/services"
	"github.com/yigit/enrollhub/internal/middleware"
)

// EnrollmentManager is the enrollment service surface used by EnrollmentController.
type EnrollmentManager interface {
	Enroll(ctx context.Context, studentID string, trackID int) (*models.EnrollmentRequest, error)
	Decide(ctx context.Context, id int64, token string) (*models.EnrollmentRequest, models.EnrollmentAction, error)
	Cancel(ctx context.Context, id int64, studentID string) (*models.EnrollmentRequest, error)
	List(ctx context.Context, params services.ListEnrollmentsParams) ([]models.EnrollmentView, error)
	Latest(ctx context.Context, studentID string) (*models.EnrollmentView, error)
	AvailableTracks(ctx context.Context) ([]models.Track, error)
}

// EnrollmentController handles track enrollment requests
type EnrollmentController struct {
	enrollments EnrollmentManager
}

// NewEnrollmentController creates a new enrollment controller
func NewEnrollmentController(enrollments EnrollmentManager) *EnrollmentController {
	return &EnrollmentController{enrollments: enrollments}
}

// authorizeStudent checks that the caller may act for studentID.
func authorizeStudent(ctx *gin.Context, studentID string) bool {
	p, ok := principal(ctx)
	if !ok {
		return false
	}
	if err := p.CanActForStudent(studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	return true
}

// AvailableTracks lists the tracks a student can request
// @Summary Available tracks
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Track}
// @Router /available-tracks [get]
func (c *EnrollmentController) AvailableTracks(ctx *gin.Context) {
	tracks, err := c.enrollments.AvailableTracks(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	respond(ctx, http.StatusOK, tracks, "Tracks retrieved successfully")
}

// EnrollTrack creates a pending enrollment request
// @Summary Request a track
// @Description A student may hold at most one pending or accepted request. Students may only enroll themselves.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollTrackRequest true "Student and track"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentRequest} "Enrollment request submitted successfully"
// @Failure 400 {object} dto.ErrorResponse "You already have a pending or active enrollment"
// @Failure 403 {object} dto.ErrorResponse "Acting for another student"
// @Failure 422 {object} dto.ErrorResponse "Unknown student or track"
// @Router /enroll-track [post]
func (c *EnrollmentController) EnrollTrack(ctx *gin.Context) {
	var req dto.EnrollTrackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if !authorizeStudent(ctx, req.StudentID) {
		return
	}

	request, err := c.enrollments.Enroll(ctx.Request.Context(), req.StudentID, req.TrackID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, request, "Enrollment request submitted successfully")
}

// EnrollmentStatus returns the student's newest request
// @Summary Enrollment status
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param student_id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentView}
// @Failure 403 {object} dto.ErrorResponse "Acting for another student"
// @Failure 404 {object} dto.ErrorResponse "No enrollment found"
// @Router /enrollment-status/{student_id} [get]
func (c *EnrollmentController) EnrollmentStatus(ctx *gin.Context) {
	studentID := ctx.Param("student_id")
	if !authorizeStudent(ctx, studentID) {
		return
	}

	view, err := c.enrollments.Latest(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, view, "Enrollment status retrieved successfully")
}

// CancelEnrollment withdraws a pending request
// @Summary Cancel enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CancelEnrollmentRequest true "Request and owner"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentRequest}
// @Failure 400 {object} dto.ErrorResponse "Only pending enrollments can be cancelled"
// @Failure 403 {object} dto.ErrorResponse "Acting for another student"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /cancel-enrollment [post]
func (c *EnrollmentController) CancelEnrollment(ctx *gin.Context) {
	var req dto.CancelEnrollmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if !authorizeStudent(ctx, req.StudentID) {
		return
	}

	request, err := c.enrollments.Cancel(ctx.Request.Context(), req.ID, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, request, "Enrollment cancelled successfully")
}

// ListEnrollments lists enrollment requests
// @Summary List enrollments
// @Description Newest first, every request by default. With apply_preferences=true and no status filter, accepted and declined requests are hidden unless the coordinator's preferences show them.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, accepted, declined or cancelled"
// @Param apply_preferences query bool false "Filter by the caller's listing preferences"
// @Success 200 {object} dto.APIResponse{data=[]models.EnrollmentView}
// @Failure 422 {object} dto.ErrorResponse "Invalid status"
// @Router /enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	views, err := c.enrollments.List(ctx.Request.Context(), services.ListEnrollmentsParams{
		Status:           ctx.Query("status"),
		CoordinatorID:    p.ID,
		ApplyPreferences: ctx.Query("apply_preferences") == "true" || ctx.Query("apply_preferences") == "1",
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if views == nil {
		views = []models.EnrollmentView{}
	}
	respond(ctx, http.StatusOK, views, "Enrollments retrieved successfully")
}

// DecideEnrollment accepts or declines a pending request
// @Summary Accept or decline enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Param action path string true "accept or decline"
// @Success 200 {object} dto.APIResponse{data=models.EnrollmentRequest}
// @Failure 400 {object} dto.ErrorResponse "Invalid action or already processed"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Router /enrollments/{id}/{action} [put]
func (c *EnrollmentController) DecideEnrollment(ctx *gin.Context) {
	id, ok := intParam(ctx, "id", "enrollment")
	if !ok {
		return
	}

	request, action, err := c.enrollments.Decide(ctx.Request.Context(), id, ctx.Param("action"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Enrollment accepted successfully"
	if action == models.ActionDecline {
		message = "Enrollment declined successfully"
	}
	respond(ctx, http.StatusOK, request, message)
}
