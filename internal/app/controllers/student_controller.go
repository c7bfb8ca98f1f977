package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/middleware"
	"github.com/yigit/enrollhub/internal/pkg/helpers"
)

// StudentManager is the student service surface used by StudentController.
type StudentManager interface {
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Get(ctx context.Context, studentID string) (*models.Student, error)
	Update(ctx context.Context, studentID string, req dto.UpdateStudentRequest) (*models.Student, error)
	Archive(ctx context.Context, studentID string) error
	Restore(ctx context.Context, studentID string) error
	ArchiveAll(ctx context.Context) (int64, error)
	RestoreAll(ctx context.Context) (int64, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int64, error)
}

// StudentController handles student maintenance by coordinators
type StudentController struct {
	students StudentManager
}

// NewStudentController creates a new student controller
func NewStudentController(students StudentManager) *StudentController {
	return &StudentController{students: students}
}

// CreateStudent registers a student
// @Summary Register a student
// @Description Creates the account, details and section rows of a student. The configured default password is used when none is given.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Coordinator role required"
// @Failure 422 {object} dto.ErrorResponse "Validation error or duplicate student id / email"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.students.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, student, "Student created successfully")
}

// GetStudent returns one student
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /student/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	student, err := c.students.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student retrieved successfully")
}

// UpdateStudent applies a partial update
// @Summary Update student
// @Description Only the fields present in the body are changed.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /student/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.students.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, student, "Student updated successfully")
}

// ArchiveStudent marks a student inactive
// @Summary Archive student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /student/{id} [delete]
func (c *StudentController) ArchiveStudent(ctx *gin.Context) {
	if err := c.students.Archive(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Student archived successfully")
}

// RestoreStudent reactivates an archived student
// @Summary Restore student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /restore-student/{id} [get]
func (c *StudentController) RestoreStudent(ctx *gin.Context) {
	if err := c.students.Restore(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Student restored successfully")
}

// ArchiveAllStudents archives every active student
// @Summary Archive all students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /students/archive-all [delete]
func (c *StudentController) ArchiveAllStudents(ctx *gin.Context) {
	n, err := c.students.ArchiveAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.CountResponse{Affected: n}, "All students archived successfully")
}

// RestoreAllStudents restores every archived student
// @Summary Restore all students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse}
// @Router /restore-all-students [get]
func (c *StudentController) RestoreAllStudents(ctx *gin.Context) {
	n, err := c.students.RestoreAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, dto.CountResponse{Affected: n}, "All students restored successfully")
}

// ListStudents returns one page of students
// @Summary List students
// @Description Paginated listing with a search over id, names and email. Archived students are listed instead of active ones when show_archived is true.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Param search query string false "Search term"
// @Param show_archived query bool false "List archived students"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Student}}
// @Router /showStudents [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	filter := models.StudentFilter{
		Search:       ctx.Query("search"),
		ShowArchived: ctx.Query("show_archived") == "true" || ctx.Query("show_archived") == "1",
		Offset:       offset,
		Limit:        limit,
	}

	students, total, err := c.students.List(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}

	respond(ctx, http.StatusOK, dto.PaginatedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Students retrieved successfully")
}
