package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/importer"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/app/services"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
	"github.com/yigit/enrollhub/internal/pkg/logger"
)

// Import response messages.
const (
	MsgImportSucceeded = "CSV Imported Successfully."
	MsgNothingImported = "No students were imported"
)

// StudentImporter runs a roster import.
type StudentImporter interface {
	Import(ctx context.Context, r io.Reader) (*services.ImportResult, error)
}

// ImportController handles the CSV roster upload
type ImportController struct {
	importer    StudentImporter
	maxFileSize int64
}

// NewImportController creates a new import controller
func NewImportController(importer StudentImporter, maxFileSize int64) *ImportController {
	return &ImportController{importer: importer, maxFileSize: maxFileSize}
}

func importFailure(ctx *gin.Context, status int, message string, rowErrors []string) {
	if rowErrors == nil {
		rowErrors = []string{}
	}
	ctx.JSON(status, dto.ImportResponse{Success: false, Message: message, Errors: rowErrors})
}

// ImportCSV imports students from an uploaded CSV file
// @Summary Import students from CSV
// @Description Streams a roster into the student tables. Valid rows are stored in batches; invalid rows are reported as "Row N: message" without stopping the import.
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV or TXT roster"
// @Success 200 {object} dto.ImportResponse "At least one student imported"
// @Failure 422 {object} dto.ImportResponse "Invalid file, missing columns, or no rows imported"
// @Failure 429 {object} dto.ImportResponse "Too many concurrent imports"
// @Failure 500 {object} dto.ImportResponse "Import failed"
// @Router /import-csv [post]
func (c *ImportController) ImportCSV(ctx *gin.Context) {
	if c.maxFileSize > 0 {
		// Allow for the multipart envelope around the file itself.
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxFileSize+64<<10)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			importFailure(ctx, http.StatusUnprocessableEntity, "The file may not be greater than the allowed size.", nil)
			return
		}
		importFailure(ctx, http.StatusUnprocessableEntity, "The file field is required.", nil)
		return
	}
	if c.maxFileSize > 0 && fileHeader.Size > c.maxFileSize {
		importFailure(ctx, http.StatusUnprocessableEntity, "The file may not be greater than the allowed size.", nil)
		return
	}
	if err := importer.CheckUpload(fileHeader.Filename, fileHeader.Header.Get("Content-Type")); err != nil {
		importFailure(ctx, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		importFailure(ctx, http.StatusUnprocessableEntity, "The file failed to upload.", nil)
		return
	}
	defer file.Close()

	result, err := c.importer.Import(ctx.Request.Context(), file)
	if err != nil {
		c.handleImportError(ctx, result, err)
		return
	}

	messages := result.ErrorMessages()
	if result.Failed() {
		ctx.JSON(http.StatusUnprocessableEntity, dto.ImportResponse{
			Success: false,
			Message: MsgNothingImported,
			Errors:  messages,
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ImportResponse{
		Success:       true,
		Message:       MsgImportSucceeded,
		ImportedCount: result.Imported,
		Errors:        messages,
	})
}

func (c *ImportController) handleImportError(ctx *gin.Context, result *services.ImportResult, err error) {
	var rowErrors []string
	imported := 0
	if result != nil {
		rowErrors = result.ErrorMessages()
		imported = result.Imported
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		importFailure(ctx, http.StatusUnprocessableEntity, apperrors.Message(err, "Invalid file"), rowErrors)
	case errors.Is(err, apperrors.ErrTooManyRequests):
		importFailure(ctx, http.StatusTooManyRequests, apperrors.Message(err, "too many concurrent imports"), rowErrors)
	default:
		logger.Ctx(ctx.Request.Context()).Error().Err(err).Int("imported", imported).Msg("Student import failed")
		if rowErrors == nil {
			rowErrors = []string{}
		}
		ctx.JSON(http.StatusInternalServerError, dto.ImportResponse{
			Success:       false,
			Message:       "Import failed: " + err.Error(),
			ImportedCount: imported,
			Errors:        rowErrors,
		})
	}
}
