package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/models"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/middleware"
)

// TrackManager is the track service surface used by TrackController.
type TrackManager interface {
	Create(ctx context.Context, req dto.CreateTrackRequest) (*models.Track, error)
	List(ctx context.Context) ([]models.Track, error)
	Update(ctx context.Context, id int, req dto.UpdateTrackRequest) (*models.Track, error)
	Delete(ctx context.Context, id int) error
}

// TrackController handles track management
type TrackController struct {
	tracks TrackManager
}

// NewTrackController creates a new track controller
func NewTrackController(tracks TrackManager) *TrackController {
	return &TrackController{tracks: tracks}
}

// CreateTrack adds a track
// @Summary Create track
// @Tags tracks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTrackRequest true "Track data"
// @Success 201 {object} dto.APIResponse{data=models.Track}
// @Failure 409 {object} dto.ErrorResponse "Track id already taken"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /tracks [post]
func (c *TrackController) CreateTrack(ctx *gin.Context) {
	var req dto.CreateTrackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	track, err := c.tracks.Create(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusCreated, track, "Track created successfully")
}

// ListTracks lists every track
// @Summary List tracks
// @Tags tracks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Track}
// @Router /ShowTracks [get]
func (c *TrackController) ListTracks(ctx *gin.Context) {
	tracks, err := c.tracks.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	respond(ctx, http.StatusOK, tracks, "Tracks retrieved successfully")
}

// UpdateTrack changes a track's name or description
// @Summary Update track
// @Tags tracks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Param request body dto.UpdateTrackRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Track}
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Router /UpdateTrack/{id} [put]
func (c *TrackController) UpdateTrack(ctx *gin.Context) {
	id, ok := intParam(ctx, "id", "track")
	if !ok {
		return
	}

	var req dto.UpdateTrackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	track, err := c.tracks.Update(ctx.Request.Context(), int(id), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, track, "Track updated successfully")
}

// DeleteTrack removes a track
// @Summary Delete track
// @Description Tracks referenced by enrollment requests cannot be deleted.
// @Tags tracks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Track ID"
// @Success 200 {object} dto.APIResponse
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Failure 409 {object} dto.ErrorResponse "Track has enrollment requests"
// @Router /DeleteTrack/{id} [delete]
func (c *TrackController) DeleteTrack(ctx *gin.Context) {
	id, ok := intParam(ctx, "id", "track")
	if !ok {
		return
	}

	if err := c.tracks.Delete(ctx.Request.Context(), int(id)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respond(ctx, http.StatusOK, nil, "Track deleted successfully")
}
