package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollhub/internal/app/auth"
	"github.com/yigit/enrollhub/internal/app/models/dto"
	"github.com/yigit/enrollhub/internal/middleware"
	"github.com/yigit/enrollhub/internal/pkg/apperrors"
)

// respond writes the standard success envelope.
func respond(ctx *gin.Context, status int, data interface{}, message string) {
	ctx.JSON(status, dto.NewSuccessResponse(data, message))
}

// principal returns the authenticated caller or answers 401.
func principal(ctx *gin.Context) (auth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		detail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
			WithDetails("Principal not found in request context")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
		return auth.Principal{}, false
	}
	return p, true
}

// intParam parses a numeric path parameter or answers 400.
func intParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Invalid "+label+" ID"))
		return 0, false
	}
	return id, true
}
