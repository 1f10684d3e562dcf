package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/notebooker/backend/dto"
	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/utils"
)

// presentError renders an error response and reports whether err was non-nil.
func presentError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var issuesError models.OverrideIssuesError
	if errors.As(err, &issuesError) {
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   issuesError.Error(),
			ErrorCode: dto.OverridesInvalid,
			Issues:    issuesError.Issues,
		})
		return true
	}

	switch {
	case errors.Is(err, models.BadParameterError):
		c.JSON(http.StatusBadRequest, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.BadParameter,
		})
	case errors.Is(err, models.NotFoundError):
		c.JSON(http.StatusNotFound, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.NotFound,
		})
	case errors.Is(err, models.ConflictError):
		c.JSON(http.StatusConflict, dto.APIErrorResponse{
			Message:   err.Error(),
			ErrorCode: dto.DuplicateValue,
		})
	default:
		utils.LogAndReportSentryError(c.Request.Context(), err)
		c.JSON(http.StatusInternalServerError, dto.APIErrorResponse{
			Message:   "internal error",
			ErrorCode: dto.InternalError,
		})
	}
	return true
}
