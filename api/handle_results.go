package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/notebooker/backend/dto"
	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/pure_utils"
	"github.com/notebooker/backend/usecases"
)

const defaultResultsLimit = 50

func handleListResults(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		limit := defaultResultsLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				presentError(c, models.BadParameterError)
				return
			}
			limit = parsed
		}

		usecase := uc.NewResultsUsecase()
		results, err := usecase.ListResults(c.Request.Context(), models.ListResultsFilters{
			ReportName: c.Query("report_name"),
			Limit:      limit,
		})
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"results": pure_utils.Map(results, dto.AdaptNotebookResultDto),
		})
	}
}

func handleGetResult(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		jobId, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			presentError(c, models.BadParameterError)
			return
		}

		usecase := uc.NewResultsUsecase()
		result, err := usecase.GetResult(c.Request.Context(), jobId)
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptNotebookResultDto(result))
	}
}

func handleDeleteResult(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		jobId, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			presentError(c, models.BadParameterError)
			return
		}

		usecase := uc.NewResultsUsecase()
		if presentError(c, usecase.DeleteResult(c.Request.Context(), jobId)) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleDeleteReportResults(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		reportName := strings.TrimSuffix(wildcardParam(c, "report_name"), "/results")

		usecase := uc.NewResultsUsecase()
		deleted, err := usecase.DeleteResultsByReportName(c.Request.Context(), reportName)
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}
