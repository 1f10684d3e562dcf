package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/notebooker/backend/dto"
	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/usecases"
)

func handleRunReport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		reportName := wildcardParam(c, "report_name")

		var form dto.RunReportForm
		if err := c.ShouldBind(&form); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewRunReportUsecase()
		resultId, err := usecase.RunReport(c.Request.Context(), usecases.RunReportInput{
			ReportName:     reportName,
			ReportTitle:    form.ReportTitle,
			OverridesRaw:   form.Overrides,
			Mailto:         form.Mailto,
			ErrorMailto:    form.ErrorMailto,
			Mailfrom:       form.Mailfrom,
			EmailSubject:   form.EmailSubject,
			GeneratePdf:    form.GeneratePdf,
			HideCode:       form.HideCode,
			IsSlideshow:    form.IsSlideshow,
			SchedulerJobId: optionalString(form.SchedulerJobId),
		})
		if presentError(c, err) {
			return
		}

		c.Header("Location", fmt.Sprintf("/results/%s", resultId))
		c.JSON(http.StatusAccepted, dto.RunReportResponse{Id: resultId.String()})
	}
}

func handleRunReportJson(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		reportName := wildcardParam(c, "report_name")

		var body dto.RunReportJsonBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		if body.Overrides == nil {
			body.Overrides = map[string]any{}
		}

		usecase := uc.NewRunReportUsecase()
		resultId, err := usecase.RunReport(c.Request.Context(), usecases.RunReportInput{
			ReportName:     reportName,
			ReportTitle:    body.ReportTitle,
			Overrides:      body.Overrides,
			Mailto:         body.Mailto,
			ErrorMailto:    body.ErrorMailto,
			Mailfrom:       body.Mailfrom,
			EmailSubject:   body.EmailSubject,
			GeneratePdf:    body.GeneratePdf,
			HideCode:       body.HideCode,
			IsSlideshow:    body.IsSlideshow,
			SchedulerJobId: optionalString(body.SchedulerJobId),
		})
		if presentError(c, err) {
			return
		}

		c.Header("Location", fmt.Sprintf("/results/%s", resultId))
		c.JSON(http.StatusAccepted, dto.RunReportResponse{Id: resultId.String()})
	}
}

func handleRerunReport(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		jobId, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			presentError(c, models.BadParameterError)
			return
		}

		usecase := uc.NewRunReportUsecase()
		resultId, err := usecase.RerunReport(c.Request.Context(), jobId)
		if presentError(c, err) {
			return
		}

		c.Header("Location", fmt.Sprintf("/results/%s", resultId))
		c.JSON(http.StatusAccepted, dto.RunReportResponse{Id: resultId.String()})
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
