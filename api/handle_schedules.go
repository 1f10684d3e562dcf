package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/notebooker/backend/dto"
	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/pure_utils"
	"github.com/notebooker/backend/usecases"
)

func handleListSchedules(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		usecase := uc.NewScheduleUsecase()
		schedules, err := usecase.ListSchedules(c.Request.Context())
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"schedules": pure_utils.Map(schedules, dto.AdaptReportScheduleDto),
		})
	}
}

func handleCreateSchedule(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		var body dto.CreateScheduleBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		usecase := uc.NewScheduleUsecase()
		schedule, err := usecase.CreateSchedule(c.Request.Context(), usecases.CreateScheduleInput{
			ReportName:     body.ReportName,
			ReportTitle:    body.ReportTitle,
			CronExpression: body.CronExpression,
			OverridesRaw:   body.Overrides,
			Mailto:         body.Mailto,
		})
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusCreated, dto.AdaptReportScheduleDto(schedule))
	}
}

func handleGetSchedule(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		scheduleId, err := uuid.Parse(c.Param("schedule_id"))
		if err != nil {
			presentError(c, models.BadParameterError)
			return
		}

		usecase := uc.NewScheduleUsecase()
		schedule, err := usecase.GetSchedule(c.Request.Context(), scheduleId)
		if presentError(c, err) {
			return
		}
		c.JSON(http.StatusOK, dto.AdaptReportScheduleDto(schedule))
	}
}

func handleDeleteSchedule(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		scheduleId, err := uuid.Parse(c.Param("schedule_id"))
		if err != nil {
			presentError(c, models.BadParameterError)
			return
		}

		usecase := uc.NewScheduleUsecase()
		if presentError(c, usecase.DeleteSchedule(c.Request.Context(), scheduleId)) {
			return
		}
		c.Status(http.StatusNoContent)
	}
}
