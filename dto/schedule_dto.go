package dto

import (
	"time"

	"github.com/notebooker/backend/models"
)

type CreateScheduleBody struct {
	ReportName     string `json:"report_name" binding:"required"`
	ReportTitle    string `json:"report_title"`
	CronExpression string `json:"cron_expression" binding:"required"`
	Overrides      string `json:"overrides"`
	Mailto         string `json:"mailto"`
}

type ReportScheduleDto struct {
	Id             string         `json:"id"`
	ReportName     string         `json:"report_name"`
	ReportTitle    string         `json:"report_title"`
	CronExpression string         `json:"cron_expression"`
	Overrides      map[string]any `json:"overrides"`
	OverridesRaw   string         `json:"overrides_raw,omitempty"`
	Mailto         string         `json:"mailto,omitempty"`
	NextRunAt      time.Time      `json:"next_run_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func AdaptReportScheduleDto(schedule models.ReportSchedule) ReportScheduleDto {
	return ReportScheduleDto{
		Id:             schedule.Id.String(),
		ReportName:     schedule.ReportName,
		ReportTitle:    schedule.ReportTitle,
		CronExpression: schedule.CronExpression,
		Overrides:      schedule.Overrides,
		OverridesRaw:   schedule.OverridesRaw,
		Mailto:         schedule.Mailto,
		NextRunAt:      schedule.NextRunAt,
		CreatedAt:      schedule.CreatedAt,
		UpdatedAt:      schedule.UpdatedAt,
	}
}
