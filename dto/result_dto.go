package dto

import (
	"time"

	"github.com/notebooker/backend/models"
)

type NotebookResultDto struct {
	Id             string         `json:"id"`
	ReportName     string         `json:"report_name"`
	ReportTitle    string         `json:"report_title"`
	Status         string         `json:"status"`
	Overrides      map[string]any `json:"overrides"`
	OverridesRaw   string         `json:"overrides_raw,omitempty"`
	Mailto         string         `json:"mailto,omitempty"`
	SchedulerJobId *string        `json:"scheduler_job_id,omitempty"`
	ErrorInfo      string         `json:"error_info,omitempty"`
	OutputPath     string         `json:"output_path,omitempty"`
	StartedAt      *time.Time     `json:"started_at,omitempty"`
	FinishedAt     *time.Time     `json:"finished_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func AdaptNotebookResultDto(result models.NotebookResult) NotebookResultDto {
	return NotebookResultDto{
		Id:             result.Id.String(),
		ReportName:     result.ReportName,
		ReportTitle:    result.ReportTitle,
		Status:         string(result.Status),
		Overrides:      result.Overrides,
		OverridesRaw:   result.OverridesRaw,
		Mailto:         result.Mailto,
		SchedulerJobId: result.SchedulerJobId,
		ErrorInfo:      result.ErrorInfo,
		OutputPath:     result.OutputPath,
		StartedAt:      result.StartedAt,
		FinishedAt:     result.FinishedAt,
		CreatedAt:      result.CreatedAt,
		UpdatedAt:      result.UpdatedAt,
	}
}
