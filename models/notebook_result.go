package models

import (
	"time"

	"github.com/google/uuid"
)

type ResultStatus string

const (
	ResultStatusPending ResultStatus = "pending"
	ResultStatusRunning ResultStatus = "running"
	ResultStatusDone    ResultStatus = "done"
	ResultStatusError   ResultStatus = "error"
	ResultStatusDeleted ResultStatus = "deleted"
)

func ResultStatusFrom(s string) ResultStatus {
	switch ResultStatus(s) {
	case ResultStatusPending, ResultStatusRunning, ResultStatusDone,
		ResultStatusError, ResultStatusDeleted:
		return ResultStatus(s)
	}
	return ResultStatusError
}

// NotebookResult is one submitted report run. Overrides hold the validated,
// round-tripped parameter values; OverridesRaw keeps the text the user typed
// so it can be shown back on the result page.
type NotebookResult struct {
	Id             uuid.UUID
	ReportName     string
	ReportTitle    string
	Status         ResultStatus
	Overrides      map[string]any
	OverridesRaw   string
	Mailto         string
	ErrorMailto    string
	Mailfrom       string
	EmailSubject   string
	GeneratePdf    bool
	HideCode       bool
	IsSlideshow    bool
	SchedulerJobId *string
	ErrorInfo      string
	OutputPath     string
	StartedAt      *time.Time
	FinishedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateReportRun struct {
	ReportName     string
	ReportTitle    string
	Overrides      map[string]any
	OverridesRaw   string
	Mailto         string
	ErrorMailto    string
	Mailfrom       string
	EmailSubject   string
	GeneratePdf    bool
	HideCode       bool
	IsSlideshow    bool
	SchedulerJobId *string
}

type UpdateNotebookResult struct {
	Id         uuid.UUID
	Status     ResultStatus
	ErrorInfo  *string
	OutputPath *string
	StartedAt  *time.Time
	FinishedAt *time.Time
}

type ListResultsFilters struct {
	ReportName string
	Limit      int
}
