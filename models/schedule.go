package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportSchedule runs a template on a cron cadence. OverridesRaw is
// evaluated at schedule creation time so a broken schedule is rejected up
// front, then re-used verbatim for every run.
type ReportSchedule struct {
	Id             uuid.UUID
	ReportName     string
	ReportTitle    string
	CronExpression string
	Overrides      map[string]any
	OverridesRaw   string
	Mailto         string
	NextRunAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CreateReportSchedule struct {
	ReportName     string
	ReportTitle    string
	CronExpression string
	Overrides      map[string]any
	OverridesRaw   string
	Mailto         string
	NextRunAt      time.Time
}
