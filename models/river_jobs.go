package models

import (
	"github.com/google/uuid"
)

// run one submitted report through the notebook executor
type ExecuteReportArgs struct {
	ResultId uuid.UUID `json:"result_id"`
}

func (ExecuteReportArgs) Kind() string { return "execute_report" }

// periodic job that enqueues report runs for schedules that are due
type ScheduleDueReportsArgs struct{}

func (ScheduleDueReportsArgs) Kind() string { return "schedule_due_reports" }
