package worker_jobs

import (
	"context"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/utils"
)

const (
	SCHEDULE_DUE_REPORTS_INTERVAL = 1 * time.Minute
	SCHEDULE_DUE_REPORTS_TIMEOUT  = 2 * time.Minute
)

func NewScheduleDueReportsPeriodicJob() *river.PeriodicJob {
	return river.NewPeriodicJob(
		river.PeriodicInterval(SCHEDULE_DUE_REPORTS_INTERVAL),
		func() (river.JobArgs, *river.InsertOpts) {
			return models.ScheduleDueReportsArgs{},
				&river.InsertOpts{
					Priority: 4,
					UniqueOpts: river.UniqueOpts{
						ByPeriod: SCHEDULE_DUE_REPORTS_INTERVAL,
					},
				}
		},
		&river.PeriodicJobOpts{RunOnStart: true},
	)
}

type scheduleDueReportsRepository interface {
	ListDueReportSchedules(
		ctx context.Context,
		exec repositories.Executor,
		now time.Time,
	) ([]models.ReportSchedule, error)
	UpdateScheduleNextRun(
		ctx context.Context,
		exec repositories.Executor,
		scheduleId uuid.UUID,
		nextRunAt time.Time,
	) error
	CreateNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		input models.CreateReportRun,
		newResultId uuid.UUID,
	) error
}

// ScheduleDueReportsWorker turns due schedules into report runs. Due rows are
// locked for the duration of the transaction, so overlapping worker instances
// never double-submit a schedule.
type ScheduleDueReportsWorker struct {
	river.WorkerDefaults[models.ScheduleDueReportsArgs]

	executorGetter repositories.ExecutorGetter
	repository     scheduleDueReportsRepository
	taskQueue      repositories.TaskQueueRepository
}

func NewScheduleDueReportsWorker(
	executorGetter repositories.ExecutorGetter,
	repository scheduleDueReportsRepository,
	taskQueue repositories.TaskQueueRepository,
) *ScheduleDueReportsWorker {
	return &ScheduleDueReportsWorker{
		executorGetter: executorGetter,
		repository:     repository,
		taskQueue:      taskQueue,
	}
}

func (w *ScheduleDueReportsWorker) Timeout(job *river.Job[models.ScheduleDueReportsArgs]) time.Duration {
	return SCHEDULE_DUE_REPORTS_TIMEOUT
}

func (w *ScheduleDueReportsWorker) Work(ctx context.Context, job *river.Job[models.ScheduleDueReportsArgs]) error {
	logger := utils.LoggerFromContext(ctx)
	now := time.Now().UTC()

	return w.executorGetter.Transaction(ctx, func(tx pgx.Tx) error {
		dueSchedules, err := w.repository.ListDueReportSchedules(ctx, tx, now)
		if err != nil {
			return err
		}

		for _, schedule := range dueSchedules {
			schedulerJobId := schedule.Id.String()
			newResultId := uuid.New()
			if err := w.repository.CreateNotebookResult(ctx, tx, models.CreateReportRun{
				ReportName:     schedule.ReportName,
				ReportTitle:    schedule.ReportTitle,
				Overrides:      schedule.Overrides,
				OverridesRaw:   schedule.OverridesRaw,
				Mailto:         schedule.Mailto,
				SchedulerJobId: &schedulerJobId,
			}, newResultId); err != nil {
				return err
			}
			if err := w.taskQueue.EnqueueExecuteReportTask(ctx, tx, newResultId); err != nil {
				return err
			}

			nextRunAt, err := gronx.NextTickAfter(schedule.CronExpression, now, false)
			if err != nil {
				// the expression was validated at creation; push the schedule
				// out of the due window rather than fail the whole batch
				nextRunAt = now.Add(24 * time.Hour)
				logger.ErrorContext(ctx, "Can't compute next run for schedule",
					"schedule_id", schedule.Id.String(), "error", err.Error())
			}
			if err := w.repository.UpdateScheduleNextRun(ctx, tx, schedule.Id, nextRunAt); err != nil {
				return err
			}

			logger.InfoContext(ctx, "Enqueued scheduled report run",
				"schedule_id", schedule.Id.String(),
				"report_name", schedule.ReportName,
				"result_id", newResultId.String())
		}
		return nil
	})
}
