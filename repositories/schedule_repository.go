package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories/dbmodels"
)

func (repo NotebookerDbRepository) CreateReportSchedule(
	ctx context.Context,
	exec Executor,
	input models.CreateReportSchedule,
	newScheduleId uuid.UUID,
) error {
	overrides, err := json.Marshal(input.Overrides)
	if err != nil {
		return errors.Wrap(err, "can't encode overrides")
	}
	_, err = ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_REPORT_SCHEDULES).
			Columns(
				"id",
				"report_name",
				"report_title",
				"cron_expression",
				"overrides",
				"overrides_raw",
				"mailto",
				"next_run_at",
			).
			Values(
				newScheduleId,
				input.ReportName,
				input.ReportTitle,
				input.CronExpression,
				overrides,
				input.OverridesRaw,
				nullableString(input.Mailto),
				input.NextRunAt,
			),
	)
	if IsUniqueViolationError(err) {
		return errors.Wrap(models.ConflictError,
			"a schedule already exists for this report and cron expression")
	}
	return err
}

func (repo NotebookerDbRepository) GetReportSchedule(
	ctx context.Context,
	exec Executor,
	scheduleId uuid.UUID,
) (models.ReportSchedule, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectReportScheduleColumn...).
			From(dbmodels.TABLE_REPORT_SCHEDULES).
			Where(squirrel.Eq{"id": scheduleId}),
		dbmodels.AdaptReportSchedule,
	)
}

func (repo NotebookerDbRepository) ListReportSchedules(
	ctx context.Context,
	exec Executor,
) ([]models.ReportSchedule, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectReportScheduleColumn...).
			From(dbmodels.TABLE_REPORT_SCHEDULES).
			OrderBy("created_at DESC"),
		dbmodels.AdaptReportSchedule,
	)
}

// ListDueReportSchedules locks the due rows so that two concurrent scheduler
// jobs never enqueue the same run twice.
func (repo NotebookerDbRepository) ListDueReportSchedules(
	ctx context.Context,
	exec Executor,
	now time.Time,
) ([]models.ReportSchedule, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectReportScheduleColumn...).
			From(dbmodels.TABLE_REPORT_SCHEDULES).
			Where(squirrel.LtOrEq{"next_run_at": now}).
			Suffix("FOR UPDATE SKIP LOCKED"),
		dbmodels.AdaptReportSchedule,
	)
}

func (repo NotebookerDbRepository) UpdateScheduleNextRun(
	ctx context.Context,
	exec Executor,
	scheduleId uuid.UUID,
	nextRunAt time.Time,
) error {
	_, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_REPORT_SCHEDULES).
			Set("next_run_at", nextRunAt).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": scheduleId}),
	)
	return err
}

func (repo NotebookerDbRepository) DeleteReportSchedule(
	ctx context.Context,
	exec Executor,
	scheduleId uuid.UUID,
) error {
	tag, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Delete(dbmodels.TABLE_REPORT_SCHEDULES).
			Where(squirrel.Eq{"id": scheduleId}),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(models.NotFoundError, "no schedule to delete")
	}
	return nil
}
