package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories/dbmodels"
)

// NotebookerDbRepository groups every query against the notebooker database.
type NotebookerDbRepository struct{}

func (repo NotebookerDbRepository) CreateNotebookResult(
	ctx context.Context,
	exec Executor,
	input models.CreateReportRun,
	newResultId uuid.UUID,
) error {
	overrides, err := json.Marshal(input.Overrides)
	if err != nil {
		return errors.Wrap(err, "can't encode overrides")
	}
	_, err = ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_NOTEBOOK_RESULTS).
			Columns(
				"id",
				"report_name",
				"report_title",
				"status",
				"overrides",
				"overrides_raw",
				"mailto",
				"error_mailto",
				"mailfrom",
				"email_subject",
				"generate_pdf",
				"hide_code",
				"is_slideshow",
				"scheduler_job_id",
			).
			Values(
				newResultId,
				input.ReportName,
				input.ReportTitle,
				models.ResultStatusPending,
				overrides,
				input.OverridesRaw,
				nullableString(input.Mailto),
				nullableString(input.ErrorMailto),
				nullableString(input.Mailfrom),
				nullableString(input.EmailSubject),
				input.GeneratePdf,
				input.HideCode,
				input.IsSlideshow,
				null.StringFromPtr(input.SchedulerJobId),
			),
	)
	return err
}

func (repo NotebookerDbRepository) GetNotebookResult(
	ctx context.Context,
	exec Executor,
	resultId uuid.UUID,
) (models.NotebookResult, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectNotebookResultColumn...).
			From(dbmodels.TABLE_NOTEBOOK_RESULTS).
			Where(squirrel.Eq{"id": resultId}),
		dbmodels.AdaptNotebookResult,
	)
}

func (repo NotebookerDbRepository) ListNotebookResults(
	ctx context.Context,
	exec Executor,
	filters models.ListResultsFilters,
) ([]models.NotebookResult, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectNotebookResultColumn...).
		From(dbmodels.TABLE_NOTEBOOK_RESULTS).
		Where(squirrel.NotEq{"status": models.ResultStatusDeleted}).
		OrderBy("created_at DESC")

	if filters.ReportName != "" {
		query = query.Where(squirrel.Eq{"report_name": filters.ReportName})
	}
	if filters.Limit > 0 {
		query = query.Limit(uint64(filters.Limit))
	}

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptNotebookResult)
}

func (repo NotebookerDbRepository) UpdateNotebookResult(
	ctx context.Context,
	exec Executor,
	input models.UpdateNotebookResult,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_NOTEBOOK_RESULTS).
		Set("status", input.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": input.Id})

	if input.ErrorInfo != nil {
		query = query.Set("error_info", *input.ErrorInfo)
	}
	if input.OutputPath != nil {
		query = query.Set("output_path", *input.OutputPath)
	}
	if input.StartedAt != nil {
		query = query.Set("started_at", *input.StartedAt)
	}
	if input.FinishedAt != nil {
		query = query.Set("finished_at", *input.FinishedAt)
	}

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

// SoftDeleteNotebookResult keeps the row so reruns of sibling results stay
// possible, but hides it from every listing.
func (repo NotebookerDbRepository) SoftDeleteNotebookResult(
	ctx context.Context,
	exec Executor,
	resultId uuid.UUID,
) error {
	tag, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_NOTEBOOK_RESULTS).
			Set("status", models.ResultStatusDeleted).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"id": resultId}).
			Where(squirrel.NotEq{"status": models.ResultStatusDeleted}),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrap(models.NotFoundError, "no result to delete")
	}
	return nil
}

func (repo NotebookerDbRepository) SoftDeleteResultsByReportName(
	ctx context.Context,
	exec Executor,
	reportName string,
) (int64, error) {
	tag, err := ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_NOTEBOOK_RESULTS).
			Set("status", models.ResultStatusDeleted).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"report_name": reportName}).
			Where(squirrel.NotEq{"status": models.ResultStatusDeleted}),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (repo NotebookerDbRepository) MarkResultStarted(
	ctx context.Context,
	exec Executor,
	resultId uuid.UUID,
	startedAt time.Time,
) error {
	return repo.UpdateNotebookResult(ctx, exec, models.UpdateNotebookResult{
		Id:        resultId,
		Status:    models.ResultStatusRunning,
		StartedAt: &startedAt,
	})
}

func nullableString(s string) null.String {
	return null.NewString(s, s != "")
}
