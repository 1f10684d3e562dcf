package worker_jobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/utils"
)

const EXECUTE_REPORT_TIMEOUT = 30 * time.Minute

type executeReportRepository interface {
	GetNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		resultId uuid.UUID,
	) (models.NotebookResult, error)
	UpdateNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		input models.UpdateNotebookResult,
	) error
	MarkResultStarted(
		ctx context.Context,
		exec repositories.Executor,
		resultId uuid.UUID,
		startedAt time.Time,
	) error
}

type notebookExecutor interface {
	ExecuteNotebook(
		ctx context.Context,
		templatePath string,
		resultId uuid.UUID,
		parameters map[string]any,
	) (string, error)
}

type executeReportTemplateRepository interface {
	GetTemplate(ctx context.Context, name string) (models.NotebookTemplate, error)
}

// ExecuteReportWorker runs one submitted report through the notebook
// executor, tracking the result row pending -> running -> done/error.
type ExecuteReportWorker struct {
	river.WorkerDefaults[models.ExecuteReportArgs]

	executorGetter     repositories.ExecutorGetter
	repository         executeReportRepository
	templateRepository executeReportTemplateRepository
	notebookExecutor   notebookExecutor
}

func NewExecuteReportWorker(
	executorGetter repositories.ExecutorGetter,
	repository executeReportRepository,
	templateRepository executeReportTemplateRepository,
	notebookExecutor notebookExecutor,
) *ExecuteReportWorker {
	return &ExecuteReportWorker{
		executorGetter:     executorGetter,
		repository:         repository,
		templateRepository: templateRepository,
		notebookExecutor:   notebookExecutor,
	}
}

func (w *ExecuteReportWorker) Timeout(job *river.Job[models.ExecuteReportArgs]) time.Duration {
	return EXECUTE_REPORT_TIMEOUT
}

func (w *ExecuteReportWorker) Work(ctx context.Context, job *river.Job[models.ExecuteReportArgs]) error {
	exec := w.executorGetter.GetExecutor()
	logger := utils.LoggerFromContext(ctx)

	result, err := w.repository.GetNotebookResult(ctx, exec, job.Args.ResultId)
	if err != nil {
		return err
	}
	if result.Status == models.ResultStatusDeleted {
		logger.InfoContext(ctx, "Skipping deleted result", "result_id", result.Id.String())
		return nil
	}

	template, err := w.templateRepository.GetTemplate(ctx, result.ReportName)
	if err != nil {
		return w.markFailed(ctx, result.Id, err)
	}

	if err := w.repository.MarkResultStarted(ctx, exec, result.Id, time.Now().UTC()); err != nil {
		return err
	}

	outputPath, err := w.notebookExecutor.ExecuteNotebook(ctx, template.Path, result.Id, result.Overrides)
	if err != nil {
		logger.ErrorContext(ctx, "Notebook execution failed",
			"result_id", result.Id.String(), "error", err.Error())
		return w.markFailed(ctx, result.Id, err)
	}

	finishedAt := time.Now().UTC()
	return w.repository.UpdateNotebookResult(ctx, exec, models.UpdateNotebookResult{
		Id:         result.Id,
		Status:     models.ResultStatusDone,
		OutputPath: &outputPath,
		FinishedAt: &finishedAt,
	})
}

func (w *ExecuteReportWorker) markFailed(ctx context.Context, resultId uuid.UUID, cause error) error {
	errorInfo := cause.Error()
	finishedAt := time.Now().UTC()
	if err := w.repository.UpdateNotebookResult(ctx, w.executorGetter.GetExecutor(),
		models.UpdateNotebookResult{
			Id:         resultId,
			Status:     models.ResultStatusError,
			ErrorInfo:  &errorInfo,
			FinishedAt: &finishedAt,
		},
	); err != nil {
		return err
	}
	return cause
}
