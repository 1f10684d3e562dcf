package usecases

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/usecases/override_eval"
	"github.com/notebooker/backend/utils"
)

type runReportRepository interface {
	CreateNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		input models.CreateReportRun,
		newResultId uuid.UUID,
	) error
	GetNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		resultId uuid.UUID,
	) (models.NotebookResult, error)
}

type runReportTemplateRepository interface {
	GetTemplate(ctx context.Context, name string) (models.NotebookTemplate, error)
}

type RunReportUsecase struct {
	executorGetter     repositories.ExecutorGetter
	repository         runReportRepository
	templateRepository runReportTemplateRepository
	taskQueue          repositories.TaskQueueRepository
}

type RunReportInput struct {
	ReportName   string
	ReportTitle  string
	OverridesRaw string
	// Overrides, when non-nil, is an already-decoded JSON object and
	// OverridesRaw is ignored.
	Overrides      map[string]any
	Mailto         string
	ErrorMailto    string
	Mailfrom       string
	EmailSubject   string
	GeneratePdf    bool
	HideCode       bool
	IsSlideshow    bool
	SchedulerJobId *string
}

// RunReport validates the submission, evaluates the overrides and enqueues
// the notebook run. Any override issue aborts the submission: no result row
// and no job are created.
func (uc RunReportUsecase) RunReport(ctx context.Context, input RunReportInput) (uuid.UUID, error) {
	if _, err := uc.templateRepository.GetTemplate(ctx, input.ReportName); err != nil {
		return uuid.Nil, err
	}
	if input.ReportTitle == "" {
		input.ReportTitle = input.ReportName
	}

	overrides, err := uc.resolveOverrides(ctx, input)
	if err != nil {
		return uuid.Nil, err
	}

	newResultId := uuid.New()
	err = uc.executorGetter.Transaction(ctx, func(tx pgx.Tx) error {
		if err := uc.repository.CreateNotebookResult(ctx, tx, models.CreateReportRun{
			ReportName:     input.ReportName,
			ReportTitle:    input.ReportTitle,
			Overrides:      overrides,
			OverridesRaw:   input.OverridesRaw,
			Mailto:         input.Mailto,
			ErrorMailto:    input.ErrorMailto,
			Mailfrom:       input.Mailfrom,
			EmailSubject:   input.EmailSubject,
			GeneratePdf:    input.GeneratePdf,
			HideCode:       input.HideCode,
			IsSlideshow:    input.IsSlideshow,
			SchedulerJobId: input.SchedulerJobId,
		}, newResultId); err != nil {
			return err
		}
		return uc.taskQueue.EnqueueExecuteReportTask(ctx, tx, newResultId)
	})
	if err != nil {
		return uuid.Nil, err
	}

	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Report run submitted",
		"report_name", input.ReportName, "result_id", newResultId.String())
	return newResultId, nil
}

const rerunTitlePrefix = "Rerun of "

// RerunReport re-submits a finished run with its stored overrides map,
// verbatim: the raw override text is never re-parsed, so a rerun sees exactly
// the values the original run saw.
func (uc RunReportUsecase) RerunReport(ctx context.Context, resultId uuid.UUID) (uuid.UUID, error) {
	result, err := uc.repository.GetNotebookResult(ctx, uc.executorGetter.GetExecutor(), resultId)
	if err != nil {
		return uuid.Nil, err
	}
	if result.Status == models.ResultStatusDeleted {
		return uuid.Nil, models.ErrResultDeleted
	}

	title := result.ReportTitle
	if !strings.HasPrefix(title, rerunTitlePrefix) {
		title = rerunTitlePrefix + title
	}

	newResultId := uuid.New()
	err = uc.executorGetter.Transaction(ctx, func(tx pgx.Tx) error {
		if err := uc.repository.CreateNotebookResult(ctx, tx, models.CreateReportRun{
			ReportName:   result.ReportName,
			ReportTitle:  title,
			Overrides:    result.Overrides,
			OverridesRaw: result.OverridesRaw,
			Mailto:       result.Mailto,
			ErrorMailto:  result.ErrorMailto,
			Mailfrom:     result.Mailfrom,
			EmailSubject: result.EmailSubject,
			GeneratePdf:  result.GeneratePdf,
			HideCode:     result.HideCode,
			IsSlideshow:  result.IsSlideshow,
			// a rerun is always a manual submission, even of a scheduled run
			SchedulerJobId: nil,
		}, newResultId); err != nil {
			return err
		}
		return uc.taskQueue.EnqueueExecuteReportTask(ctx, tx, newResultId)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return newResultId, nil
}

func (uc RunReportUsecase) resolveOverrides(ctx context.Context, input RunReportInput) (map[string]any, error) {
	if input.Overrides != nil {
		// already a JSON object: prove each value round-trips anyway
		validated := make(map[string]any, len(input.Overrides))
		for name, value := range input.Overrides {
			roundTripped, err := override_eval.RoundTripValue(value)
			if err != nil {
				return nil, errors.Wrapf(models.BadParameterError, "override %q: %v", name, err)
			}
			validated[name] = roundTripped
		}
		return validated, nil
	}

	result := override_eval.HandleOverrides(ctx, input.OverridesRaw)
	if result.HasIssues() {
		return nil, models.OverrideIssuesError{Issues: result.Issues}
	}
	return result.Values, nil
}
