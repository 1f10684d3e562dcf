package usecases

import (
	"context"
	"time"

	"github.com/adhocore/gronx"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/usecases/override_eval"
)

type scheduleRepository interface {
	CreateReportSchedule(
		ctx context.Context,
		exec repositories.Executor,
		input models.CreateReportSchedule,
		newScheduleId uuid.UUID,
	) error
	GetReportSchedule(
		ctx context.Context,
		exec repositories.Executor,
		scheduleId uuid.UUID,
	) (models.ReportSchedule, error)
	ListReportSchedules(
		ctx context.Context,
		exec repositories.Executor,
	) ([]models.ReportSchedule, error)
	DeleteReportSchedule(
		ctx context.Context,
		exec repositories.Executor,
		scheduleId uuid.UUID,
	) error
}

type ScheduleUsecase struct {
	executorGetter     repositories.ExecutorGetter
	repository         scheduleRepository
	templateRepository runReportTemplateRepository
}

type CreateScheduleInput struct {
	ReportName     string
	ReportTitle    string
	CronExpression string
	OverridesRaw   string
	Mailto         string
}

// CreateSchedule validates the cron expression and evaluates the overrides up
// front, so a schedule that could never produce a run is rejected at creation
// instead of failing silently every night.
func (uc ScheduleUsecase) CreateSchedule(
	ctx context.Context,
	input CreateScheduleInput,
) (models.ReportSchedule, error) {
	if _, err := uc.templateRepository.GetTemplate(ctx, input.ReportName); err != nil {
		return models.ReportSchedule{}, err
	}
	if input.ReportTitle == "" {
		input.ReportTitle = input.ReportName
	}
	if !gronx.New().IsValid(input.CronExpression) {
		return models.ReportSchedule{}, errors.Wrapf(models.ErrInvalidCronExpression,
			"%q", input.CronExpression)
	}

	overrideResult := override_eval.HandleOverrides(ctx, input.OverridesRaw)
	if overrideResult.HasIssues() {
		return models.ReportSchedule{}, models.OverrideIssuesError{Issues: overrideResult.Issues}
	}

	nextRunAt, err := gronx.NextTickAfter(input.CronExpression, time.Now().UTC(), false)
	if err != nil {
		return models.ReportSchedule{}, errors.Wrap(models.ErrInvalidCronExpression, err.Error())
	}

	newScheduleId := uuid.New()
	createSchedule := models.CreateReportSchedule{
		ReportName:     input.ReportName,
		ReportTitle:    input.ReportTitle,
		CronExpression: input.CronExpression,
		Overrides:      overrideResult.Values,
		OverridesRaw:   input.OverridesRaw,
		Mailto:         input.Mailto,
		NextRunAt:      nextRunAt,
	}
	if err := uc.repository.CreateReportSchedule(
		ctx, uc.executorGetter.GetExecutor(), createSchedule, newScheduleId,
	); err != nil {
		return models.ReportSchedule{}, err
	}

	return models.ReportSchedule{
		Id:             newScheduleId,
		ReportName:     createSchedule.ReportName,
		ReportTitle:    createSchedule.ReportTitle,
		CronExpression: createSchedule.CronExpression,
		Overrides:      createSchedule.Overrides,
		OverridesRaw:   createSchedule.OverridesRaw,
		Mailto:         createSchedule.Mailto,
		NextRunAt:      createSchedule.NextRunAt,
	}, nil
}

func (uc ScheduleUsecase) GetSchedule(ctx context.Context, scheduleId uuid.UUID) (models.ReportSchedule, error) {
	return uc.repository.GetReportSchedule(ctx, uc.executorGetter.GetExecutor(), scheduleId)
}

func (uc ScheduleUsecase) ListSchedules(ctx context.Context) ([]models.ReportSchedule, error) {
	return uc.repository.ListReportSchedules(ctx, uc.executorGetter.GetExecutor())
}

func (uc ScheduleUsecase) DeleteSchedule(ctx context.Context, scheduleId uuid.UUID) error {
	return uc.repository.DeleteReportSchedule(ctx, uc.executorGetter.GetExecutor(), scheduleId)
}
