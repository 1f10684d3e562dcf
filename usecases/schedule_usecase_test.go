package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
)

type fakeScheduleRepository struct {
	created   []models.CreateReportSchedule
	schedules []models.ReportSchedule
	deleted   []uuid.UUID
}

func (f *fakeScheduleRepository) CreateReportSchedule(
	ctx context.Context,
	exec repositories.Executor,
	input models.CreateReportSchedule,
	newScheduleId uuid.UUID,
) error {
	f.created = append(f.created, input)
	return nil
}

func (f *fakeScheduleRepository) GetReportSchedule(
	ctx context.Context,
	exec repositories.Executor,
	scheduleId uuid.UUID,
) (models.ReportSchedule, error) {
	for _, schedule := range f.schedules {
		if schedule.Id == scheduleId {
			return schedule, nil
		}
	}
	return models.ReportSchedule{}, models.NotFoundError
}

func (f *fakeScheduleRepository) ListReportSchedules(
	ctx context.Context,
	exec repositories.Executor,
) ([]models.ReportSchedule, error) {
	return f.schedules, nil
}

func (f *fakeScheduleRepository) DeleteReportSchedule(
	ctx context.Context,
	exec repositories.Executor,
	scheduleId uuid.UUID,
) error {
	f.deleted = append(f.deleted, scheduleId)
	return nil
}

func newTestScheduleUsecase(repo *fakeScheduleRepository) ScheduleUsecase {
	return ScheduleUsecase{
		executorGetter:     repositories.NewExecutorGetterStub(),
		repository:         repo,
		templateRepository: fakeTemplateRepository{templates: map[string]bool{"sales/daily": true}},
	}
}

func TestCreateScheduleComputesNextRun(t *testing.T) {
	repo := &fakeScheduleRepository{}
	uc := newTestScheduleUsecase(repo)

	schedule, err := uc.CreateSchedule(context.Background(), CreateScheduleInput{
		ReportName:     "sales/daily",
		CronExpression: "0 6 * * *",
		OverridesRaw:   "n_days = 1",
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "sales/daily", schedule.ReportTitle, "title defaults to the report name")
	assert.Equal(t, map[string]any{"n_days": int64(1)}, schedule.Overrides)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), schedule.NextRunAt, 24*time.Hour)
	assert.True(t, schedule.NextRunAt.After(time.Now().UTC()))
}

func TestCreateScheduleRejectsInvalidCron(t *testing.T) {
	repo := &fakeScheduleRepository{}
	uc := newTestScheduleUsecase(repo)

	_, err := uc.CreateSchedule(context.Background(), CreateScheduleInput{
		ReportName:     "sales/daily",
		CronExpression: "every tuesday",
	})

	assert.ErrorIs(t, err, models.ErrInvalidCronExpression)
	assert.Empty(t, repo.created)
}

func TestCreateScheduleRejectsBrokenOverrides(t *testing.T) {
	repo := &fakeScheduleRepository{}
	uc := newTestScheduleUsecase(repo)

	_, err := uc.CreateSchedule(context.Background(), CreateScheduleInput{
		ReportName:     "sales/daily",
		CronExpression: "0 6 * * *",
		OverridesRaw:   "n_days = undefined_name",
	})

	var issuesErr models.OverrideIssuesError
	require.ErrorAs(t, err, &issuesErr)
	assert.Len(t, issuesErr.Issues, 1)
	assert.Empty(t, repo.created, "a schedule that cannot evaluate is never stored")
}

func TestCreateScheduleUnknownTemplate(t *testing.T) {
	repo := &fakeScheduleRepository{}
	uc := newTestScheduleUsecase(repo)

	_, err := uc.CreateSchedule(context.Background(), CreateScheduleInput{
		ReportName:     "no/such/report",
		CronExpression: "0 6 * * *",
	})

	assert.ErrorIs(t, err, models.ErrUnknownTemplate)
	assert.Empty(t, repo.created)
}

func TestGetSchedule(t *testing.T) {
	scheduleId := uuid.New()
	repo := &fakeScheduleRepository{
		schedules: []models.ReportSchedule{
			{Id: scheduleId, ReportName: "sales/daily", CronExpression: "0 6 * * *"},
		},
	}
	uc := newTestScheduleUsecase(repo)

	schedule, err := uc.GetSchedule(context.Background(), scheduleId)
	require.NoError(t, err)
	assert.Equal(t, "sales/daily", schedule.ReportName)

	_, err = uc.GetSchedule(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.NotFoundError)
}

func TestDeleteSchedule(t *testing.T) {
	repo := &fakeScheduleRepository{}
	uc := newTestScheduleUsecase(repo)
	scheduleId := uuid.New()

	require.NoError(t, uc.DeleteSchedule(context.Background(), scheduleId))
	assert.Equal(t, []uuid.UUID{scheduleId}, repo.deleted)
}
