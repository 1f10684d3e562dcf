package usecases

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
)

type fakeRunReportRepository struct {
	created    []models.CreateReportRun
	createdIds []uuid.UUID
	results    map[uuid.UUID]models.NotebookResult
}

func (f *fakeRunReportRepository) CreateNotebookResult(
	ctx context.Context,
	exec repositories.Executor,
	input models.CreateReportRun,
	newResultId uuid.UUID,
) error {
	f.created = append(f.created, input)
	f.createdIds = append(f.createdIds, newResultId)
	return nil
}

func (f *fakeRunReportRepository) GetNotebookResult(
	ctx context.Context,
	exec repositories.Executor,
	resultId uuid.UUID,
) (models.NotebookResult, error) {
	result, ok := f.results[resultId]
	if !ok {
		return models.NotebookResult{}, models.NotFoundError
	}
	return result, nil
}

type fakeTemplateRepository struct {
	templates map[string]bool
}

func (f fakeTemplateRepository) GetTemplate(ctx context.Context, name string) (models.NotebookTemplate, error) {
	if !f.templates[name] {
		return models.NotebookTemplate{}, models.ErrUnknownTemplate
	}
	return models.NotebookTemplate{Name: name}, nil
}

type fakeTaskQueue struct {
	enqueued []uuid.UUID
}

func (f *fakeTaskQueue) EnqueueExecuteReportTask(ctx context.Context, tx pgx.Tx, resultId uuid.UUID) error {
	f.enqueued = append(f.enqueued, resultId)
	return nil
}

func newTestRunReportUsecase(repo *fakeRunReportRepository, taskQueue *fakeTaskQueue) RunReportUsecase {
	return RunReportUsecase{
		executorGetter:     repositories.NewExecutorGetterStub(),
		repository:         repo,
		templateRepository: fakeTemplateRepository{templates: map[string]bool{"sales/daily": true}},
		taskQueue:          taskQueue,
	}
}

func TestRunReportUnknownTemplate(t *testing.T) {
	repo := &fakeRunReportRepository{}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	_, err := uc.RunReport(context.Background(), RunReportInput{ReportName: "no/such/report"})

	assert.ErrorIs(t, err, models.ErrUnknownTemplate)
	assert.Empty(t, repo.created)
	assert.Empty(t, taskQueue.enqueued)
}

func TestRunReportOverrideIssuesAbortSubmission(t *testing.T) {
	repo := &fakeRunReportRepository{}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	_, err := uc.RunReport(context.Background(), RunReportInput{
		ReportName:   "sales/daily",
		OverridesRaw: "n = 1\nimport nonexistent_module\nm = undefined_name",
	})

	var issuesErr models.OverrideIssuesError
	require.ErrorAs(t, err, &issuesErr)
	assert.ErrorIs(t, err, models.UnprocessableEntityError)
	assert.Len(t, issuesErr.Issues, 2)
	assert.Empty(t, repo.created, "no result row on override issues")
	assert.Empty(t, taskQueue.enqueued, "no job on override issues")
}

func TestRunReportEvaluatesOverrides(t *testing.T) {
	repo := &fakeRunReportRepository{}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	resultId, err := uc.RunReport(context.Background(), RunReportInput{
		ReportName:   "sales/daily",
		OverridesRaw: "n_days = 7 * 2\nregion = 'em' + 'ea'",
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "sales/daily", created.ReportName)
	assert.Equal(t, "sales/daily", created.ReportTitle, "title defaults to the report name")
	assert.Equal(t, map[string]any{"n_days": int64(14), "region": "emea"}, created.Overrides)
	assert.Equal(t, []uuid.UUID{resultId}, repo.createdIds)
	assert.Equal(t, []uuid.UUID{resultId}, taskQueue.enqueued,
		"the queued job targets the created result")
}

func TestRunReportDecodedOverridesBypassEvaluation(t *testing.T) {
	repo := &fakeRunReportRepository{}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	_, err := uc.RunReport(context.Background(), RunReportInput{
		ReportName:  "sales/daily",
		ReportTitle: "Daily sales",
		Overrides:   map[string]any{"n_days": float64(7), "regions": []any{"emea", "amer"}},
	})

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Daily sales", repo.created[0].ReportTitle)
	// integral floats come back as int64 after the serializability round-trip
	assert.Equal(t, map[string]any{
		"n_days":  int64(7),
		"regions": []any{"emea", "amer"},
	}, repo.created[0].Overrides)
}

func TestRunReportDecodedOverridesMustBeSerializable(t *testing.T) {
	repo := &fakeRunReportRepository{}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	_, err := uc.RunReport(context.Background(), RunReportInput{
		ReportName: "sales/daily",
		Overrides:  map[string]any{"ratio": math.NaN()},
	})

	assert.ErrorIs(t, err, models.BadParameterError)
	assert.Empty(t, repo.created)
}

func TestRerunReportKeepsStoredOverridesVerbatim(t *testing.T) {
	originalId := uuid.New()
	schedulerJobId := uuid.NewString()
	repo := &fakeRunReportRepository{
		results: map[uuid.UUID]models.NotebookResult{
			originalId: {
				Id:          originalId,
				ReportName:  "sales/daily",
				ReportTitle: "Daily sales",
				Status:      models.ResultStatusDone,
				// Raw text no longer evaluates to this value on purpose:
				// a rerun must reuse the stored map, not re-parse.
				Overrides:      map[string]any{"n_days": int64(14)},
				OverridesRaw:   "n_days = undefined_name",
				SchedulerJobId: &schedulerJobId,
			},
		},
	}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	newId, err := uc.RerunReport(context.Background(), originalId)

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "Rerun of Daily sales", created.ReportTitle)
	assert.Equal(t, map[string]any{"n_days": int64(14)}, created.Overrides)
	assert.Equal(t, "n_days = undefined_name", created.OverridesRaw)
	assert.Nil(t, created.SchedulerJobId,
		"a manual rerun of a scheduled run is not attributed to the scheduler")
	assert.Equal(t, []uuid.UUID{newId}, taskQueue.enqueued)
}

func TestRerunReportDoesNotStackTitlePrefix(t *testing.T) {
	rerunId := uuid.New()
	repo := &fakeRunReportRepository{
		results: map[uuid.UUID]models.NotebookResult{
			rerunId: {
				Id:          rerunId,
				ReportName:  "sales/daily",
				ReportTitle: "Rerun of Daily sales",
				Status:      models.ResultStatusDone,
			},
		},
	}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	_, err := uc.RerunReport(context.Background(), rerunId)

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Rerun of Daily sales", repo.created[0].ReportTitle)
}

func TestRerunReportOfDeletedResult(t *testing.T) {
	deletedId := uuid.New()
	repo := &fakeRunReportRepository{
		results: map[uuid.UUID]models.NotebookResult{
			deletedId: {Id: deletedId, Status: models.ResultStatusDeleted},
		},
	}
	taskQueue := &fakeTaskQueue{}
	uc := newTestRunReportUsecase(repo, taskQueue)

	_, err := uc.RerunReport(context.Background(), deletedId)

	assert.ErrorIs(t, err, models.ErrResultDeleted)
	assert.Empty(t, repo.created)
}
