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

type countingResultsRepository struct {
	listCalls int
	results   []models.NotebookResult
}

func (f *countingResultsRepository) GetNotebookResult(
	ctx context.Context,
	exec repositories.Executor,
	resultId uuid.UUID,
) (models.NotebookResult, error) {
	return models.NotebookResult{}, models.NotFoundError
}

func (f *countingResultsRepository) ListNotebookResults(
	ctx context.Context,
	exec repositories.Executor,
	filters models.ListResultsFilters,
) ([]models.NotebookResult, error) {
	f.listCalls++
	return f.results, nil
}

func (f *countingResultsRepository) SoftDeleteNotebookResult(
	ctx context.Context,
	exec repositories.Executor,
	resultId uuid.UUID,
) error {
	return nil
}

func (f *countingResultsRepository) SoftDeleteResultsByReportName(
	ctx context.Context,
	exec repositories.Executor,
	reportName string,
) (int64, error) {
	return 0, nil
}

func TestListResultsServedFromCache(t *testing.T) {
	repo := &countingResultsRepository{
		results: []models.NotebookResult{{Id: uuid.New(), ReportName: "sales/daily"}},
	}
	uc := NewResultsUsecase(repositories.NewExecutorGetterStub(), repo, 8, time.Minute)
	filters := models.ListResultsFilters{ReportName: "sales/daily", Limit: 50}

	first, err := uc.ListResults(context.Background(), filters)
	require.NoError(t, err)
	second, err := uc.ListResults(context.Background(), filters)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.listCalls, "the second listing is a cache hit")

	require.NoError(t, uc.DeleteResult(context.Background(), uuid.New()))
	_, err = uc.ListResults(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls, "deletes purge the cache")
}

func TestResultsUsecaseIsSharedAcrossRequests(t *testing.T) {
	uc := NewUsecases(repositories.Repositories{
		ExecutorGetter: repositories.NewExecutorGetterStub(),
	})

	// Handlers call NewResultsUsecase per request; the listing cache only
	// earns its keep if they all get the same instance.
	assert.Same(t, uc.NewResultsUsecase(), uc.NewResultsUsecase())
}
