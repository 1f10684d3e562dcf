package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/utils"
)

type resultsRepository interface {
	GetNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		resultId uuid.UUID,
	) (models.NotebookResult, error)
	ListNotebookResults(
		ctx context.Context,
		exec repositories.Executor,
		filters models.ListResultsFilters,
	) ([]models.NotebookResult, error)
	SoftDeleteNotebookResult(
		ctx context.Context,
		exec repositories.Executor,
		resultId uuid.UUID,
	) error
	SoftDeleteResultsByReportName(
		ctx context.Context,
		exec repositories.Executor,
		reportName string,
	) (int64, error)
}

// ResultsUsecase reads and deletes report runs. Listings are served through a
// short-lived cache: result pages are polled aggressively by browsers while a
// report runs, and the listing query is by far the hottest one.
type ResultsUsecase struct {
	executorGetter repositories.ExecutorGetter
	repository     resultsRepository
	listingCache   *expirable.LRU[string, []models.NotebookResult]
}

func NewResultsUsecase(
	executorGetter repositories.ExecutorGetter,
	repository resultsRepository,
	cacheSize int,
	cacheTTL time.Duration,
) *ResultsUsecase {
	return &ResultsUsecase{
		executorGetter: executorGetter,
		repository:     repository,
		listingCache:   expirable.NewLRU[string, []models.NotebookResult](cacheSize, nil, cacheTTL),
	}
}

func (uc *ResultsUsecase) GetResult(ctx context.Context, resultId uuid.UUID) (models.NotebookResult, error) {
	return uc.repository.GetNotebookResult(ctx, uc.executorGetter.GetExecutor(), resultId)
}

func (uc *ResultsUsecase) ListResults(
	ctx context.Context,
	filters models.ListResultsFilters,
) ([]models.NotebookResult, error) {
	cacheKey := fmt.Sprintf("%s|%d", filters.ReportName, filters.Limit)
	if cached, ok := uc.listingCache.Get(cacheKey); ok {
		return cached, nil
	}

	results, err := uc.repository.ListNotebookResults(ctx, uc.executorGetter.GetExecutor(), filters)
	if err != nil {
		return nil, err
	}
	uc.listingCache.Add(cacheKey, results)
	return results, nil
}

func (uc *ResultsUsecase) DeleteResult(ctx context.Context, resultId uuid.UUID) error {
	if err := uc.repository.SoftDeleteNotebookResult(
		ctx, uc.executorGetter.GetExecutor(), resultId,
	); err != nil {
		return err
	}
	uc.listingCache.Purge()
	return nil
}

func (uc *ResultsUsecase) DeleteResultsByReportName(ctx context.Context, reportName string) (int64, error) {
	deleted, err := uc.repository.SoftDeleteResultsByReportName(
		ctx, uc.executorGetter.GetExecutor(), reportName)
	if err != nil {
		return 0, err
	}
	uc.listingCache.Purge()

	logger := utils.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Deleted report results", "report_name", reportName, "count", deleted)
	return deleted, nil
}
