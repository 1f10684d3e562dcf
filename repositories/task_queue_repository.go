package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"

	"github.com/notebooker/backend/models"
	"github.com/notebooker/backend/utils"
)

const (
	nbRetriesExecuteReport = 3
	priorityExecuteReport  = 2 // nb: higher number is lower priority (between 1 and 4)
)

type riverRepository struct {
	client *river.Client[pgx.Tx]
}

func NewTaskQueueRepository(client *river.Client[pgx.Tx]) TaskQueueRepository {
	return riverRepository{client: client}
}

type TaskQueueRepository interface {
	EnqueueExecuteReportTask(ctx context.Context, tx pgx.Tx, resultId uuid.UUID) error
}

// EnqueueExecuteReportTask inserts the run job in the same transaction as the
// result row, so a result can never exist without its job or vice versa.
func (r riverRepository) EnqueueExecuteReportTask(
	ctx context.Context,
	tx pgx.Tx,
	resultId uuid.UUID,
) error {
	res, err := r.client.InsertTx(ctx, tx, models.ExecuteReportArgs{
		ResultId: resultId,
	}, &river.InsertOpts{
		MaxAttempts: nbRetriesExecuteReport,
		Priority:    priorityExecuteReport,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return err
	}
	logger := utils.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Enqueued report execution task",
		"result_id", resultId, "job_id", res.Job.ID)
	return nil
}
