package usecases

import (
	"context"

	"github.com/notebooker/backend/repositories"
)

type livenessRepository interface {
	Liveness(ctx context.Context, exec repositories.Executor) error
}

type LivenessUsecase struct {
	executorGetter repositories.ExecutorGetter
	repository     livenessRepository
}

func (uc LivenessUsecase) Liveness(ctx context.Context) error {
	return uc.repository.Liveness(ctx, uc.executorGetter.GetExecutor())
}
