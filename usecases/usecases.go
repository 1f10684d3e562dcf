package usecases

import (
	"time"

	"github.com/notebooker/backend/repositories"
)

type Usecases struct {
	Repositories repositories.Repositories

	appName    string
	apiVersion string

	// built once: the listing cache must survive across requests
	resultsUsecase *ResultsUsecase
}

type Option func(*options)

type options struct {
	appName          string
	apiVersion       string
	resultsCacheSize int
	resultsCacheTTL  time.Duration
}

func WithAppName(appName string) Option {
	return func(o *options) {
		o.appName = appName
	}
}

func WithApiVersion(apiVersion string) Option {
	return func(o *options) {
		o.apiVersion = apiVersion
	}
}

func WithResultsCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.resultsCacheSize = size
		o.resultsCacheTTL = ttl
	}
}

func NewUsecases(repositories repositories.Repositories, opts ...Option) Usecases {
	o := &options{
		resultsCacheSize: 512,
		resultsCacheTTL:  time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return Usecases{
		Repositories: repositories,
		appName:      o.appName,
		apiVersion:   o.apiVersion,
		resultsUsecase: NewResultsUsecase(
			repositories.ExecutorGetter,
			repositories.NotebookerDbRepository,
			o.resultsCacheSize,
			o.resultsCacheTTL,
		),
	}
}

func (usecases Usecases) NewLivenessUsecase() LivenessUsecase {
	return LivenessUsecase{
		executorGetter: usecases.Repositories.ExecutorGetter,
		repository:     usecases.Repositories.NotebookerDbRepository,
	}
}

func (usecases Usecases) NewTemplatesUsecase() TemplatesUsecase {
	return TemplatesUsecase{
		templateRepository: usecases.Repositories.TemplateRepository,
	}
}

func (usecases Usecases) NewRunReportUsecase() RunReportUsecase {
	return RunReportUsecase{
		executorGetter:     usecases.Repositories.ExecutorGetter,
		repository:         usecases.Repositories.NotebookerDbRepository,
		templateRepository: usecases.Repositories.TemplateRepository,
		taskQueue:          usecases.Repositories.TaskQueueRepository,
	}
}

func (usecases Usecases) NewResultsUsecase() *ResultsUsecase {
	return usecases.resultsUsecase
}

func (usecases Usecases) NewScheduleUsecase() ScheduleUsecase {
	return ScheduleUsecase{
		executorGetter:     usecases.Repositories.ExecutorGetter,
		repository:         usecases.Repositories.NotebookerDbRepository,
		templateRepository: usecases.Repositories.TemplateRepository,
	}
}
