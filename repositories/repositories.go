package repositories

import (
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
)

type Repositories struct {
	ExecutorGetter         ExecutorGetter
	NotebookerDbRepository NotebookerDbRepository
	TemplateRepository     TemplateRepository
	TaskQueueRepository    TaskQueueRepository
	PapermillRepository    PapermillRepository
}

type Option func(*options)

type options struct {
	riverClient  *river.Client[pgx.Tx]
	templatesDir string
	papermill    PapermillRepository
}

func WithRiverClient(client *river.Client[pgx.Tx]) Option {
	return func(o *options) {
		o.riverClient = client
	}
}

func WithTemplatesDir(dir string) Option {
	return func(o *options) {
		o.templatesDir = dir
	}
}

func WithNotebookExecutor(papermill PapermillRepository) Option {
	return func(o *options) {
		o.papermill = papermill
	}
}

func NewRepositories(pool *pgxpool.Pool, opts ...Option) Repositories {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	repositories := Repositories{
		ExecutorGetter:         NewExecutorGetter(pool),
		NotebookerDbRepository: NotebookerDbRepository{},
		TemplateRepository:     NewTemplateRepository(o.templatesDir),
		PapermillRepository:    o.papermill,
	}
	if o.riverClient != nil {
		repositories.TaskQueueRepository = NewTaskQueueRepository(o.riverClient)
	}
	return repositories
}
