package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"

	"github.com/notebooker/backend/infra"
	"github.com/notebooker/backend/jobs"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/usecases/worker_jobs"
	"github.com/notebooker/backend/utils"
)

func RunWorker(apiVersion string) error {
	// This is where we read the environment variables and set up the configuration for the application.
	pgConfig := infra.PgConfig{
		ConnectionString: utils.GetRequiredEnv[string]("PG_CONNECTION_STRING"),
	}
	workerConfig := struct {
		appName         string
		env             string
		enableTracing   bool
		loggingFormat   string
		sentryDsn       string
		templatesDir    string
		outputDir       string
		papermillBinary string
		papermillKernel string
		maxWorkers      int
		probePort       string
	}{
		appName:         "notebooker-backend",
		env:             utils.GetEnv("ENV", "development"),
		enableTracing:   utils.GetEnv("ENABLE_TRACING", false),
		loggingFormat:   utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:       utils.GetEnv("SENTRY_DSN", ""),
		templatesDir:    utils.GetRequiredEnv[string]("TEMPLATES_DIR"),
		outputDir:       utils.GetEnv("OUTPUT_DIR", "/tmp/notebooker-output"),
		papermillBinary: utils.GetEnv("PAPERMILL_BINARY", "papermill"),
		papermillKernel: utils.GetEnv("PAPERMILL_KERNEL", ""),
		maxWorkers:      utils.GetEnv("MAX_CONCURRENT_REPORTS", 4),
		probePort:       utils.GetEnv("WORKER_PROBE_PORT", ""),
	}

	logger := utils.NewLogger(workerConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(workerConfig.sentryDsn, workerConfig.env, apiVersion)
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(infra.TelemetryConfiguration{
		Enabled:         workerConfig.enableTracing,
		ApplicationName: workerConfig.appName,
	}, apiVersion)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
	}
	ctx = utils.StoreOpenTelemetryTracerInContext(ctx, telemetryRessources.Tracer)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig.GetConnectionString())
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	// The insert-only client goes to the repositories so that the scheduler
	// worker can enqueue report executions in the same transaction that
	// advances a schedule's next run.
	insertClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	repos := repositories.NewRepositories(
		pool,
		repositories.WithRiverClient(insertClient),
		repositories.WithTemplatesDir(workerConfig.templatesDir),
		repositories.WithNotebookExecutor(repositories.NewPapermillRepository(
			workerConfig.papermillBinary,
			workerConfig.outputDir,
			workerConfig.papermillKernel,
		)),
	)

	workers := river.NewWorkers()
	river.AddWorker(workers, worker_jobs.NewExecuteReportWorker(
		repos.ExecutorGetter,
		repos.NotebookerDbRepository,
		repos.TemplateRepository,
		repos.PapermillRepository,
	))
	river.AddWorker(workers, worker_jobs.NewScheduleDueReportsWorker(
		repos.ExecutorGetter,
		repos.NotebookerDbRepository,
		repos.TaskQueueRepository,
	))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		FetchPollInterval: 100 * time.Millisecond,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: workerConfig.maxWorkers},
		},

		// Must be larger than the longest report execution, otherwise a
		// running notebook gets rescued and executed a second time.
		RescueStuckJobsAfter: worker_jobs.EXECUTE_REPORT_TIMEOUT + 15*time.Minute,
		WorkerMiddleware: []rivertype.WorkerMiddleware{
			jobs.NewTracingMiddleware(telemetryRessources.Tracer),
			jobs.NewSentryMiddleware(),
			jobs.NewLoggerMiddleware(logger),
			jobs.NewRecoveredMiddleware(),
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			worker_jobs.NewScheduleDueReportsPeriodicJob(),
		},
	})
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	if err := riverClient.Start(ctx); err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	// Run a non-blocking basic http server to respond to container liveness probes.
	if workerConfig.probePort != "" {
		go serveWorkerProbe(ctx, workerConfig.probePort)
	}

	// Teardown sequence
	sigintOrTerm := make(chan os.Signal, 1)
	signal.Notify(sigintOrTerm, syscall.SIGINT, syscall.SIGTERM)

	go cleanStop(ctx, sigintOrTerm, riverClient)

	<-riverClient.Stopped()
	logger.InfoContext(ctx, "River client stopped")

	return nil
}

func serveWorkerProbe(ctx context.Context, port string) {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		utils.LogAndReportSentryError(ctx, err)
	}
}

// This stop goroutine waits for SIGINT/SIGTERM and when received, tries to stop
// gracefully by allowing a chance for jobs to finish. But if that isn't
// working, a second SIGINT/SIGTERM will tell it to terminate with prejudice and
// it'll issue a hard stop that cancels the context of all active jobs.
func cleanStop(ctx context.Context, sigintOrTerm chan os.Signal, riverClient *river.Client[pgx.Tx]) {
	logger := utils.LoggerFromContext(ctx)
	<-sigintOrTerm
	logger.InfoContext(ctx, "Received SIGINT/SIGTERM; initiating soft stop (try to wait for jobs to finish)")

	softStopCtx, softStopCtxCancel := context.WithTimeout(ctx, 30*time.Second)
	defer softStopCtxCancel()

	go func() {
		select {
		case <-sigintOrTerm:
			logger.InfoContext(ctx, "Received SIGINT/SIGTERM again; initiating hard stop (cancel everything)")
			softStopCtxCancel()
		case <-softStopCtx.Done():
			logger.InfoContext(ctx, "Soft stop timeout; initiating hard stop (cancel everything)")
		}
	}()

	err := riverClient.Stop(softStopCtx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Soft stop failed", "error", err)
		panic(err)
	}
	if err == nil {
		logger.InfoContext(ctx, "Soft stop succeeded")
		return
	}

	hardStopCtx, hardStopCtxCancel := context.WithTimeout(ctx, 10*time.Second)
	defer hardStopCtxCancel()

	err = riverClient.StopAndCancel(hardStopCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		logger.InfoContext(ctx, "Hard stop timeout; ignoring stop procedure and exiting unsafely")
	} else if err != nil {
		logger.ErrorContext(ctx, "Hard stop failed", "error", err)
		panic(err)
	}
}
