package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"

	"github.com/notebooker/backend/api"
	"github.com/notebooker/backend/infra"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/usecases"
	"github.com/notebooker/backend/utils"
)

func RunServer(apiVersion string) error {
	// This is where we read the environment variables and set up the configuration for the application.
	apiConfig := api.Configuration{
		Env:            utils.GetEnv("ENV", "development"),
		AppName:        "notebooker-backend",
		Port:           utils.GetRequiredEnv[string]("PORT"),
		AllowedOrigins: strings.Split(utils.GetEnv("ALLOWED_ORIGINS", ""), ","),
		DefaultTimeout: utils.GetEnv("REQUEST_TIMEOUT", 30*time.Second),
	}
	pgConfig := infra.PgConfig{
		ConnectionString: utils.GetRequiredEnv[string]("PG_CONNECTION_STRING"),
	}
	serverConfig := struct {
		enableTracing    bool
		loggingFormat    string
		sentryDsn        string
		templatesDir     string
		outputDir        string
		papermillBinary  string
		papermillKernel  string
		resultsCacheSize int
		resultsCacheTTL  time.Duration
	}{
		enableTracing:    utils.GetEnv("ENABLE_TRACING", false),
		loggingFormat:    utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:        utils.GetEnv("SENTRY_DSN", ""),
		templatesDir:     utils.GetRequiredEnv[string]("TEMPLATES_DIR"),
		outputDir:        utils.GetEnv("OUTPUT_DIR", "/tmp/notebooker-output"),
		papermillBinary:  utils.GetEnv("PAPERMILL_BINARY", "papermill"),
		papermillKernel:  utils.GetEnv("PAPERMILL_KERNEL", ""),
		resultsCacheSize: utils.GetEnv("RESULTS_CACHE_SIZE", 512),
		resultsCacheTTL:  utils.GetEnv("RESULTS_CACHE_TTL", time.Minute),
	}

	logger := utils.NewLogger(serverConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, apiVersion)
	defer sentry.Flush(3 * time.Second)

	telemetryRessources, err := infra.InitTelemetry(infra.TelemetryConfiguration{
		Enabled:         serverConfig.enableTracing,
		ApplicationName: apiConfig.AppName,
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

	// Insert-only river client: the API submits execution jobs, the worker
	// process picks them up.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	repositories := repositories.NewRepositories(
		pool,
		repositories.WithRiverClient(riverClient),
		repositories.WithTemplatesDir(serverConfig.templatesDir),
		repositories.WithNotebookExecutor(repositories.NewPapermillRepository(
			serverConfig.papermillBinary,
			serverConfig.outputDir,
			serverConfig.papermillKernel,
		)),
	)

	uc := usecases.NewUsecases(repositories,
		usecases.WithAppName(apiConfig.AppName),
		usecases.WithApiVersion(apiVersion),
		usecases.WithResultsCache(serverConfig.resultsCacheSize, serverConfig.resultsCacheTTL),
	)

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server := api.NewServer(router, apiConfig, uc)

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}

	return nil
}
