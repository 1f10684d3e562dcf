package cmd

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/notebooker/backend/infra"
	"github.com/notebooker/backend/repositories"
	"github.com/notebooker/backend/utils"
)

func RunMigrations() error {
	pgConfig := infra.PgConfig{
		ConnectionString: utils.GetRequiredEnv[string]("PG_CONNECTION_STRING"),
	}

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := repositories.RunMigrations(pgConfig.GetConnectionString(), logger); err != nil {
		logger.ErrorContext(ctx, "error running migrations", "error", err)
		return err
	}

	// River keeps its job tables in its own migration line, separate from the
	// application schema.
	pool, err := pgxpool.New(ctx, pgConfig.GetConnectionString())
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return err
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		logger.ErrorContext(ctx, "error running river migrations", "error", err)
		return err
	}

	logger.InfoContext(ctx, "migrations applied")
	return nil
}
