package main

import (
	"context"
	"database/sql"
	"valorant-sync/internal/config"
	"valorant-sync/internal/constants"
	fxmodules "valorant-sync/internal/fx"
	"valorant-sync/internal/scheduler"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runScheduler),
	).Run()
}

func runScheduler(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	sched *scheduler.Scheduler,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := sched.Run(); err != nil {
					logger.Error().Err(err).Msg("sync loop failed")
					if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
						logger.Error().Err(err).Msg("failed to trigger shutdown")
					}
				}
			}()
			logger.Info().Dur("interval", cfg.SyncInterval).Msg("sync loop started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down, waiting for current cycle")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()
			if err := sched.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("scheduler did not stop in time")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("scheduler stopped gracefully")
			return nil
		},
	})
}
