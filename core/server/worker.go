package server

import (
	"context"
	"fmt"

	"calendar-api/core/config"
	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/core/mailer"
	"calendar-api/core/queue"
	"calendar-api/core/utils"
	"calendar-api/modules/invitation"
	"calendar-api/modules/invitation/task"

	"github.com/hibiken/asynq"
)

// RunWorker processes queued invite emails and runs the periodic invite cleanup.
func RunWorker(cfg *config.Config) error {
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mailer.New(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	invitations := invitation.NewService(db, invitation.Options{
		Clock:    utils.SystemClock(),
		Settings: inviteSettings(cfg),
	})

	mux := asynq.NewServeMux()
	task.NewHandler(m, invitations, linkBaseURL(cfg)).Register(mux)

	scheduler, err := queue.NewScheduler(cfg.Redis, cfg.Queue)
	if err != nil {
		return err
	}
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Shutdown()

	srv := queue.NewServer(cfg.Redis, cfg.Queue)
	logger.Info("Worker starting", "concurrency", cfg.Queue.Concurrency)
	return srv.Run(mux)
}

// RunMigrations applies the embedded schema and exits.
func RunMigrations(cfg *config.Config) error {
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("Migrations applied")
	return nil
}
