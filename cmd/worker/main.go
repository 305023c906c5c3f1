package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"flowboard_backend/internal/adapters"
	"flowboard_backend/internal/board"
	"flowboard_backend/internal/events"
	"flowboard_backend/internal/scheduler"
	"flowboard_backend/internal/services"
	"flowboard_backend/platform/config"
	"flowboard_backend/platform/db"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"
)

// The worker processes queued board reconciles. It shares the board
// service with the API but runs no HTTP routes.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	servicesModule := services.NewModule(pool, val, log)
	categories := adapters.NewBoardCategoryReader(servicesModule.Service())

	boardModule, err := board.NewModule(pool, categories, nil, eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize board module", "error", err)
		panic("failed to initialize board module: " + err.Error())
	}
	defer boardModule.Close()

	worker, err := scheduler.NewWorker(cfg, boardModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	workerErr := make(chan error, 1)
	go func() {
		workerErr <- worker.Run()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping worker")
		worker.Shutdown()
	case err := <-workerErr:
		if err != nil {
			log.Error("worker error", "error", err)
			panic("worker error: " + err.Error())
		}
	}
}
