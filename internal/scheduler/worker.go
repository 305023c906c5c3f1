package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	boardservice "flowboard_backend/internal/board/service"
	"flowboard_backend/platform/config"
	"flowboard_backend/platform/logger"
)

// Worker processes background tasks from the queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	board  *boardservice.Service
	log    *logger.Logger
}

// NewWorker creates the asynq worker with all task handlers registered.
func NewWorker(cfg config.SchedulerConfig, board *boardservice.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		board:  board,
		log:    log,
	}

	mux.HandleFunc(TaskBoardReconcile, w.handleBoardReconcile)

	return w, nil
}

// Run starts processing tasks and blocks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown stops the worker gracefully.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleBoardReconcile(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBoardReconcilePayload(task)
	if err != nil {
		return err
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		return fmt.Errorf("parse tenant id: %w", err)
	}

	repaired, err := w.board.Reconcile(ctx, tenantID)
	if err != nil {
		w.log.Error("board reconcile failed", "tenant_id", tenantID, "error", err)
		return err
	}

	w.log.Info("board reconcile finished", "tenant_id", tenantID, "repaired", repaired)
	return nil
}
