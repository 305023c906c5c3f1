// Package board provides the stage pipeline bounded context module.
package board

import (
	"flowboard_backend/internal/board/handler"
	"flowboard_backend/internal/board/notify"
	"flowboard_backend/internal/board/repository"
	"flowboard_backend/internal/board/service"
	"flowboard_backend/internal/events"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/platform/config"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the board bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	notifier *notify.Notifier
}

// NewModule creates and initializes the board module. categories is the
// read adapter over the services bounded context; enqueuer may be nil when
// the deployment runs without a task queue.
func NewModule(pool *pgxpool.Pool, categories service.CategoryReader, enqueuer service.TaskEnqueuer, eventBus events.Bus, val *validator.Validator, cfg config.RedisConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	var notifier *notify.Notifier
	var changeNotifier service.ChangeNotifier
	if cfg.GetRedisURL() != "" {
		n, err := notify.New(cfg, log)
		if err != nil {
			return nil, err
		}
		notifier = n
		changeNotifier = notifier
	}

	svc := service.New(repo, categories, changeNotifier, enqueuer, eventBus, log)

	return &Module{
		handler:  handler.New(svc, val),
		service:  svc,
		notifier: notifier,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "board"
}

// Service returns the board service for external use (worker tasks, tests).
func (m *Module) Service() *service.Service {
	return m.service
}

// Close releases the Redis subscription client, if any.
func (m *Module) Close() error {
	if m.notifier == nil {
		return nil
	}
	return m.notifier.Close()
}

// RegisterRoutes mounts board routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	boardGroup := ctx.Protected.Group("/board")
	m.handler.RegisterRoutes(boardGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
