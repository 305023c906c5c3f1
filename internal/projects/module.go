// Package projects provides the project bounded context module: the
// records the board arranges into stage columns, plus their file
// attachments.
package projects

import (
	"flowboard_backend/internal/adapters/storage"
	"flowboard_backend/internal/events"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/internal/projects/handler"
	"flowboard_backend/internal/projects/repository"
	"flowboard_backend/internal/projects/service"
	"flowboard_backend/platform/config"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the projects bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the projects module. store may be nil
// when MinIO is not configured; attachment endpoints then reject.
func NewModule(pool *pgxpool.Pool, store storage.StorageService, cfg config.MinIOConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, cfg.GetMinioBucketProjectAttachments(), eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "projects"
}

// Service returns the projects service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts project routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	projectsGroup := ctx.Protected.Group("/projects")
	m.handler.RegisterRoutes(projectsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
