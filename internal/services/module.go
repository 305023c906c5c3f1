// Package services provides the service category bounded context module.
// Categories decide which stage topology a project flows through on the
// board: recurring categories map to the recurring topology.
package services

import (
	"context"

	"flowboard_backend/internal/events"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/internal/services/handler"
	"flowboard_backend/internal/services/repository"
	"flowboard_backend/internal/services/service"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the services bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the services module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "services"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts category routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Tenant-scoped read endpoints.
	ctx.Protected.GET("/service-categories", m.handler.ListActive)
	ctx.Protected.GET("/service-categories/:id", m.handler.GetByID)
	ctx.Protected.GET("/service-categories/slug/:slug", m.handler.GetBySlug)

	// Admin-only CRUD endpoints.
	adminGroup := ctx.Admin.Group("/service-categories")
	adminGroup.GET("", m.handler.List)
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.DELETE("/:id", m.handler.Delete)
	adminGroup.PATCH("/:id/toggle-active", m.handler.ToggleActive)
}

// RegisterHandlers subscribes to domain events for seeding tenant defaults.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OrganizationCreated{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrganizationCreated:
		return m.service.SeedDefaults(ctx, e.OrganizationID)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
