// Package identity provides the organization (tenant) bounded context module.
package identity

import (
	"flowboard_backend/internal/events"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/internal/identity/handler"
	"flowboard_backend/internal/identity/repository"
	"flowboard_backend/internal/identity/service"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the identity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the identity module. accounts is the
// adapter over the auth domain.
func NewModule(pool *pgxpool.Pool, accounts service.Accounts, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, accounts, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// Service returns the identity service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts organization routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/organizations", m.handler.Create)
	ctx.Protected.GET("/organizations/me", m.handler.GetMine)
	ctx.Protected.PATCH("/organizations/me", m.handler.Rename)
}

var _ apphttp.Module = (*Module)(nil)
