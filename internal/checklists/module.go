// Package checklists provides per-stage task checklists. Items are keyed
// by stage base id so they follow a stage across identifier shapes.
package checklists

import (
	"flowboard_backend/internal/checklists/handler"
	"flowboard_backend/internal/checklists/repository"
	"flowboard_backend/internal/checklists/service"
	apphttp "flowboard_backend/internal/http"
	"flowboard_backend/platform/logger"
	"flowboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the checklists bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the checklists module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "checklists"
}

// RegisterRoutes mounts checklist routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
