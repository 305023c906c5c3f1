// Package service implements organization management. Creating an
// organization is the moment a tenant comes into existence: the owner
// is bound to it and an OrganizationCreated event fans out so other
// modules can seed tenant defaults.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"flowboard_backend/internal/events"
	"flowboard_backend/internal/identity/repository"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

// Accounts is the slice of the auth domain the identity service needs:
// binding a user to the organization it just created, and looking up
// the owner's email for the creation event.
type Accounts interface {
	AttachOrganization(ctx context.Context, userID, organizationID uuid.UUID) error
	EmailOf(ctx context.Context, userID uuid.UUID) (string, error)
}

// Service implements organization operations.
type Service struct {
	repo     *repository.Repository
	accounts Accounts
	bus      events.Bus
	log      *logger.Logger
}

// New creates the identity service.
func New(repo *repository.Repository, accounts Accounts, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, accounts: accounts, bus: bus, log: log}
}

// Create creates an organization owned by the given user, binds the
// user to it, and publishes OrganizationCreated synchronously so tenant
// defaults exist before the response is returned.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, name string) (repository.Organization, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return repository.Organization{}, apperr.Validation("organization name is required")
	}

	org, err := s.repo.Create(ctx, trimmed, ownerID)
	if err != nil {
		return repository.Organization{}, err
	}

	if err := s.accounts.AttachOrganization(ctx, ownerID, org.ID); err != nil {
		return repository.Organization{}, err
	}

	ownerEmail, err := s.accounts.EmailOf(ctx, ownerID)
	if err != nil {
		s.log.Warn("failed to resolve owner email for organization event",
			"organization_id", org.ID, "owner_id", ownerID, "error", err)
	}

	if s.bus != nil {
		if err := s.bus.PublishSync(ctx, events.OrganizationCreated{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: org.ID,
			OwnerID:        ownerID,
			OwnerEmail:     ownerEmail,
		}); err != nil {
			return repository.Organization{}, err
		}
	}

	s.log.Info("organization created", "organization_id", org.ID, "owner_id", ownerID)
	return org, nil
}

// Get returns the organization by ID.
func (s *Service) Get(ctx context.Context, organizationID uuid.UUID) (repository.Organization, error) {
	return s.repo.GetByID(ctx, organizationID)
}

// Rename changes the organization name. Only the tenant itself can do
// this; the handler enforces membership.
func (s *Service) Rename(ctx context.Context, organizationID uuid.UUID, name string) (repository.Organization, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return repository.Organization{}, apperr.Validation("organization name is required")
	}
	return s.repo.UpdateName(ctx, organizationID, trimmed)
}
