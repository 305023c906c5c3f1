package adapters

import (
	"context"

	"github.com/google/uuid"

	authservice "flowboard_backend/internal/auth/service"
	identityservice "flowboard_backend/internal/identity/service"
)

// IdentityAccounts adapts the auth service to the identity module's
// Accounts interface.
type IdentityAccounts struct {
	auth *authservice.Service
}

// NewIdentityAccounts creates the adapter.
func NewIdentityAccounts(auth *authservice.Service) *IdentityAccounts {
	return &IdentityAccounts{auth: auth}
}

// AttachOrganization binds the user to the organization.
func (a *IdentityAccounts) AttachOrganization(ctx context.Context, userID, organizationID uuid.UUID) error {
	return a.auth.AttachOrganization(ctx, userID, organizationID)
}

// EmailOf returns the user's email address.
func (a *IdentityAccounts) EmailOf(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := a.auth.Me(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.Email, nil
}

var _ identityservice.Accounts = (*IdentityAccounts)(nil)
