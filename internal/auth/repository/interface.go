package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a stored account. OrganizationID is nil until the user
// creates or joins an organization.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	OrganizationID *uuid.UUID
	Roles          []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserReader exposes read access to user accounts.
type UserReader interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// UserWriter exposes mutations on user accounts.
type UserWriter interface {
	CreateUser(ctx context.Context, email, passwordHash string, roles []string) (User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	SetOrganization(ctx context.Context, userID, organizationID uuid.UUID) error
}

// RefreshTokenStore persists hashed refresh tokens.
type RefreshTokenStore interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// AuthRepository combines all auth persistence concerns.
type AuthRepository interface {
	UserReader
	UserWriter
	RefreshTokenStore
}

var _ AuthRepository = (*Repository)(nil)
