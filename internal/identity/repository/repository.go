// Package repository implements PostgreSQL persistence for organizations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowboard_backend/platform/apperr"
)

const organizationNotFoundMessage = "organization not found"

// Organization is a tenant. Every board, project, and category hangs
// off an organization ID.
type Organization struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides organization persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new identity repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new organization owned by the given user.
func (r *Repository) Create(ctx context.Context, name string, ownerID uuid.UUID) (Organization, error) {
	query := `
		INSERT INTO organizations (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, name, owner_id, created_at, updated_at`

	var org Organization
	err := r.pool.QueryRow(ctx, query, uuid.New(), name, ownerID).
		Scan(&org.ID, &org.Name, &org.OwnerID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return Organization{}, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

// GetByID retrieves an organization.
func (r *Repository) GetByID(ctx context.Context, organizationID uuid.UUID) (Organization, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM organizations
		WHERE id = $1`

	var org Organization
	err := r.pool.QueryRow(ctx, query, organizationID).
		Scan(&org.ID, &org.Name, &org.OwnerID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, apperr.NotFound(organizationNotFoundMessage)
		}
		return Organization{}, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

// UpdateName renames an organization.
func (r *Repository) UpdateName(ctx context.Context, organizationID uuid.UUID, name string) (Organization, error) {
	query := `
		UPDATE organizations
		SET name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, owner_id, created_at, updated_at`

	var org Organization
	err := r.pool.QueryRow(ctx, query, organizationID, name).
		Scan(&org.ID, &org.Name, &org.OwnerID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, apperr.NotFound(organizationNotFoundMessage)
		}
		return Organization{}, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}
