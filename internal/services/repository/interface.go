package repository

import (
	"context"

	"github.com/google/uuid"
)

// Category represents a service category a project can be tagged with.
// The recurring flag decides which stage topology the category's projects
// flow through on the board.
type Category struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	Name           string    `db:"name"`
	Slug           string    `db:"slug"`
	IsRecurring    bool      `db:"is_recurring"`
	IsActive       bool      `db:"is_active"`
	DisplayOrder   int       `db:"display_order"`
	CreatedAt      string    `db:"created_at"`
	UpdatedAt      string    `db:"updated_at"`
}

// CreateParams contains parameters for creating a category.
type CreateParams struct {
	OrganizationID uuid.UUID
	Name           string
	Slug           string
	IsRecurring    bool
	DisplayOrder   int
}

// UpdateParams contains parameters for updating a category. Nil fields are
// left unchanged.
type UpdateParams struct {
	ID           uuid.UUID
	Name         *string
	Slug         *string
	IsRecurring  *bool
	DisplayOrder *int
}

// CategoryReader provides read operations for categories.
type CategoryReader interface {
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (Category, error)
	GetBySlug(ctx context.Context, organizationID uuid.UUID, slug string) (Category, error)
	List(ctx context.Context, organizationID uuid.UUID) ([]Category, error)
	ListActive(ctx context.Context, organizationID uuid.UUID) ([]Category, error)
}

// CategoryWriter provides write operations for categories.
type CategoryWriter interface {
	Create(ctx context.Context, params CreateParams) (Category, error)
	Update(ctx context.Context, organizationID uuid.UUID, params UpdateParams) (Category, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	SetActive(ctx context.Context, organizationID, id uuid.UUID, isActive bool) error
	// HasProjects reports whether any project of the tenant is tagged with
	// the category's name. Used to deactivate instead of delete.
	HasProjects(ctx context.Context, organizationID uuid.UUID, name string) (bool, error)
}

// Repository combines all category repository operations.
type Repository interface {
	CategoryReader
	CategoryWriter
}
