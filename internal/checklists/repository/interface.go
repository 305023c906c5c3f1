package repository

import (
	"context"

	"github.com/google/uuid"
)

// Item is one checklist entry attached to a stage. Items are keyed by the
// stage's base id so they survive tenant-suffixed stage identifiers and
// stage reorders.
type Item struct {
	ID             uuid.UUID `db:"id"`
	OrganizationID uuid.UUID `db:"organization_id"`
	StageBaseID    string    `db:"stage_base_id"`
	Label          string    `db:"label"`
	Done           bool      `db:"done"`
	Position       int       `db:"position"`
	CreatedAt      string    `db:"created_at"`
	UpdatedAt      string    `db:"updated_at"`
}

// UpdateParams contains parameters for updating an item. Nil fields are
// left unchanged.
type UpdateParams struct {
	ID    uuid.UUID
	Label *string
	Done  *bool
}

// Repository provides checklist item persistence.
type Repository interface {
	List(ctx context.Context, organizationID uuid.UUID, stageBaseID string) ([]Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, organizationID uuid.UUID, params UpdateParams) (Item, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}
