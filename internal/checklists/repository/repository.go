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

const itemNotFoundMessage = "checklist item not found"

const itemColumns = `id, organization_id, stage_base_id, label, done, position, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new checklist repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns the stage's checklist items in position order.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID, stageBaseID string) ([]Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM checklist_items
		WHERE organization_id = $1 AND stage_base_id = $2
		ORDER BY position ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, organizationID, stageBaseID)
	if err != nil {
		return nil, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checklist items: %w", err)
	}
	return out, nil
}

// Create inserts an item at the end of the stage's list.
func (r *Repo) Create(ctx context.Context, item Item) (Item, error) {
	query := `
		INSERT INTO checklist_items (id, organization_id, stage_base_id, label, done, position)
		VALUES ($1, $2, $3, $4, false,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM checklist_items WHERE organization_id = $2 AND stage_base_id = $3))
		RETURNING ` + itemColumns

	row := r.pool.QueryRow(ctx, query, uuid.New(), item.OrganizationID, item.StageBaseID, item.Label)
	return scanItem(row)
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, organizationID uuid.UUID, params UpdateParams) (Item, error) {
	query := `
		UPDATE checklist_items
		SET label = COALESCE($3, label),
		    done = COALESCE($4, done),
		    updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + itemColumns

	row := r.pool.QueryRow(ctx, query, params.ID, organizationID, params.Label, params.Done)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, apperr.NotFound(itemNotFoundMessage)
		}
		return Item{}, err
	}
	return item, nil
}

// Delete removes an item.
func (r *Repo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM checklist_items WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(itemNotFoundMessage)
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	var createdAt, updatedAt time.Time
	err := row.Scan(&item.ID, &item.OrganizationID, &item.StageBaseID, &item.Label, &item.Done, &item.Position, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, pgx.ErrNoRows
		}
		return Item{}, fmt.Errorf("scan checklist item: %w", err)
	}
	item.CreatedAt = createdAt.Format(time.RFC3339)
	item.UpdatedAt = updatedAt.Format(time.RFC3339)
	return item, nil
}
