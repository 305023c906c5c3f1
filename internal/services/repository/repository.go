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

const categoryNotFoundMessage = "service category not found"

const categoryColumns = `id, organization_id, name, slug, is_recurring, is_active, display_order, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new category repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a category by its ID.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM service_categories
		WHERE id = $1 AND organization_id = $2`

	return r.queryOne(ctx, query, id, organizationID)
}

// GetBySlug retrieves a category by its slug.
func (r *Repo) GetBySlug(ctx context.Context, organizationID uuid.UUID, slug string) (Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM service_categories
		WHERE slug = $1 AND organization_id = $2`

	return r.queryOne(ctx, query, slug, organizationID)
}

// List retrieves all categories ordered by display order, then name.
func (r *Repo) List(ctx context.Context, organizationID uuid.UUID) ([]Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM service_categories
		WHERE organization_id = $1
		ORDER BY display_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// ListActive retrieves only active categories.
func (r *Repo) ListActive(ctx context.Context, organizationID uuid.UUID) ([]Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM service_categories
		WHERE organization_id = $1 AND is_active = true
		ORDER BY display_order ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list active categories: %w", err)
	}
	defer rows.Close()

	return scanCategories(rows)
}

// Create inserts a new category.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Category, error) {
	query := `
		INSERT INTO service_categories (id, organization_id, name, slug, is_recurring, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		RETURNING ` + categoryColumns

	return r.queryOne(ctx, query,
		uuid.New(), params.OrganizationID, params.Name, params.Slug, params.IsRecurring, params.DisplayOrder)
}

// Update applies the non-nil fields of params.
func (r *Repo) Update(ctx context.Context, organizationID uuid.UUID, params UpdateParams) (Category, error) {
	query := `
		UPDATE service_categories
		SET name = COALESCE($3, name),
		    slug = COALESCE($4, slug),
		    is_recurring = COALESCE($5, is_recurring),
		    display_order = COALESCE($6, display_order),
		    updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + categoryColumns

	return r.queryOne(ctx, query,
		params.ID, organizationID, params.Name, params.Slug, params.IsRecurring, params.DisplayOrder)
}

// Delete removes a category record.
func (r *Repo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM service_categories WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMessage)
	}
	return nil
}

// SetActive flips the is_active flag.
func (r *Repo) SetActive(ctx context.Context, organizationID, id uuid.UUID, isActive bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE service_categories SET is_active = $3, updated_at = NOW() WHERE id = $1 AND organization_id = $2`,
		id, organizationID, isActive)
	if err != nil {
		return fmt.Errorf("set category active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMessage)
	}
	return nil
}

// HasProjects reports whether any project of the tenant carries the
// category name among its service types.
func (r *Repo) HasProjects(ctx context.Context, organizationID uuid.UUID, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE organization_id = $1 AND $2 = ANY(service_types))`,
		organizationID, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category usage: %w", err)
	}
	return exists, nil
}

func (r *Repo) queryOne(ctx context.Context, query string, args ...interface{}) (Category, error) {
	var cat Category
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&cat.ID, &cat.OrganizationID, &cat.Name, &cat.Slug, &cat.IsRecurring,
		&cat.IsActive, &cat.DisplayOrder, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return Category{}, fmt.Errorf("query category: %w", err)
	}

	cat.CreatedAt = createdAt.Format(time.RFC3339)
	cat.UpdatedAt = updatedAt.Format(time.RFC3339)
	return cat, nil
}

func scanCategories(rows pgx.Rows) ([]Category, error) {
	var out []Category
	for rows.Next() {
		var cat Category
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&cat.ID, &cat.OrganizationID, &cat.Name, &cat.Slug, &cat.IsRecurring,
			&cat.IsActive, &cat.DisplayOrder, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cat.CreatedAt = createdAt.Format(time.RFC3339)
		cat.UpdatedAt = updatedAt.Format(time.RFC3339)
		out = append(out, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}
