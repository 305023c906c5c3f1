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

const (
	projectNotFoundMessage    = "project not found"
	attachmentNotFoundMessage = "attachment not found"
)

const projectColumns = `id, organization_id, name, client_name, client_email, description, service_types, status, progress, stage_ref, budget_cents, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new projects repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a project by its ID.
func (r *Repo) GetByID(ctx context.Context, organizationID, id uuid.UUID) (Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1 AND organization_id = $2`

	return r.queryOne(ctx, query, id, organizationID)
}

// List retrieves projects with optional service-type filter, search, and
// pagination. Returns the page and the unpaged total.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Project, int, error) {
	var serviceType interface{}
	if params.ServiceType != "" {
		serviceType = params.ServiceType
	}
	var search interface{}
	if params.Search != "" {
		search = "%" + params.Search + "%"
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	countQuery := `
		SELECT COUNT(*)
		FROM projects
		WHERE organization_id = $1
		  AND ($2::text IS NULL OR $2 = ANY(service_types))
		  AND ($3::text IS NULL OR name ILIKE $3 OR client_name ILIKE $3)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.OrganizationID, serviceType, search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE organization_id = $1
		  AND ($2::text IS NULL OR $2 = ANY(service_types))
		  AND ($3::text IS NULL OR name ILIKE $3 OR client_name ILIKE $3)
		ORDER BY created_at DESC
		OFFSET $4 LIMIT $5`

	rows, err := r.pool.Query(ctx, query, params.OrganizationID, serviceType, search, params.Offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Create inserts a new project.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Project, error) {
	query := `
		INSERT INTO projects (id, organization_id, name, client_name, client_email, description, service_types, status, progress, stage_ref, budget_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + projectColumns

	return r.queryOne(ctx, query,
		uuid.New(), params.OrganizationID, params.Name, params.ClientName, params.ClientEmail, params.Description,
		params.ServiceTypes, params.Status, params.Progress, params.StageRef, params.BudgetCents)
}

// Update applies the non-nil fields of params. Board-derived fields
// (status, progress, stage_ref) are owned by the board and not writable
// here.
func (r *Repo) Update(ctx context.Context, organizationID uuid.UUID, params UpdateParams) (Project, error) {
	query := `
		UPDATE projects
		SET name = COALESCE($3, name),
		    client_name = COALESCE($4, client_name),
		    client_email = COALESCE($5, client_email),
		    description = COALESCE($6, description),
		    service_types = COALESCE($7, service_types),
		    budget_cents = COALESCE($8, budget_cents),
		    updated_at = NOW()
		WHERE id = $1 AND organization_id = $2
		RETURNING ` + projectColumns

	var serviceTypes interface{}
	if params.ServiceTypes != nil {
		serviceTypes = params.ServiceTypes
	}

	return r.queryOne(ctx, query,
		params.ID, organizationID, params.Name, params.ClientName, params.ClientEmail, params.Description,
		serviceTypes, params.BudgetCents)
}

// Delete removes a project and its attachment records.
func (r *Repo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND organization_id = $2`, id, organizationID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMessage)
	}
	return nil
}

// CreateAttachment records an uploaded file against a project.
func (r *Repo) CreateAttachment(ctx context.Context, attachment Attachment) (Attachment, error) {
	query := `
		INSERT INTO project_attachments (id, organization_id, project_id, file_key, file_name, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, organization_id, project_id, file_key, file_name, content_type, size_bytes, created_at`

	var out Attachment
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query,
		uuid.New(), attachment.OrganizationID, attachment.ProjectID,
		attachment.FileKey, attachment.FileName, attachment.ContentType, attachment.SizeBytes,
	).Scan(&out.ID, &out.OrganizationID, &out.ProjectID, &out.FileKey, &out.FileName, &out.ContentType, &out.SizeBytes, &createdAt)
	if err != nil {
		return Attachment{}, fmt.Errorf("create attachment: %w", err)
	}
	out.CreatedAt = createdAt.Format(time.RFC3339)
	return out, nil
}

// ListAttachments returns a project's attachment records, newest first.
func (r *Repo) ListAttachments(ctx context.Context, organizationID, projectID uuid.UUID) ([]Attachment, error) {
	query := `
		SELECT id, organization_id, project_id, file_key, file_name, content_type, size_bytes, created_at
		FROM project_attachments
		WHERE organization_id = $1 AND project_id = $2
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID, projectID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var att Attachment
		var createdAt time.Time
		if err := rows.Scan(&att.ID, &att.OrganizationID, &att.ProjectID, &att.FileKey, &att.FileName, &att.ContentType, &att.SizeBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		att.CreatedAt = createdAt.Format(time.RFC3339)
		out = append(out, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}
	return out, nil
}

// GetAttachment retrieves one attachment record.
func (r *Repo) GetAttachment(ctx context.Context, organizationID, attachmentID uuid.UUID) (Attachment, error) {
	query := `
		SELECT id, organization_id, project_id, file_key, file_name, content_type, size_bytes, created_at
		FROM project_attachments
		WHERE id = $1 AND organization_id = $2`

	var att Attachment
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, query, attachmentID, organizationID).Scan(
		&att.ID, &att.OrganizationID, &att.ProjectID, &att.FileKey, &att.FileName, &att.ContentType, &att.SizeBytes, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Attachment{}, apperr.NotFound(attachmentNotFoundMessage)
		}
		return Attachment{}, fmt.Errorf("get attachment: %w", err)
	}
	att.CreatedAt = createdAt.Format(time.RFC3339)
	return att, nil
}

// DeleteAttachment removes one attachment record.
func (r *Repo) DeleteAttachment(ctx context.Context, organizationID, attachmentID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM project_attachments WHERE id = $1 AND organization_id = $2`, attachmentID, organizationID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(attachmentNotFoundMessage)
	}
	return nil
}

func (r *Repo) queryOne(ctx context.Context, query string, args ...interface{}) (Project, error) {
	var p Project
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.OrganizationID, &p.Name, &p.ClientName, &p.ClientEmail, &p.Description, &p.ServiceTypes,
		&p.Status, &p.Progress, &p.StageRef, &p.BudgetCents, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("query project: %w", err)
	}

	p.CreatedAt = createdAt.Format(time.RFC3339)
	p.UpdatedAt = updatedAt.Format(time.RFC3339)
	return p, nil
}

func scanProjects(rows pgx.Rows) ([]Project, error) {
	var out []Project
	for rows.Next() {
		var p Project
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&p.ID, &p.OrganizationID, &p.Name, &p.ClientName, &p.ClientEmail, &p.Description, &p.ServiceTypes,
			&p.Status, &p.Progress, &p.StageRef, &p.BudgetCents, &createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		p.CreatedAt = createdAt.Format(time.RFC3339)
		p.UpdatedAt = updatedAt.Format(time.RFC3339)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}
