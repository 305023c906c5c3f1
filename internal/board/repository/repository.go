package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"flowboard_backend/internal/board/domain"
	"flowboard_backend/platform/apperr"
)

const (
	stageNotFoundMessage   = "stage not found"
	projectNotFoundMessage = "project not found"
)

// Repo implements the board repository on Postgres.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new board repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const upsertStageQuery = `
	INSERT INTO board_stages (id, organization_id, title, status, position, progress, is_fixed, original_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (organization_id, id) DO UPDATE
	SET title = EXCLUDED.title,
		status = EXCLUDED.status,
		position = EXCLUDED.position,
		progress = EXCLUDED.progress,
		is_fixed = EXCLUDED.is_fixed,
		original_id = EXCLUDED.original_id,
		updated_at = now()`

// ListStages returns the tenant's stage set ordered by position.
func (r *Repo) ListStages(ctx context.Context, tenantID uuid.UUID) ([]domain.Stage, error) {
	query := `
		SELECT id, organization_id, title, status, position, progress, is_fixed, original_id
		FROM board_stages
		WHERE organization_id = $1
		ORDER BY position`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var stages []domain.Stage
	for rows.Next() {
		var stage domain.Stage
		var originalID *string
		if err := rows.Scan(
			&stage.ID, &stage.TenantID, &stage.Title, &stage.Status,
			&stage.Order, &stage.Progress, &stage.IsFixed, &originalID,
		); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		if originalID != nil {
			stage.OriginalID = *originalID
		}
		stages = append(stages, stage)
	}
	return stages, rows.Err()
}

// UpsertStage writes a single stage, keyed by (tenant, id).
func (r *Repo) UpsertStage(ctx context.Context, stage domain.Stage) error {
	if _, err := r.pool.Exec(ctx, upsertStageQuery, stageArgs(stage)...); err != nil {
		return fmt.Errorf("upsert stage %s: %w", stage.ID, err)
	}
	return nil
}

// UpsertStages bulk-writes a stage set in one transaction.
func (r *Repo) UpsertStages(ctx context.Context, tenantID uuid.UUID, stages []domain.Stage) error {
	if len(stages) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("upsert stages: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, stage := range stages {
		if stage.TenantID != tenantID {
			return fmt.Errorf("upsert stages: stage %s belongs to tenant %s", stage.ID, stage.TenantID)
		}
		batch.Queue(upsertStageQuery, stageArgs(stage)...)
	}

	results := tx.SendBatch(ctx, batch)
	for range stages {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upsert stages: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("upsert stages: close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteStage removes one stage record by its literal id.
func (r *Repo) DeleteStage(ctx context.Context, tenantID uuid.UUID, stageID string) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM board_stages WHERE organization_id = $1 AND id = $2`,
		tenantID, stageID,
	)
	if err != nil {
		return fmt.Errorf("delete stage %s: %w", stageID, err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(stageNotFoundMessage)
	}
	return nil
}

// ListBoardProjects returns the board-relevant fields of the tenant's projects.
func (r *Repo) ListBoardProjects(ctx context.Context, tenantID uuid.UUID) ([]domain.Project, error) {
	query := `
		SELECT id, organization_id, service_types, status, progress, stage_ref
		FROM projects
		WHERE organization_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list board projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		var stageRef *string
		if err := rows.Scan(
			&project.ID, &project.TenantID, &project.ServiceTypes,
			&project.Status, &project.Progress, &stageRef,
		); err != nil {
			return nil, fmt.Errorf("scan board project: %w", err)
		}
		if stageRef != nil {
			project.StageRef = *stageRef
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// GetBoardProject returns the board-relevant fields of one project.
func (r *Repo) GetBoardProject(ctx context.Context, tenantID, projectID uuid.UUID) (domain.Project, error) {
	query := `
		SELECT id, organization_id, service_types, status, progress, stage_ref
		FROM projects
		WHERE id = $1 AND organization_id = $2`

	var project domain.Project
	var stageRef *string
	if err := r.pool.QueryRow(ctx, query, projectID, tenantID).Scan(
		&project.ID, &project.TenantID, &project.ServiceTypes,
		&project.Status, &project.Progress, &stageRef,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return domain.Project{}, fmt.Errorf("get board project: %w", err)
	}
	if stageRef != nil {
		project.StageRef = *stageRef
	}
	return project, nil
}

// UpdateProjectStageFields writes a project's derived stage fields.
func (r *Repo) UpdateProjectStageFields(ctx context.Context, tenantID, projectID uuid.UUID, fields StageFieldsUpdate) error {
	query := `
		UPDATE projects
		SET status = $3, progress = $4, stage_ref = $5, updated_at = now()
		WHERE id = $1 AND organization_id = $2`

	result, err := r.pool.Exec(ctx, query, projectID, tenantID, fields.Status, fields.Progress, fields.StageRef)
	if err != nil {
		return fmt.Errorf("update project stage fields: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(projectNotFoundMessage)
	}
	return nil
}

// stageArgs binds a stage for upsertStageQuery. An empty OriginalID is
// written as NULL; the column is nullable and the scan side mirrors that.
func stageArgs(stage domain.Stage) []interface{} {
	var originalID *string
	if stage.OriginalID != "" {
		originalID = &stage.OriginalID
	}
	return []interface{}{
		stage.ID, stage.TenantID, stage.Title, stage.Status,
		stage.Order, stage.Progress, stage.IsFixed, originalID,
	}
}
