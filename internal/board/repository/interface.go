package repository

import (
	"context"

	"flowboard_backend/internal/board/domain"

	"github.com/google/uuid"
)

// StageFieldsUpdate is the project-side write of a board mutation: the
// derived status/progress pair plus the stage reference. A nil StageRef
// clears the stored reference.
type StageFieldsUpdate struct {
	Status   domain.StatusTag
	Progress int
	StageRef *string
}

// Repository is the document-store contract the pipeline engine consumes.
type Repository interface {
	// ListStages returns the tenant's stage set ordered by position.
	ListStages(ctx context.Context, tenantID uuid.UUID) ([]domain.Stage, error)
	// UpsertStage writes a single stage, keyed by (tenant, id).
	UpsertStage(ctx context.Context, stage domain.Stage) error
	// UpsertStages bulk-writes a stage set in one transaction.
	UpsertStages(ctx context.Context, tenantID uuid.UUID, stages []domain.Stage) error
	// DeleteStage removes one stage record by its literal id.
	DeleteStage(ctx context.Context, tenantID uuid.UUID, stageID string) error

	// ListBoardProjects returns the board-relevant fields of the tenant's
	// projects.
	ListBoardProjects(ctx context.Context, tenantID uuid.UUID) ([]domain.Project, error)
	// GetBoardProject returns the board-relevant fields of one project.
	GetBoardProject(ctx context.Context, tenantID, projectID uuid.UUID) (domain.Project, error)
	// UpdateProjectStageFields writes a project's derived stage fields.
	UpdateProjectStageFields(ctx context.Context, tenantID, projectID uuid.UUID, fields StageFieldsUpdate) error
}
