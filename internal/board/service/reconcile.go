package service

import (
	"context"

	"github.com/google/uuid"

	"flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/board/repository"
	"flowboard_backend/platform/apperr"
)

// Reconcile re-derives status and progress for every project of the tenant
// against the current stage set, repairing drift left behind by partial
// failures. Stage references are preserved; only the derived pair is
// rewritten. Returns the number of repaired projects.
func (s *Service) Reconcile(ctx context.Context, tenantID uuid.UUID) (int, error) {
	stages, err := s.ensureStages(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	categories, err := s.categories.ListCategories(ctx, tenantID)
	if err != nil {
		return 0, apperr.Internal("failed to load categories", err)
	}

	projects, err := s.repo.ListBoardProjects(ctx, tenantID)
	if err != nil {
		return 0, apperr.Internal("failed to load projects", err)
	}

	view := domain.ViewContext{ServiceFilter: domain.ServiceFilterAll}
	columns := s.viewStages(stages, view, tenantID)

	repaired := 0
	for _, project := range projects {
		recurring := domain.IsRecurringProject(project, categories)

		var home *domain.Stage
		for i := range columns {
			if domain.ResolveColumn(project, columns[i], view, recurring) {
				home = &columns[i]
				break
			}
		}
		if home == nil {
			// No column claims the project; nothing to repair against.
			continue
		}

		wantProgress := home.Progress
		if domain.IsRecurringOnly(*home) {
			wantProgress = domain.TerminalProgress
		}
		if project.Status == home.Status && project.Progress == wantProgress {
			continue
		}

		fields := repository.StageFieldsUpdate{
			Status:   home.Status,
			Progress: wantProgress,
		}
		if project.StageRef != "" {
			ref := project.StageRef
			fields.StageRef = &ref
		}
		if err := s.repo.UpdateProjectStageFields(ctx, tenantID, project.ID, fields); err != nil {
			s.log.StageMutation("reconcile", tenantID.String(), home.ID, project.ID.String(), err)
			return repaired, apperr.Internal("failed to reconcile project", err)
		}
		repaired++
	}

	if repaired > 0 {
		s.log.Info("board reconciled", "tenant_id", tenantID.String(), "repaired", repaired)
		s.publishBoardOnly(ctx, tenantID, "stages")
	}
	return repaired, nil
}
