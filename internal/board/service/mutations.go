package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/board/repository"
	"flowboard_backend/internal/events"
	"flowboard_backend/platform/apperr"
)

const (
	msgServiceTypeMismatch = "project service type does not match this stage"
	msgFixedStageDelete    = "default stages cannot be deleted"
	msgLastStageDelete     = "the board needs at least one stage"
	msgStageNotFound       = "stage not found"
	msgMutationInFlight    = "another board operation is in progress"
)

// MoveProject applies a drag-drop of a project onto a stage column under the
// given service filter. The project write is the sole mutation.
func (s *Service) MoveProject(ctx context.Context, tenantID, projectID uuid.UUID, stageID, filter string) error {
	stages, err := s.ensureStages(ctx, tenantID)
	if err != nil {
		return err
	}

	categories, err := s.categories.ListCategories(ctx, tenantID)
	if err != nil {
		return apperr.Internal("failed to load categories", err)
	}
	view := ViewContextFor(filter, categories)

	target, ok := findStage(s.viewStages(stages, view, tenantID), stageID)
	if !ok {
		return apperr.NotFound(msgStageNotFound)
	}

	project, err := s.repo.GetBoardProject(ctx, tenantID, projectID)
	if err != nil {
		return err
	}
	recurring := domain.IsRecurringProject(project, categories)

	// Topology mismatch guards.
	if domain.IsRecurringOnly(target) && !recurring {
		return apperr.Validation(msgServiceTypeMismatch)
	}
	if recurring && !domain.IsRecurringOnly(target) &&
		view.ServiceFilter != domain.ServiceFilterAll && !view.Recurring {
		return apperr.Validation(msgServiceTypeMismatch)
	}

	// Idempotent drop: the project already lives in this column.
	if domain.ResolveColumn(project, target, view, recurring) {
		return nil
	}

	fields := moveFields(target, view)
	if err := s.repo.UpdateProjectStageFields(ctx, tenantID, projectID, fields); err != nil {
		s.log.StageMutation("move_project", tenantID.String(), target.ID, projectID.String(), err)
		return apperr.Internal("failed to move project", err)
	}
	s.log.StageMutation("move_project", tenantID.String(), target.ID, projectID.String(), nil)

	if s.bus != nil && isTerminalColumn(target, stages) {
		s.bus.Publish(ctx, events.ProjectReachedTerminalStage{
			BaseEvent: events.NewBaseEvent(),
			ProjectID: projectID,
			TenantID:  tenantID,
			StageID:   target.ID,
			Status:    string(target.Status),
		})
	}
	s.publishBoardOnly(ctx, tenantID, "project")
	return nil
}

// moveFields derives the project-side write for a drop on target. Recurring
// terminal columns force full progress and clear the reference; a recurring
// single-service view is status-placed so the reference is cleared there
// too; normal columns pin the project by base id.
func moveFields(target domain.Stage, view domain.ViewContext) repository.StageFieldsUpdate {
	fields := repository.StageFieldsUpdate{
		Status:   target.Status,
		Progress: target.Progress,
	}
	if domain.IsRecurringOnly(target) {
		fields.Progress = domain.TerminalProgress
		return fields
	}
	if view.ServiceFilter != domain.ServiceFilterAll && view.Recurring {
		return fields
	}
	base := domain.StageBaseID(target)
	fields.StageRef = &base
	return fields
}

// ReorderStage splices the dragged stage to the drop target's position,
// re-derives the stage set, and migrates every project that resolved to the
// dragged stage. The project writes and the stage persist are one logical
// unit: a failed project write aborts before the stage array is persisted.
func (s *Service) ReorderStage(ctx context.Context, tenantID uuid.UUID, draggedID, targetID string) error {
	sess := s.sessions.get(tenantID)
	sess.opMu.Lock()
	defer sess.opMu.Unlock()

	if draggedID == targetID {
		return nil
	}

	stages, err := s.ensureStages(ctx, tenantID)
	if err != nil {
		return err
	}
	if len(stages) < 2 {
		return nil
	}

	from, ok := indexOfStage(stages, draggedID)
	if !ok {
		return apperr.NotFound(msgStageNotFound)
	}
	to, ok := indexOfStage(stages, targetID)
	if !ok {
		return apperr.NotFound(msgStageNotFound)
	}

	dragged := stages[from]

	if !sess.beginMutation() {
		return apperr.Conflict(msgMutationInFlight)
	}
	defer sess.endMutation()

	reordered := spliceStages(stages, from, to)
	normalized := domain.Normalize(reordered)

	moved, ok := findStage(normalized, draggedID)
	if !ok {
		return apperr.Internal("reordered stage disappeared", nil)
	}

	// Migrate members before persisting the array, so a failure leaves the
	// store consistent with "reorder didn't happen".
	if err := s.migrateMembers(ctx, tenantID, dragged, moved); err != nil {
		return err
	}

	if err := s.repo.UpsertStages(ctx, tenantID, normalized); err != nil {
		s.log.StageMutation("reorder_stage", tenantID.String(), draggedID, "", err)
		return apperr.Internal("failed to persist stage order", err)
	}
	s.log.StageMutation("reorder_stage", tenantID.String(), draggedID, "", nil)

	s.publishChange(ctx, tenantID, "stages")
	s.enqueueReconcile(ctx, tenantID)
	return nil
}

// DeleteStage removes a custom stage, reassigning its member projects to the
// lowest-order surviving stage (preferring a fixed one) and re-deriving the
// survivors. Fixed stages and the last remaining stage are not deletable.
func (s *Service) DeleteStage(ctx context.Context, tenantID uuid.UUID, stageID string) error {
	sess := s.sessions.get(tenantID)
	sess.opMu.Lock()
	defer sess.opMu.Unlock()

	stages, err := s.ensureStages(ctx, tenantID)
	if err != nil {
		return err
	}

	doomed, ok := findStage(stages, stageID)
	if !ok {
		return apperr.NotFound(msgStageNotFound)
	}
	if doomed.IsFixed {
		return apperr.Validation(msgFixedStageDelete)
	}
	if len(stages) <= 1 {
		return apperr.Validation(msgLastStageDelete)
	}

	if !sess.beginMutation() {
		return apperr.Conflict(msgMutationInFlight)
	}
	defer sess.endMutation()

	survivors := make([]domain.Stage, 0, len(stages)-1)
	for _, stage := range stages {
		if stage.ID != stageID {
			survivors = append(survivors, stage)
		}
	}
	normalized := domain.Normalize(survivors)

	target := replacementStage(normalized)

	if err := s.migrateMembers(ctx, tenantID, doomed, target); err != nil {
		return err
	}

	if changed := changedStages(survivors, normalized); len(changed) > 0 {
		if err := s.repo.UpsertStages(ctx, tenantID, changed); err != nil {
			s.log.StageMutation("delete_stage", tenantID.String(), stageID, "", err)
			return apperr.Internal("failed to persist surviving stages", err)
		}
	}

	if err := s.repo.DeleteStage(ctx, tenantID, stageID); err != nil {
		s.log.StageMutation("delete_stage", tenantID.String(), stageID, "", err)
		return err
	}
	s.log.StageMutation("delete_stage", tenantID.String(), stageID, "", nil)

	s.publishChange(ctx, tenantID, "stages")
	s.enqueueReconcile(ctx, tenantID)
	return nil
}

// CreateStage appends a custom stage to the tenant's pipeline and
// re-derives the set.
func (s *Service) CreateStage(ctx context.Context, tenantID uuid.UUID, title string) (domain.Stage, error) {
	sess := s.sessions.get(tenantID)
	sess.opMu.Lock()
	defer sess.opMu.Unlock()

	stages, err := s.ensureStages(ctx, tenantID)
	if err != nil {
		return domain.Stage{}, err
	}

	stage := domain.Stage{
		ID:       stageSlug(title) + "-" + uuid.New().String()[:8],
		TenantID: tenantID,
		Title:    strings.TrimSpace(title),
	}

	normalized := domain.Normalize(append(stages, stage))

	if !sess.beginMutation() {
		return domain.Stage{}, apperr.Conflict(msgMutationInFlight)
	}
	defer sess.endMutation()

	if err := s.repo.UpsertStages(ctx, tenantID, normalized); err != nil {
		s.log.StageMutation("create_stage", tenantID.String(), stage.ID, "", err)
		return domain.Stage{}, apperr.Internal("failed to create stage", err)
	}
	s.log.StageMutation("create_stage", tenantID.String(), stage.ID, "", nil)

	s.publishChange(ctx, tenantID, "stages")
	return normalized[len(normalized)-1], nil
}

// migrateMembers rewrites the stage fields of every project that resolved
// to the source stage, with the same effect a drop on the destination would
// have: moveFields under the combined view, so reference-free projects gain
// a pin on the destination instead of drifting by status.
func (s *Service) migrateMembers(ctx context.Context, tenantID uuid.UUID, source, dest domain.Stage) error {
	projects, err := s.repo.ListBoardProjects(ctx, tenantID)
	if err != nil {
		return apperr.Internal("failed to load projects", err)
	}

	fields := moveFields(dest, domain.ViewContext{ServiceFilter: domain.ServiceFilterAll})
	for _, project := range projects {
		if !memberOfStage(project, source) {
			continue
		}
		refMatches := (fields.StageRef == nil && project.StageRef == "") ||
			(fields.StageRef != nil && project.StageRef == *fields.StageRef)
		if project.Status == fields.Status && project.Progress == fields.Progress && refMatches {
			// Already carries the destination's values; skip the write.
			continue
		}
		if err := s.repo.UpdateProjectStageFields(ctx, tenantID, project.ID, fields); err != nil {
			s.log.StageMutation("migrate_members", tenantID.String(), source.ID, project.ID.String(), err)
			return apperr.Internal("failed to migrate project", err)
		}
	}
	return nil
}

// memberOfStage resolves membership by reference when present, status
// otherwise.
func memberOfStage(project domain.Project, stage domain.Stage) bool {
	if ref, ok := domain.ParseStageRef(project.StageRef); ok {
		return ref.Matches(stage)
	}
	return project.Status == stage.Status
}

// replacementStage picks the lowest-order survivor, preferring a fixed one.
func replacementStage(stages []domain.Stage) domain.Stage {
	for _, stage := range stages {
		if stage.IsFixed {
			return stage
		}
	}
	return stages[0]
}

func changedStages(before, after []domain.Stage) []domain.Stage {
	byID := make(map[string]domain.Stage, len(before))
	for _, stage := range before {
		byID[stage.ID] = stage
	}
	var changed []domain.Stage
	for _, stage := range after {
		prev, ok := byID[stage.ID]
		if !ok || prev.Order != stage.Order || prev.Progress != stage.Progress || prev.Status != stage.Status {
			changed = append(changed, stage)
		}
	}
	return changed
}

func (s *Service) enqueueReconcile(ctx context.Context, tenantID uuid.UUID) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueueBoardReconcile(ctx, tenantID); err != nil {
		s.log.Warn("enqueue board reconcile", "tenant_id", tenantID.String(), "error", err)
	}
}

// publishBoardOnly emits the in-process board event without a cross-instance
// stage-change signal; project moves don't alter the stage set.
func (s *Service) publishBoardOnly(ctx context.Context, tenantID uuid.UUID, reason string) {
	if s.bus != nil {
		s.bus.Publish(ctx, events.BoardChanged{
			BaseEvent: events.NewBaseEvent(),
			TenantID:  tenantID,
			Reason:    reason,
		})
	}
}

// isTerminalColumn reports whether the stage is the last normal column or a
// recurring terminal column.
func isTerminalColumn(target domain.Stage, persisted []domain.Stage) bool {
	if domain.IsRecurringOnly(target) {
		return true
	}
	return len(persisted) > 0 && persisted[len(persisted)-1].ID == target.ID
}

func findStage(stages []domain.Stage, stageID string) (domain.Stage, bool) {
	for _, stage := range stages {
		if stage.ID == stageID {
			return stage, true
		}
	}
	return domain.Stage{}, false
}

func indexOfStage(stages []domain.Stage, stageID string) (int, bool) {
	for i, stage := range stages {
		if stage.ID == stageID {
			return i, true
		}
	}
	return 0, false
}

func spliceStages(stages []domain.Stage, from, to int) []domain.Stage {
	out := make([]domain.Stage, 0, len(stages))
	out = append(out, stages...)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := append([]domain.Stage{}, out[to:]...)
	out = append(out[:to], moved)
	return append(out, rest...)
}

func stageSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "stage"
	}
	return slug
}
