// Package service implements the stage pipeline engine: board views, the
// mutation protocol, topology bootstrap, and the live-subscription session.
package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/board/repository"
	"flowboard_backend/internal/events"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

// CategoryReader lists the tenant's service categories. Implemented by an
// adapter over the services bounded context.
type CategoryReader interface {
	ListCategories(ctx context.Context, tenantID uuid.UUID) ([]domain.Category, error)
}

// ChangeNotifier carries stage-change signals between instances: writes
// publish, sessions subscribe. Implemented by the Redis notifier.
type ChangeNotifier interface {
	Publish(ctx context.Context, tenantID uuid.UUID) error
	Subscribe(ctx context.Context, tenantID uuid.UUID, onChange func()) (func(), error)
}

// TaskEnqueuer schedules background work after multi-write mutations.
type TaskEnqueuer interface {
	EnqueueBoardReconcile(ctx context.Context, tenantID uuid.UUID) error
}

// Service provides the board engine's operations.
type Service struct {
	repo       repository.Repository
	categories CategoryReader
	notifier   ChangeNotifier // optional
	enqueuer   TaskEnqueuer   // optional
	bus        events.Bus
	log        *logger.Logger
	sessions   *sessionRegistry
}

// New creates a board service. notifier and enqueuer may be nil when the
// deployment runs without Redis.
func New(repo repository.Repository, categories CategoryReader, notifier ChangeNotifier, enqueuer TaskEnqueuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		notifier:   notifier,
		enqueuer:   enqueuer,
		bus:        bus,
		log:        log,
		sessions:   newSessionRegistry(),
	}
}

// Column pairs a stage with the projects resolved into it.
type Column struct {
	Stage    domain.Stage
	Projects []domain.Project
}

// ViewContextFor builds the membership view for a service filter by looking
// the filter up in the tenant's categories.
func ViewContextFor(filter string, categories []domain.Category) domain.ViewContext {
	view := domain.ViewContext{ServiceFilter: filter}
	if filter == domain.ServiceFilterAll || filter == domain.ServiceFilterUncategorized {
		return view
	}
	for _, cat := range categories {
		if cat.Name == filter {
			view.Recurring = cat.IsRecurring
			break
		}
	}
	return view
}

// ColumnsForView resolves the tenant's board for the given service filter:
// the stage columns shown and each project's membership. A first read of an
// empty tenant seeds the default topology.
func (s *Service) ColumnsForView(ctx context.Context, tenantID uuid.UUID, filter string) ([]Column, error) {
	stages, err := s.ensureStages(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal("failed to load categories", err)
	}
	view := ViewContextFor(filter, categories)

	projects, err := s.repo.ListBoardProjects(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal("failed to load projects", err)
	}

	if view.ServiceFilter != domain.ServiceFilterAll && view.Recurring {
		projects = s.migrateStaleRefs(ctx, tenantID, projects)
	}

	columns := make([]Column, 0)
	for _, stage := range s.viewStages(stages, view, tenantID) {
		column := Column{Stage: stage, Projects: []domain.Project{}}
		for _, project := range projects {
			if !projectInFilter(project, view, categories) {
				continue
			}
			recurring := domain.IsRecurringProject(project, categories)
			if domain.ResolveColumn(project, stage, view, recurring) {
				column.Projects = append(column.Projects, project)
			}
		}
		columns = append(columns, column)
	}
	return columns, nil
}

// viewStages returns the stage columns a view renders. The combined view is
// the persisted set plus the recurring-only terminal columns; a recurring
// single-service view renders the recurring catalog; everything else renders
// the persisted set.
func (s *Service) viewStages(persisted []domain.Stage, view domain.ViewContext, tenantID uuid.UUID) []domain.Stage {
	if view.ServiceFilter == domain.ServiceFilterAll {
		templates := domain.Catalog(domain.TopologyRecurring).Templates
		out := append([]domain.Stage{}, persisted...)
		out = append(out,
			domain.VirtualStage(templates[len(templates)-2], tenantID),
			domain.VirtualStage(templates[len(templates)-1], tenantID),
		)
		return out
	}
	if view.Recurring {
		templates := domain.Catalog(domain.TopologyRecurring).Templates
		out := make([]domain.Stage, 0, len(templates))
		for _, tpl := range templates {
			out = append(out, domain.VirtualStage(tpl, tenantID))
		}
		return out
	}
	return persisted
}

// projectInFilter reports whether the project belongs to the selected
// service filter at all, before column resolution.
func projectInFilter(project domain.Project, view domain.ViewContext, categories []domain.Category) bool {
	switch view.ServiceFilter {
	case domain.ServiceFilterAll:
		return true
	case domain.ServiceFilterUncategorized:
		for _, svc := range project.ServiceTypes {
			for _, cat := range categories {
				if cat.Name == svc {
					return false
				}
			}
		}
		return true
	default:
		for _, svc := range project.ServiceTypes {
			if svc == view.ServiceFilter {
				return true
			}
		}
		return false
	}
}

// migrateStaleRefs clears non-template stage references while a recurring
// single-service view is active: placement there is status-based and a
// custom-stage ref left behind would pin the project once the filter
// changes back. Failures are logged and skipped; the view stays readable.
func (s *Service) migrateStaleRefs(ctx context.Context, tenantID uuid.UUID, projects []domain.Project) []domain.Project {
	out := make([]domain.Project, len(projects))
	for i, project := range projects {
		out[i] = project
		ref, ok := domain.ParseStageRef(project.StageRef)
		if !ok || ref.IsTemplate() {
			continue
		}
		err := s.repo.UpdateProjectStageFields(ctx, tenantID, project.ID, repository.StageFieldsUpdate{
			Status:   project.Status,
			Progress: project.Progress,
			StageRef: nil,
		})
		if err != nil {
			s.log.StageMutation("migrate_stale_ref", tenantID.String(), project.StageRef, project.ID.String(), err)
			continue
		}
		out[i].StageRef = ""
	}
	return out
}

// ensureStages loads the tenant's stage set, seeding the default topology
// when the tenant has none. The bootstrap guard makes a concurrent second
// attempt a silent no-op.
func (s *Service) ensureStages(ctx context.Context, tenantID uuid.UUID) ([]domain.Stage, error) {
	stages, err := s.repo.ListStages(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal("failed to load stages", err)
	}
	if len(stages) > 0 {
		return sortedByOrder(stages), nil
	}

	sess := s.sessions.get(tenantID)
	if !sess.beginBootstrap() {
		// Another goroutine is seeding; serve the empty set for now.
		return stages, nil
	}
	defer sess.endBootstrap()

	// Re-check under the guard: the racing attempt may have finished.
	stages, err = s.repo.ListStages(ctx, tenantID)
	if err != nil {
		return nil, apperr.Internal("failed to load stages", err)
	}
	if len(stages) > 0 {
		return sortedByOrder(stages), nil
	}

	seeded := domain.InstantiateTopology(domain.TopologyNormal, tenantID)
	if err := s.repo.UpsertStages(ctx, tenantID, seeded); err != nil {
		s.log.StageMutation("bootstrap", tenantID.String(), "", "", err)
		return nil, apperr.Internal("failed to bootstrap topology", err)
	}

	s.log.StageMutation("bootstrap", tenantID.String(), "", "", nil)
	s.publishChange(ctx, tenantID, "bootstrap")
	if s.bus != nil {
		s.bus.Publish(ctx, events.TopologyBootstrapped{
			BaseEvent:  events.NewBaseEvent(),
			TenantID:   tenantID,
			StageCount: len(seeded),
		})
	}
	return seeded, nil
}

// ListStages returns the tenant's persisted stage set, seeding if empty.
func (s *Service) ListStages(ctx context.Context, tenantID uuid.UUID) ([]domain.Stage, error) {
	return s.ensureStages(ctx, tenantID)
}

func (s *Service) publishChange(ctx context.Context, tenantID uuid.UUID, reason string) {
	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, tenantID); err != nil {
			s.log.Warn("publish board change", "tenant_id", tenantID.String(), "error", err)
		}
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.BoardChanged{
			BaseEvent: events.NewBaseEvent(),
			TenantID:  tenantID,
			Reason:    reason,
		})
	}
}

func sortedByOrder(stages []domain.Stage) []domain.Stage {
	out := append([]domain.Stage{}, stages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
