// Package service provides business logic for per-stage checklists.
package service

import (
	"context"

	"github.com/google/uuid"

	boarddomain "flowboard_backend/internal/board/domain"
	"flowboard_backend/internal/checklists/repository"
	"flowboard_backend/internal/checklists/transport"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

// Service provides business logic for checklists.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a checklist service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns the checklist for a stage. The stage may be addressed by any
// identifier shape; it is normalized to the base id.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID, stageID string) (transport.ChecklistResponse, error) {
	baseID, err := normalizeStageKey(stageID)
	if err != nil {
		return transport.ChecklistResponse{}, err
	}

	items, err := s.repo.List(ctx, organizationID, baseID)
	if err != nil {
		return transport.ChecklistResponse{}, err
	}

	resp := transport.ChecklistResponse{
		StageBaseID: baseID,
		Items:       make([]transport.ItemResponse, 0, len(items)),
		Total:       len(items),
	}
	for _, item := range items {
		if item.Done {
			resp.DoneCount++
		}
		resp.Items = append(resp.Items, toResponse(item))
	}
	return resp, nil
}

// Create appends an item to the stage's checklist.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, stageID string, req transport.CreateItemRequest) (transport.ItemResponse, error) {
	baseID, err := normalizeStageKey(stageID)
	if err != nil {
		return transport.ItemResponse{}, err
	}

	item, err := s.repo.Create(ctx, repository.Item{
		OrganizationID: organizationID,
		StageBaseID:    baseID,
		Label:          req.Label,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}

	s.log.Info("checklist item created", "id", item.ID, "stageBaseId", baseID)
	return toResponse(item), nil
}

// Update changes an item's label or done flag.
func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateItemRequest) (transport.ItemResponse, error) {
	item, err := s.repo.Update(ctx, organizationID, repository.UpdateParams{
		ID:    id,
		Label: req.Label,
		Done:  req.Done,
	})
	if err != nil {
		return transport.ItemResponse{}, err
	}
	return toResponse(item), nil
}

// Delete removes an item.
func (s *Service) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return s.repo.Delete(ctx, organizationID, id)
}

// normalizeStageKey maps any stage identifier shape onto the base id that
// checklists are stored under, so an item attached to "development" is
// found when the stage is addressed as "development-<tenant>".
func normalizeStageKey(stageID string) (string, error) {
	ref, ok := boarddomain.ParseStageRef(stageID)
	if !ok {
		return "", apperr.Validation("stage id is required")
	}
	if ref.IsTemplate() {
		return ref.TemplateID, nil
	}
	return ref.Raw, nil
}

func toResponse(item repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:          item.ID,
		StageBaseID: item.StageBaseID,
		Label:       item.Label,
		Done:        item.Done,
		Position:    item.Position,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
