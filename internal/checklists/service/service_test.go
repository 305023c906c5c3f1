package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"flowboard_backend/internal/checklists/repository"
	"flowboard_backend/internal/checklists/transport"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]repository.Item)}
}

func (r *fakeItemRepo) List(_ context.Context, organizationID uuid.UUID, stageBaseID string) ([]repository.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Item
	for _, item := range r.items {
		if item.OrganizationID == organizationID && item.StageBaseID == stageBaseID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) Create(_ context.Context, item repository.Item) (repository.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = uuid.New()
	item.Position = len(r.items)
	item.CreatedAt = time.Now().Format(time.RFC3339)
	item.UpdatedAt = item.CreatedAt
	r.items[item.ID] = item
	return item, nil
}

func (r *fakeItemRepo) Update(_ context.Context, organizationID uuid.UUID, params repository.UpdateParams) (repository.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[params.ID]
	if !ok || item.OrganizationID != organizationID {
		return repository.Item{}, apperr.NotFound("checklist item not found")
	}
	if params.Label != nil {
		item.Label = *params.Label
	}
	if params.Done != nil {
		item.Done = *params.Done
	}
	r.items[params.ID] = item
	return item, nil
}

func (r *fakeItemRepo) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok || item.OrganizationID != organizationID {
		return apperr.NotFound("checklist item not found")
	}
	delete(r.items, id)
	return nil
}

var _ repository.Repository = (*fakeItemRepo)(nil)

func newTestService() (*Service, *fakeItemRepo, uuid.UUID) {
	repo := newFakeItemRepo()
	return New(repo, logger.New("development")), repo, uuid.New()
}

func TestCreateNormalizesSuffixedStageID(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, "development-"+orgID.String(), transport.CreateItemRequest{Label: "Deploy staging"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.StageBaseID != "development" {
		t.Fatalf("expected base id development, got %s", created.StageBaseID)
	}

	// The same checklist is visible under the bare template id.
	resp, err := svc.List(ctx, orgID, "development")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 item, got %d", resp.Total)
	}
}

func TestCustomStageKeepsLiteralKey(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, "custom-stage-123", transport.CreateItemRequest{Label: "Call client"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.StageBaseID != "custom-stage-123" {
		t.Fatalf("expected literal key, got %s", created.StageBaseID)
	}
}

func TestEmptyStageIDIsRejected(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	_, err := svc.List(ctx, orgID, "")
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListCountsDoneItems(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, orgID, "design", transport.CreateItemRequest{Label: "Wireframes"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(ctx, orgID, "design", transport.CreateItemRequest{Label: "Style guide"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	done := true
	if _, err := svc.Update(ctx, orgID, first.ID, transport.UpdateItemRequest{Done: &done}); err != nil {
		t.Fatalf("update: %v", err)
	}

	resp, err := svc.List(ctx, orgID, "design")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 2 || resp.DoneCount != 1 {
		t.Fatalf("expected total 2 done 1, got total %d done %d", resp.Total, resp.DoneCount)
	}
}

func TestDeleteIsTenantScoped(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, orgID, "development", transport.CreateItemRequest{Label: "Review"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, uuid.New(), created.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
	if err := svc.Delete(ctx, orgID, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
