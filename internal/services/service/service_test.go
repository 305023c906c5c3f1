package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"flowboard_backend/internal/services/repository"
	"flowboard_backend/internal/services/transport"
	"flowboard_backend/platform/apperr"
	"flowboard_backend/platform/logger"
)

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[uuid.UUID]repository.Category
	usedNames  map[string]bool
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{
		categories: make(map[uuid.UUID]repository.Category),
		usedNames:  make(map[string]bool),
	}
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, organizationID, id uuid.UUID) (repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[id]
	if !ok || cat.OrganizationID != organizationID {
		return repository.Category{}, apperr.NotFound("service category not found")
	}
	return cat, nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, organizationID uuid.UUID, slug string) (repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cat := range r.categories {
		if cat.OrganizationID == organizationID && cat.Slug == slug {
			return cat, nil
		}
	}
	return repository.Category{}, apperr.NotFound("service category not found")
}

func (r *fakeCategoryRepo) List(_ context.Context, organizationID uuid.UUID) ([]repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.Category
	for _, cat := range r.categories {
		if cat.OrganizationID == organizationID {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) ListActive(ctx context.Context, organizationID uuid.UUID) ([]repository.Category, error) {
	all, _ := r.List(ctx, organizationID)
	var out []repository.Category
	for _, cat := range all {
		if cat.IsActive {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) Create(_ context.Context, params repository.CreateParams) (repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat := repository.Category{
		ID:             uuid.New(),
		OrganizationID: params.OrganizationID,
		Name:           params.Name,
		Slug:           params.Slug,
		IsRecurring:    params.IsRecurring,
		IsActive:       true,
		DisplayOrder:   params.DisplayOrder,
		CreatedAt:      time.Now().Format(time.RFC3339),
		UpdatedAt:      time.Now().Format(time.RFC3339),
	}
	r.categories[cat.ID] = cat
	return cat, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, organizationID uuid.UUID, params repository.UpdateParams) (repository.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[params.ID]
	if !ok || cat.OrganizationID != organizationID {
		return repository.Category{}, apperr.NotFound("service category not found")
	}
	if params.Name != nil {
		cat.Name = *params.Name
	}
	if params.Slug != nil {
		cat.Slug = *params.Slug
	}
	if params.IsRecurring != nil {
		cat.IsRecurring = *params.IsRecurring
	}
	if params.DisplayOrder != nil {
		cat.DisplayOrder = *params.DisplayOrder
	}
	r.categories[params.ID] = cat
	return cat, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, organizationID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[id]
	if !ok || cat.OrganizationID != organizationID {
		return apperr.NotFound("service category not found")
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) SetActive(_ context.Context, organizationID, id uuid.UUID, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[id]
	if !ok || cat.OrganizationID != organizationID {
		return apperr.NotFound("service category not found")
	}
	cat.IsActive = isActive
	r.categories[id] = cat
	return nil
}

func (r *fakeCategoryRepo) HasProjects(_ context.Context, _ uuid.UUID, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usedNames[name], nil
}

var _ repository.Repository = (*fakeCategoryRepo)(nil)

func newTestService() (*Service, *fakeCategoryRepo, uuid.UUID) {
	repo := newFakeCategoryRepo()
	return New(repo, logger.New("development")), repo, uuid.New()
}

func TestSeedDefaultsCreatesFourCategories(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx, orgID); err != nil {
		t.Fatalf("seed defaults: %v", err)
	}

	resp, err := svc.List(ctx, orgID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 4 {
		t.Fatalf("expected 4 default categories, got %d", resp.Total)
	}

	recurring := 0
	for _, cat := range resp.Items {
		if cat.IsRecurring {
			recurring++
		}
	}
	if recurring != 2 {
		t.Fatalf("expected 2 recurring defaults, got %d", recurring)
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	if err := svc.SeedDefaults(ctx, orgID); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := svc.SeedDefaults(ctx, orgID); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	resp, err := svc.List(ctx, orgID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 4 {
		t.Fatalf("expected seeding to be skipped, got %d categories", resp.Total)
	}
}

func TestDeleteDeactivatesCategoryInUse(t *testing.T) {
	svc, repo, orgID := newTestService()
	ctx := context.Background()

	cat, err := svc.Create(ctx, orgID, transport.CreateCategoryRequest{Name: "Webdesign"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.usedNames["Webdesign"] = true

	resp, err := svc.Delete(ctx, orgID, cat.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.Status != "deactivated" {
		t.Fatalf("expected deactivation, got %s", resp.Status)
	}

	stored, err := svc.GetByID(ctx, orgID, cat.ID)
	if err != nil {
		t.Fatalf("category must survive deactivation: %v", err)
	}
	if stored.IsActive {
		t.Fatal("category should be inactive")
	}
}

func TestDeleteRemovesUnusedCategory(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	cat, err := svc.Create(ctx, orgID, transport.CreateCategoryRequest{Name: "Webshop"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := svc.Delete(ctx, orgID, cat.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if resp.Status != "deleted" {
		t.Fatalf("expected hard delete, got %s", resp.Status)
	}

	if _, err := svc.GetByID(ctx, orgID, cat.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Webdesign", "webdesign"},
		{"Online Marketing", "online-marketing"},
		{"SEO & SEA", "seo-sea"},
		{"  Hosting  ", "hosting"},
	}
	for _, tc := range cases {
		if got := generateSlug(tc.name); got != tc.want {
			t.Errorf("generateSlug(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestToggleActiveFlipsFlag(t *testing.T) {
	svc, _, orgID := newTestService()
	ctx := context.Background()

	cat, err := svc.Create(ctx, orgID, transport.CreateCategoryRequest{Name: "Hosting", IsRecurring: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	toggled, err := svc.ToggleActive(ctx, orgID, cat.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsActive {
		t.Fatal("expected category to be deactivated")
	}

	toggled, err = svc.ToggleActive(ctx, orgID, cat.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if !toggled.IsActive {
		t.Fatal("expected category to be active again")
	}
}
