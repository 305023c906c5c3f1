// Package service provides business logic for service categories.
package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"flowboard_backend/internal/services/repository"
	"flowboard_backend/internal/services/transport"
	"flowboard_backend/platform/logger"
)

// defaultCategories are seeded for every new organization. The recurring
// ones flow through the recurring stage topology on the board.
var defaultCategories = []struct {
	Name        string
	IsRecurring bool
}{
	{Name: "Webdesign", IsRecurring: false},
	{Name: "Webshop", IsRecurring: false},
	{Name: "SEO", IsRecurring: true},
	{Name: "Hosting", IsRecurring: true},
}

// Service provides business logic for service categories.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new category service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// GetByID retrieves a category by ID.
func (s *Service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (transport.CategoryResponse, error) {
	cat, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return toResponse(cat), nil
}

// GetBySlug retrieves a category by slug.
func (s *Service) GetBySlug(ctx context.Context, organizationID uuid.UUID, slug string) (transport.CategoryResponse, error) {
	cat, err := s.repo.GetBySlug(ctx, organizationID, slug)
	if err != nil {
		return transport.CategoryResponse{}, err
	}
	return toResponse(cat), nil
}

// List retrieves all categories of the tenant.
func (s *Service) List(ctx context.Context, organizationID uuid.UUID) (transport.CategoryListResponse, error) {
	items, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return transport.CategoryListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListActive retrieves only active categories.
func (s *Service) ListActive(ctx context.Context, organizationID uuid.UUID) (transport.CategoryListResponse, error) {
	items, err := s.repo.ListActive(ctx, organizationID)
	if err != nil {
		return transport.CategoryListResponse{}, err
	}
	return toListResponse(items), nil
}

// ListRaw returns the tenant's active categories as repository records, for
// in-process consumers like the board.
func (s *Service) ListRaw(ctx context.Context, organizationID uuid.UUID) ([]repository.Category, error) {
	return s.repo.ListActive(ctx, organizationID)
}

// Create creates a new category.
func (s *Service) Create(ctx context.Context, organizationID uuid.UUID, req transport.CreateCategoryRequest) (transport.CategoryResponse, error) {
	displayOrder := 0
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}

	cat, err := s.repo.Create(ctx, repository.CreateParams{
		OrganizationID: organizationID,
		Name:           req.Name,
		Slug:           generateSlug(req.Name),
		IsRecurring:    req.IsRecurring,
		DisplayOrder:   displayOrder,
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.log.Info("service category created", "id", cat.ID, "name", cat.Name, "isRecurring", cat.IsRecurring)
	return toResponse(cat), nil
}

// Update updates an existing category.
func (s *Service) Update(ctx context.Context, organizationID, id uuid.UUID, req transport.UpdateCategoryRequest) (transport.CategoryResponse, error) {
	var slug *string
	if req.Name != nil {
		newSlug := generateSlug(*req.Name)
		slug = &newSlug
	}

	cat, err := s.repo.Update(ctx, organizationID, repository.UpdateParams{
		ID:           id,
		Name:         req.Name,
		Slug:         slug,
		IsRecurring:  req.IsRecurring,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.log.Info("service category updated", "id", cat.ID, "name", cat.Name)
	return toResponse(cat), nil
}

// Delete removes a category, or deactivates it when projects still carry
// its name.
func (s *Service) Delete(ctx context.Context, organizationID, id uuid.UUID) (transport.DeleteCategoryResponse, error) {
	cat, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.DeleteCategoryResponse{}, err
	}

	used, err := s.repo.HasProjects(ctx, organizationID, cat.Name)
	if err != nil {
		return transport.DeleteCategoryResponse{}, err
	}

	if used {
		if err := s.repo.SetActive(ctx, organizationID, id, false); err != nil {
			return transport.DeleteCategoryResponse{}, err
		}
		s.log.Info("service category deactivated", "id", id)
		return transport.DeleteCategoryResponse{Status: "deactivated"}, nil
	}

	if err := s.repo.Delete(ctx, organizationID, id); err != nil {
		return transport.DeleteCategoryResponse{}, err
	}

	s.log.Info("service category deleted", "id", id)
	return transport.DeleteCategoryResponse{Status: "deleted"}, nil
}

// ToggleActive flips the is_active flag for a category.
func (s *Service) ToggleActive(ctx context.Context, organizationID, id uuid.UUID) (transport.CategoryResponse, error) {
	cat, err := s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	if err := s.repo.SetActive(ctx, organizationID, id, !cat.IsActive); err != nil {
		return transport.CategoryResponse{}, err
	}

	cat, err = s.repo.GetByID(ctx, organizationID, id)
	if err != nil {
		return transport.CategoryResponse{}, err
	}

	s.log.Info("service category active toggled", "id", id, "isActive", cat.IsActive)
	return toResponse(cat), nil
}

// SeedDefaults creates the default categories for a new organization.
// Called from the OrganizationCreated event handler.
func (s *Service) SeedDefaults(ctx context.Context, organizationID uuid.UUID) error {
	existing, err := s.repo.List(ctx, organizationID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for i, def := range defaultCategories {
		_, err := s.repo.Create(ctx, repository.CreateParams{
			OrganizationID: organizationID,
			Name:           def.Name,
			Slug:           generateSlug(def.Name),
			IsRecurring:    def.IsRecurring,
			DisplayOrder:   i,
		})
		if err != nil {
			return err
		}
	}

	s.log.Info("default service categories seeded", "organizationId", organizationID, "count", len(defaultCategories))
	return nil
}

// toResponse converts a repository Category to a transport response.
func toResponse(cat repository.Category) transport.CategoryResponse {
	return transport.CategoryResponse{
		ID:           cat.ID,
		Name:         cat.Name,
		Slug:         cat.Slug,
		IsRecurring:  cat.IsRecurring,
		IsActive:     cat.IsActive,
		DisplayOrder: cat.DisplayOrder,
		CreatedAt:    cat.CreatedAt,
		UpdatedAt:    cat.UpdatedAt,
	}
}

func toListResponse(items []repository.Category) transport.CategoryListResponse {
	responses := make([]transport.CategoryResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}
	return transport.CategoryListResponse{Items: responses, Total: len(items)}
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugRepeatDashes = regexp.MustCompile(`-+`)
)

// generateSlug creates a URL-friendly slug from a name.
func generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugRepeatDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
